package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Chitresh-code/doc-sign/pkg/apperr"
)

// GeminiService talks to the Gemini REST API directly.
type GeminiService struct {
	ApiKey string
	Model  string
}

func NewGeminiService(apiKey string) *GeminiService {
	// gemini-2.5-flash is fast enough for synchronous generation
	return &GeminiService{ApiKey: apiKey, Model: "gemini-2.5-flash"}
}

// GenerateClause produces legal clause text for a document from the caller's
// prompt and a flattened textual context built from the document metadata.
func (g *GeminiService) GenerateClause(ctx context.Context, prompt, contextText string) (string, error) {
	fullPrompt := fmt.Sprintf(`You are an assistant that generates clauses for legal and business documents (NDAs, offer letters, invoices). Generate a clause based on the provided context and prompt. Return only the clause text, no preamble.

Context:
%s

Prompt:
%s`, contextText, prompt)

	text, err := g.generateContent(ctx, fullPrompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// SummarizeDocument extracts a structured summary from an encrypted HTML
// document. The model must answer with a single JSON object; anything else
// fails with a SummarizationError carrying the raw output.
func (g *GeminiService) SummarizeDocument(ctx context.Context, htmlContent string) (*SummaryResult, error) {
	prompt := fmt.Sprintf(`You are an assistant that summarizes encrypted HTML legal/business documents and extracts structured summaries for easy review.

Below is an encrypted HTML document.

Extract and return a structured JSON object with the following fields:
- "terms": A brief explanation of the main agreement or legal terms.
- "responsibilities": What each party is expected to do or avoid.
- "dates": Important dates such as effective date, expiration, or signing date, as an object of name to value.
- "signatures_required": Names or roles of signers required for this document, as an object of name to value.

If any field is missing from the document, leave it as null or an empty string. Respond with the JSON object only.

### ENCRYPTED HTML:
%s`, htmlContent)

	content, err := g.generateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseSummary(content)
}

func parseSummary(content string) (*SummaryResult, error) {
	content = stripCodeFence(content)

	var result SummaryResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, &apperr.SummarizationError{Raw: content}
	}
	return &result, nil
}

func (g *GeminiService) generateContent(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", g.Model, g.ApiKey)

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	if c, ok := result["candidates"].([]interface{}); ok && len(c) > 0 {
		if cand, ok := c[0].(map[string]interface{}); ok {
			if content, ok := cand["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if text, ok := part["text"].(string); ok {
							return text, nil
						}
					}
				}
			}
		}
	}
	return "", fmt.Errorf("no content returned")
}

// stripCodeFence removes a leading ```json fence and trailing backticks that
// models wrap JSON answers in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimRight(s, "`")
	return strings.TrimSpace(s)
}
