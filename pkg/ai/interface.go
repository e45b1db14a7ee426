package ai

import "context"

// SummaryResult is the structured summary extracted from an encrypted HTML
// document. Fields may individually be empty when the model omits them.
// Values inside Dates and SignaturesRequired reflect encrypted content and
// need field-level decryption before display.
type SummaryResult struct {
	Terms              string            `json:"terms"`
	Responsibilities   string            `json:"responsibilities"`
	Dates              map[string]string `json:"dates"`
	SignaturesRequired map[string]string `json:"signatures_required"`
}

// DocumentAI is the interface for AI-assisted document generation.
// Implement this interface to add new providers (Gemini, OpenAI, Ollama, ...).
type DocumentAI interface {
	GenerateClause(ctx context.Context, prompt, contextText string) (string, error)
	SummarizeDocument(ctx context.Context, htmlContent string) (*SummaryResult, error)
}
