package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	authdomain "github.com/Chitresh-code/doc-sign/internal/auth/domain"
	docdomain "github.com/Chitresh-code/doc-sign/internal/document/domain"
	docrepo "github.com/Chitresh-code/doc-sign/internal/document/repository"
	sumdomain "github.com/Chitresh-code/doc-sign/internal/summary/domain"
	"github.com/Chitresh-code/doc-sign/internal/summary/repository"
	"github.com/Chitresh-code/doc-sign/pkg/ai"
	"github.com/Chitresh-code/doc-sign/pkg/apperr"
	"github.com/Chitresh-code/doc-sign/pkg/blob"
)

// PassthroughDecrypter decrypts a value, returning it unchanged when it is
// not valid ciphertext.
type PassthroughDecrypter interface {
	DecryptOrPassthrough(value string) string
}

// SummaryView is the decrypted-on-read representation returned to callers.
type SummaryView struct {
	Terms              string            `json:"terms"`
	Responsibilities   string            `json:"responsibilities"`
	Dates              map[string]string `json:"dates"`
	SignaturesRequired map[string]string `json:"signatures_required"`
	GeneratedAt        time.Time         `json:"generated_at"`
}

// SummaryUsecase generates and serves AI summaries of generated documents.
type SummaryUsecase interface {
	Summarize(ctx context.Context, requester *authdomain.User, documentID string) (*sumdomain.DocumentSummary, error)
	GetSummary(requester *authdomain.User, documentID string) (*SummaryView, error)
}

// summaryUsecase implements SummaryUsecase interface
type summaryUsecase struct {
	docRepo     docrepo.DocumentRepository
	summaryRepo repository.SummaryRepository
	aiService   ai.DocumentAI
	blobs       blob.Store
	cipher      PassthroughDecrypter
}

// NewSummaryUsecase creates a new instance of summaryUsecase
func NewSummaryUsecase(
	docRepo docrepo.DocumentRepository,
	summaryRepo repository.SummaryRepository,
	aiService ai.DocumentAI,
	blobs blob.Store,
	cipher PassthroughDecrypter,
) SummaryUsecase {
	return &summaryUsecase{
		docRepo:     docRepo,
		summaryRepo: summaryRepo,
		aiService:   aiService,
		blobs:       blobs,
		cipher:      cipher,
	}
}

// Summarize feeds the persisted encrypted HTML artifact to the AI extractor
// and persists the structured result. Summarization happens at most once per
// document; the unique constraint on the document reference rejects the
// loser of a concurrent race.
func (u *summaryUsecase) Summarize(ctx context.Context, requester *authdomain.User, documentID string) (*sumdomain.DocumentSummary, error) {
	doc, err := u.docRepo.FindByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.ErrNotFound
	}

	if doc.SignerID == nil || *doc.SignerID != requester.ID {
		return nil, apperr.ErrForbidden
	}

	existing, err := u.summaryRepo.FindByDocumentID(doc.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrAlreadyExists
	}

	if doc.EncryptedHTML == "" {
		return nil, apperr.ErrNotFound
	}
	htmlContent, err := u.blobs.Read(doc.EncryptedHTML)
	if err != nil {
		return nil, apperr.ErrNotFound
	}

	result, err := u.aiService.SummarizeDocument(ctx, string(htmlContent))
	if err != nil {
		return nil, err
	}

	summary := &sumdomain.DocumentSummary{
		DocumentID:         doc.ID,
		Terms:              result.Terms,
		Responsibilities:   result.Responsibilities,
		Dates:              docdomain.FieldMap(result.Dates),
		SignaturesRequired: docdomain.FieldMap(result.SignaturesRequired),
	}
	if err := u.summaryRepo.Create(summary); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.ErrAlreadyExists
		}
		return nil, err
	}

	log.Printf("[Summary] Generated summary for document %s", doc.ID)
	return summary, nil
}

// GetSummary returns the stored summary with the structured mappings
// (dates, signatures_required) decrypted for display. Terms and
// responsibilities are AI prose, not field copies, and are served as stored.
func (u *summaryUsecase) GetSummary(requester *authdomain.User, documentID string) (*SummaryView, error) {
	doc, err := u.docRepo.FindByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.ErrNotFound
	}

	if doc.SignerID == nil || *doc.SignerID != requester.ID {
		return nil, apperr.ErrForbidden
	}

	summary, err := u.summaryRepo.FindByDocumentID(doc.ID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, apperr.ErrNotFound
	}

	view := &SummaryView{
		Terms:              summary.Terms,
		Responsibilities:   summary.Responsibilities,
		Dates:              map[string]string{},
		SignaturesRequired: map[string]string{},
		GeneratedAt:        summary.GeneratedAt,
	}
	for k, v := range summary.Dates {
		if v == "" {
			view.Dates[k] = ""
			continue
		}
		view.Dates[k] = u.cipher.DecryptOrPassthrough(v)
	}
	for k, v := range summary.SignaturesRequired {
		if v == "" {
			view.SignaturesRequired[k] = ""
			continue
		}
		view.SignaturesRequired[k] = u.cipher.DecryptOrPassthrough(v)
	}

	return view, nil
}
