package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	sumdomain "github.com/Chitresh-code/doc-sign/internal/summary/domain"
	"github.com/Chitresh-code/doc-sign/pkg/apperr"
)

// SummaryRepository defines the interface for document summary persistence
type SummaryRepository interface {
	// Create inserts the summary. A second insert for the same document
	// returns apperr.ErrConflict.
	Create(summary *sumdomain.DocumentSummary) error
	FindByDocumentID(documentID string) (*sumdomain.DocumentSummary, error)
}

// summaryRepository implements SummaryRepository interface
type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new instance of summaryRepository
func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{
		db: db,
	}
}

func (r *summaryRepository) Create(summary *sumdomain.DocumentSummary) error {
	summary.ID = uuid.New().String()
	summary.GeneratedAt = time.Now()
	err := r.db.Create(summary).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrConflict
	}
	return err
}

func (r *summaryRepository) FindByDocumentID(documentID string) (*sumdomain.DocumentSummary, error) {
	var summary sumdomain.DocumentSummary
	err := r.db.Where("document_id = ?", documentID).First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}
