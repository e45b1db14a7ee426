package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	sigdomain "github.com/Chitresh-code/doc-sign/internal/signature/domain"
	"github.com/Chitresh-code/doc-sign/pkg/apperr"
)

// SignedDocumentRepository defines the interface for signed document persistence
type SignedDocumentRepository interface {
	// Create inserts the signed record. A second insert for the same
	// document returns apperr.ErrConflict.
	Create(signed *sigdomain.SignedDocument) error
	FindByDocumentID(documentID string) (*sigdomain.SignedDocument, error)
}

// signedDocumentRepository implements SignedDocumentRepository interface
type signedDocumentRepository struct {
	db *gorm.DB
}

// NewSignedDocumentRepository creates a new instance of signedDocumentRepository
func NewSignedDocumentRepository(db *gorm.DB) SignedDocumentRepository {
	return &signedDocumentRepository{
		db: db,
	}
}

func (r *signedDocumentRepository) Create(signed *sigdomain.SignedDocument) error {
	signed.ID = uuid.New().String()
	signed.SignedAt = time.Now()
	err := r.db.Create(signed).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrConflict
	}
	return err
}

func (r *signedDocumentRepository) FindByDocumentID(documentID string) (*sigdomain.SignedDocument, error) {
	var signed sigdomain.SignedDocument
	err := r.db.Preload("SignedBy").Where("document_id = ?", documentID).First(&signed).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &signed, nil
}
