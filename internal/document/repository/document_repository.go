package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	docdomain "github.com/Chitresh-code/doc-sign/internal/document/domain"
)

// DocumentRepository defines the interface for generated document persistence
type DocumentRepository interface {
	Create(doc *docdomain.GeneratedDocument) error
	FindByID(id string) (*docdomain.GeneratedDocument, error)
	ListByOwner(ownerID string) ([]*docdomain.GeneratedDocument, error)
}

// documentRepository implements DocumentRepository interface
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new instance of documentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{
		db: db,
	}
}

func (r *documentRepository) Create(doc *docdomain.GeneratedDocument) error {
	doc.ID = uuid.New().String()
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = time.Now()
	return r.db.Create(doc).Error
}

func (r *documentRepository) FindByID(id string) (*docdomain.GeneratedDocument, error) {
	var doc docdomain.GeneratedDocument
	err := r.db.Preload("Owner").Preload("Signer").Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByOwner(ownerID string) ([]*docdomain.GeneratedDocument, error) {
	var docs []*docdomain.GeneratedDocument
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}
