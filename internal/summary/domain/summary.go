package domain

import (
	"time"

	docdomain "github.com/Chitresh-code/doc-sign/internal/document/domain"
)

// DocumentSummary is the AI-extracted structured summary of a document,
// derived from the encrypted HTML artifact. Values inside Dates and
// SignaturesRequired are ciphertext copied out of the document and stay
// encrypted at rest; they are decrypted on read.
type DocumentSummary struct {
	ID         string                       `json:"id" gorm:"primaryKey"`
	DocumentID string                       `json:"document_id" gorm:"uniqueIndex;not null"`
	Document   *docdomain.GeneratedDocument `json:"-" gorm:"foreignKey:DocumentID"`

	Terms              string             `json:"terms" gorm:"type:text"`
	Responsibilities   string             `json:"responsibilities" gorm:"type:text"`
	Dates              docdomain.FieldMap `json:"dates" gorm:"type:jsonb"`
	SignaturesRequired docdomain.FieldMap `json:"signatures_required" gorm:"type:jsonb"`

	GeneratedAt time.Time `json:"generated_at"`
}

// TableName specifies the table name for GORM
func (DocumentSummary) TableName() string {
	return "document_summaries"
}
