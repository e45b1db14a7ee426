package domain

import (
	"time"

	authdomain "github.com/Chitresh-code/doc-sign/internal/auth/domain"
	docdomain "github.com/Chitresh-code/doc-sign/internal/document/domain"
)

// SignedDocument is the signed counterpart of a GeneratedDocument. The
// unique index on DocumentID is what makes signing an at-most-once
// transition: the loser of a concurrent race hits the constraint instead of
// overwriting the winner.
type SignedDocument struct {
	ID         string                        `json:"id" gorm:"primaryKey"`
	DocumentID string                        `json:"document_id" gorm:"uniqueIndex;not null"`
	Document   *docdomain.GeneratedDocument  `json:"-" gorm:"foreignKey:DocumentID"`
	SignedByID string                        `json:"signed_by_id" gorm:"not null"`
	SignedBy   *authdomain.User              `json:"signed_by,omitempty" gorm:"foreignKey:SignedByID"`

	SignedPDF          string `json:"signed_pdf"`
	SignedEncryptedPDF string `json:"signed_encrypted_pdf"`

	SignedAt time.Time `json:"signed_at"`
}

// TableName specifies the table name for GORM
func (SignedDocument) TableName() string {
	return "signed_documents"
}
