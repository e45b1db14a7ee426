package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	authdomain "github.com/Chitresh-code/doc-sign/internal/auth/domain"
)

const (
	DocumentTypeNDA     = "nda"
	DocumentTypeInvoice = "invoice"
	DocumentTypeOffer   = "offer"
)

// documentTemplates maps a document type to its template name.
var documentTemplates = map[string]string{
	DocumentTypeNDA:     "nda",
	DocumentTypeInvoice: "invoice",
	DocumentTypeOffer:   "offer_letter",
}

// requiredFields lists, per document type, the metadata fields its template
// needs. The slice order is also the stable order used to flatten metadata
// into the AI context.
var requiredFields = map[string][]string{
	DocumentTypeNDA:     {"recipient_name", "start_date", "due_date"},
	DocumentTypeInvoice: {"recipient_name", "item", "description", "amount", "due_date"},
	DocumentTypeOffer:   {"recipient_name", "role", "salary", "start_date"},
}

// TemplateFor returns the template name for a document type.
func TemplateFor(documentType string) (string, bool) {
	name, ok := documentTemplates[documentType]
	return name, ok
}

// RequiredFields returns the ordered required metadata fields for a type.
func RequiredFields(documentType string) ([]string, bool) {
	fields, ok := requiredFields[documentType]
	return fields, ok
}

// DefaultName builds a display name when the caller did not provide one.
func DefaultName(documentType string) string {
	if documentType == "" {
		return "Document"
	}
	return strings.ToUpper(documentType[:1]) + documentType[1:] + " Document"
}

// FieldMap is a field name to value mapping stored as a JSON column.
type FieldMap map[string]string

func (m FieldMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *FieldMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for FieldMap")
	}
}

// Clone returns a shallow copy so callers can append fields without
// mutating the stored map.
func (m FieldMap) Clone() FieldMap {
	clone := make(FieldMap, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// GeneratedDocument is a document rendered twice from one field map: a
// plaintext pair and a field-level encrypted pair, produced atomically
// together. EncryptedMetadata is the single source of truth for the
// encrypted rendering and later signing/summarization.
type GeneratedDocument struct {
	ID           string           `json:"id" gorm:"primaryKey"`
	Name         string           `json:"name"`
	DocumentType string           `json:"document_type" gorm:"not null"`
	OwnerID      string           `json:"owner_id" gorm:"not null;index"`
	Owner        *authdomain.User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	SignerID     *string          `json:"signer_id" gorm:"index"`
	Signer       *authdomain.User `json:"signer,omitempty" gorm:"foreignKey:SignerID"`

	PlainPDF      string `json:"plain_pdf"`
	EncryptedPDF  string `json:"encrypted_pdf"`
	PlainHTML     string `json:"plain_html"`
	EncryptedHTML string `json:"encrypted_html"`

	EncryptedMetadata FieldMap `json:"encrypted_metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (GeneratedDocument) TableName() string {
	return "generated_documents"
}
