package dto

import (
	"time"

	docdomain "github.com/Chitresh-code/doc-sign/internal/document/domain"
)

type GenerateRequest struct {
	TemplateType    string            `json:"template_type" binding:"required"`
	Name            string            `json:"name"`
	Prompt          string            `json:"prompt" binding:"required"`
	Metadata        map[string]string `json:"metadata" binding:"required"`
	SignerUsername  string            `json:"signer_username" binding:"required"`
	SignerEmail     string            `json:"signer_email" binding:"required,email"`
	SignerFirstName string            `json:"signer_first_name"`
	SignerLastName  string            `json:"signer_last_name"`
}

type DocumentResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DocumentType string    `json:"document_type"`
	OwnerID      string    `json:"owner_id"`
	SignerID     *string   `json:"signer_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewDocumentResponse(doc *docdomain.GeneratedDocument) *DocumentResponse {
	return &DocumentResponse{
		ID:           doc.ID,
		Name:         doc.Name,
		DocumentType: doc.DocumentType,
		OwnerID:      doc.OwnerID,
		SignerID:     doc.SignerID,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func NewDocumentListResponse(docs []*docdomain.GeneratedDocument) []*DocumentResponse {
	out := make([]*DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, NewDocumentResponse(doc))
	}
	return out
}
