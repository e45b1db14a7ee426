package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	authdomain "github.com/Chitresh-code/doc-sign/internal/auth/domain"
	docdomain "github.com/Chitresh-code/doc-sign/internal/document/domain"
	docrepo "github.com/Chitresh-code/doc-sign/internal/document/repository"
	sigdomain "github.com/Chitresh-code/doc-sign/internal/signature/domain"
	"github.com/Chitresh-code/doc-sign/internal/signature/repository"
	"github.com/Chitresh-code/doc-sign/pkg/apperr"
	"github.com/Chitresh-code/doc-sign/pkg/blob"
	"github.com/Chitresh-code/doc-sign/pkg/mailer"
	"github.com/Chitresh-code/doc-sign/pkg/render"
)

// FieldDecrypter decrypts a single encrypted metadata value.
type FieldDecrypter interface {
	Decrypt(value string) (string, error)
}

// SignedStatus reports whether a document has a signed counterpart.
type SignedStatus struct {
	Signed   bool   `json:"signed"`
	SignedAt string `json:"signed_at,omitempty"`
	SignedBy string `json:"signed_by,omitempty"`
}

// SignatureUsecase executes the unsigned -> signed transition and serves
// signed artifacts.
type SignatureUsecase interface {
	Sign(ctx context.Context, requester *authdomain.User, documentID string) (*sigdomain.SignedDocument, error)
	OpenSignedPDF(requester *authdomain.User, documentID string) (io.ReadCloser, error)
	Status(requester *authdomain.User, documentID string) (*SignedStatus, error)
}

// signatureUsecase implements SignatureUsecase interface
type signatureUsecase struct {
	docRepo    docrepo.DocumentRepository
	signedRepo repository.SignedDocumentRepository
	cipher     FieldDecrypter
	renderer   render.Renderer
	blobs      blob.Store
	mail       mailer.Mailer
}

// NewSignatureUsecase creates a new instance of signatureUsecase
func NewSignatureUsecase(
	docRepo docrepo.DocumentRepository,
	signedRepo repository.SignedDocumentRepository,
	cipher FieldDecrypter,
	renderer render.Renderer,
	blobs blob.Store,
	mail mailer.Mailer,
) SignatureUsecase {
	return &signatureUsecase{
		docRepo:    docRepo,
		signedRepo: signedRepo,
		cipher:     cipher,
		renderer:   renderer,
		blobs:      blobs,
		mail:       mail,
	}
}

// Sign decrypts the stored metadata, appends the cleartext signature line to
// both the decrypted and the encrypted field maps, renders both signed
// counterparts and persists the SignedDocument. Signing is terminal: the
// unique constraint on the document reference rejects the loser of a
// concurrent race with ErrAlreadySigned.
func (u *signatureUsecase) Sign(ctx context.Context, requester *authdomain.User, documentID string) (*sigdomain.SignedDocument, error) {
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

	existing, err := u.signedRepo.FindByDocumentID(doc.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrAlreadySigned
	}

	plainFields := docdomain.FieldMap{}
	for k, v := range doc.EncryptedMetadata {
		plaintext, err := u.cipher.Decrypt(v)
		if err != nil {
			return nil, fmt.Errorf("decrypt field %s: %w", k, err)
		}
		plainFields[k] = plaintext
	}

	// The signature line never existed as an encrypted field, so it is
	// appended in cleartext to both renderings.
	signatureText := "Signed by " + requester.FullName()
	plainFields["signature_text"] = signatureText
	encryptedFields := doc.EncryptedMetadata.Clone()
	encryptedFields["signature_text"] = signatureText

	template, ok := docdomain.TemplateFor(doc.DocumentType)
	if !ok {
		return nil, fmt.Errorf("document %s has unknown type %s", doc.ID, doc.DocumentType)
	}

	htmlSigned, err := u.renderer.RenderHTML(template, plainFields)
	if err != nil {
		return nil, err
	}
	pdfSigned, err := u.renderer.RenderPDF(htmlSigned)
	if err != nil {
		return nil, err
	}
	htmlSignedEncrypted, err := u.renderer.RenderHTML(template, encryptedFields)
	if err != nil {
		return nil, err
	}
	pdfSignedEncrypted, err := u.renderer.RenderPDF(htmlSignedEncrypted)
	if err != nil {
		return nil, err
	}

	var saved []string
	cleanup := func() {
		for _, ref := range saved {
			if err := u.blobs.Delete(ref); err != nil {
				log.Printf("[Signature] Failed to delete orphaned blob %s: %v", ref, err)
			}
		}
	}

	signedPDFRef, err := u.blobs.Save(pdfSigned, "documents/signed/"+doc.ID+"_signed.pdf")
	if err != nil {
		return nil, err
	}
	saved = append(saved, signedPDFRef)

	signedEncryptedPDFRef, err := u.blobs.Save(pdfSignedEncrypted, "documents/signed_encrypted/"+doc.ID+"_signed_encrypted.pdf")
	if err != nil {
		cleanup()
		return nil, err
	}
	saved = append(saved, signedEncryptedPDFRef)

	signed := &sigdomain.SignedDocument{
		DocumentID:         doc.ID,
		SignedByID:         requester.ID,
		SignedPDF:          signedPDFRef,
		SignedEncryptedPDF: signedEncryptedPDFRef,
	}
	if err := u.signedRepo.Create(signed); err != nil {
		cleanup()
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.ErrAlreadySigned
		}
		return nil, err
	}

	// Owner notification is best-effort; a mail failure never undoes the
	// signing.
	if doc.Owner != nil {
		subject := "Document Signed: " + doc.Name
		body := fmt.Sprintf("%s has signed your document: %s.", requester.FullName(), doc.Name)
		if err := u.mail.Send(doc.Owner.Email, subject, body, nil, ""); err != nil {
			log.Printf("[Signature] Failed to notify owner of %s: %v", doc.ID, err)
		}
	}

	log.Printf("[Signature] Document %s signed by %s", doc.ID, requester.Username)
	return signed, nil
}

// OpenSignedPDF streams the signed plaintext PDF to the owner or signer.
func (u *signatureUsecase) OpenSignedPDF(requester *authdomain.User, documentID string) (io.ReadCloser, error) {
	doc, err := u.docRepo.FindByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.ErrNotFound
	}

	if doc.OwnerID != requester.ID && (doc.SignerID == nil || *doc.SignerID != requester.ID) {
		return nil, apperr.ErrForbidden
	}

	signed, err := u.signedRepo.FindByDocumentID(doc.ID)
	if err != nil {
		return nil, err
	}
	if signed == nil {
		return nil, apperr.ErrNotFound
	}

	return u.blobs.Open(signed.SignedPDF)
}

// Status reports whether the document has been signed. The existence of the
// signed record is the sole truth of "is this document signed".
func (u *signatureUsecase) Status(requester *authdomain.User, documentID string) (*SignedStatus, error) {
	doc, err := u.docRepo.FindByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.ErrNotFound
	}

	signed, err := u.signedRepo.FindByDocumentID(doc.ID)
	if err != nil {
		return nil, err
	}
	if signed == nil {
		return &SignedStatus{Signed: false}, nil
	}

	status := &SignedStatus{
		Signed:   true,
		SignedAt: signed.SignedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if signed.SignedBy != nil {
		status.SignedBy = signed.SignedBy.Username
	}
	return status, nil
}
