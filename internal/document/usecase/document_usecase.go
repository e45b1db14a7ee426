package usecase

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	authdomain "github.com/Chitresh-code/doc-sign/internal/auth/domain"
	docdomain "github.com/Chitresh-code/doc-sign/internal/document/domain"
	docdto "github.com/Chitresh-code/doc-sign/internal/document/dto"
	"github.com/Chitresh-code/doc-sign/internal/document/repository"
	"github.com/Chitresh-code/doc-sign/pkg/ai"
	"github.com/Chitresh-code/doc-sign/pkg/apperr"
	"github.com/Chitresh-code/doc-sign/pkg/blob"
	"github.com/Chitresh-code/doc-sign/pkg/mailer"
	"github.com/Chitresh-code/doc-sign/pkg/render"
)

// documentUsecase implements DocumentUsecase interface
type documentUsecase struct {
	docRepo     repository.DocumentRepository
	signers     SignerProvisioner
	tokens      TokenIssuer
	aiService   ai.DocumentAI
	renderer    render.Renderer
	blobs       blob.Store
	mail        mailer.Mailer
	cipher      FieldEncrypter
	frontendURL string
}

// NewDocumentUsecase creates a new instance of documentUsecase
func NewDocumentUsecase(
	docRepo repository.DocumentRepository,
	signers SignerProvisioner,
	tokens TokenIssuer,
	aiService ai.DocumentAI,
	renderer render.Renderer,
	blobs blob.Store,
	mail mailer.Mailer,
	cipher FieldEncrypter,
	frontendURL string,
) DocumentUsecase {
	return &documentUsecase{
		docRepo:     docRepo,
		signers:     signers,
		tokens:      tokens,
		aiService:   aiService,
		renderer:    renderer,
		blobs:       blobs,
		mail:        mail,
		cipher:      cipher,
		frontendURL: frontendURL,
	}
}

// Generate renders a document twice (plaintext and field-level encrypted)
// and persists it together with all four artifacts. Nothing is persisted
// when any step fails.
func (u *documentUsecase) Generate(ctx context.Context, requester *authdomain.User, req *docdto.GenerateRequest) (*docdomain.GeneratedDocument, error) {
	template, ok := docdomain.TemplateFor(req.TemplateType)
	if !ok {
		return nil, &apperr.UnsupportedTemplateError{TemplateType: req.TemplateType}
	}

	required, _ := docdomain.RequiredFields(req.TemplateType)
	var missing []string
	for _, field := range required {
		if req.Metadata[field] == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &apperr.ValidationError{Missing: missing}
	}

	signer, err := u.signers.GetOrCreateSigner(req.SignerUsername, req.SignerEmail, req.SignerFirstName, req.SignerLastName)
	if err != nil {
		return nil, &apperr.GenerationError{Cause: fmt.Errorf("provision signer: %w", err)}
	}

	// Flatten metadata values in the type's field order for the AI context.
	values := make([]string, 0, len(required))
	for _, field := range required {
		values = append(values, req.Metadata[field])
	}
	clause, err := u.aiService.GenerateClause(ctx, req.Prompt, strings.Join(values, " "))
	if err != nil {
		return nil, &apperr.GenerationError{Cause: fmt.Errorf("generate AI clause: %w", err)}
	}

	fields := docdomain.FieldMap{}
	for k, v := range req.Metadata {
		fields[k] = v
	}
	fields["ai_clause_details"] = clause
	fields["issuer"] = requester.FullName()

	htmlPlain, err := u.renderer.RenderHTML(template, fields)
	if err != nil {
		return nil, &apperr.GenerationError{Cause: err}
	}
	pdfPlain, err := u.renderer.RenderPDF(htmlPlain)
	if err != nil {
		return nil, &apperr.GenerationError{Cause: err}
	}

	// Encrypt values only, keys stay in cleartext.
	encrypted := docdomain.FieldMap{}
	for k, v := range fields {
		ciphertext, err := u.cipher.Encrypt(v)
		if err != nil {
			return nil, &apperr.GenerationError{Cause: fmt.Errorf("encrypt field %s: %w", k, err)}
		}
		encrypted[k] = ciphertext
	}

	htmlEncrypted, err := u.renderer.RenderHTML(template, encrypted)
	if err != nil {
		return nil, &apperr.GenerationError{Cause: err}
	}
	pdfEncrypted, err := u.renderer.RenderPDF(htmlEncrypted)
	if err != nil {
		return nil, &apperr.GenerationError{Cause: err}
	}

	name := req.Name
	if name == "" {
		name = docdomain.DefaultName(req.TemplateType)
	}
	cleanName := strings.ReplaceAll(name, " ", "_")

	// All four artifacts are written before the record; any failure deletes
	// what was already written so no record ever references a missing blob.
	var saved []string
	cleanup := func() {
		for _, ref := range saved {
			if err := u.blobs.Delete(ref); err != nil {
				log.Printf("[Document] Failed to delete orphaned blob %s: %v", ref, err)
			}
		}
	}
	save := func(data []byte, suggestedName string) (string, error) {
		ref, err := u.blobs.Save(data, suggestedName)
		if err != nil {
			return "", err
		}
		saved = append(saved, ref)
		return ref, nil
	}

	plainPDFRef, err := save(pdfPlain, "documents/plain/"+cleanName+".pdf")
	if err != nil {
		cleanup()
		return nil, &apperr.GenerationError{Cause: err}
	}
	encryptedPDFRef, err := save(pdfEncrypted, "documents/encrypted/"+cleanName+"_encrypted.pdf")
	if err != nil {
		cleanup()
		return nil, &apperr.GenerationError{Cause: err}
	}
	plainHTMLRef, err := save([]byte(htmlPlain), "documents/html/"+cleanName+".html")
	if err != nil {
		cleanup()
		return nil, &apperr.GenerationError{Cause: err}
	}
	encryptedHTMLRef, err := save([]byte(htmlEncrypted), "documents/html/"+cleanName+"_encrypted.html")
	if err != nil {
		cleanup()
		return nil, &apperr.GenerationError{Cause: err}
	}

	doc := &docdomain.GeneratedDocument{
		Name:              name,
		DocumentType:      req.TemplateType,
		OwnerID:           requester.ID,
		SignerID:          &signer.ID,
		PlainPDF:          plainPDFRef,
		EncryptedPDF:      encryptedPDFRef,
		PlainHTML:         plainHTMLRef,
		EncryptedHTML:     encryptedHTMLRef,
		EncryptedMetadata: encrypted,
	}
	if err := u.docRepo.Create(doc); err != nil {
		cleanup()
		return nil, &apperr.GenerationError{Cause: fmt.Errorf("persist document: %w", err)}
	}

	log.Printf("[Document] Generated %s (%s) by %s for signer %s", doc.ID, doc.DocumentType, requester.Username, signer.Username)
	return doc, nil
}

func (u *documentUsecase) ListByOwner(owner *authdomain.User) ([]*docdomain.GeneratedDocument, error) {
	return u.docRepo.ListByOwner(owner.ID)
}

// OpenPlainPDF streams the plaintext PDF to the document owner or signer.
func (u *documentUsecase) OpenPlainPDF(requester *authdomain.User, documentID string) (io.ReadCloser, error) {
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

	if doc.PlainPDF == "" {
		return nil, apperr.ErrNotFound
	}
	return u.blobs.Open(doc.PlainPDF)
}

// SendToSigner emails the signer a deep link with an access token and the
// plaintext PDF attached. Repeated calls resend.
func (u *documentUsecase) SendToSigner(requester *authdomain.User, documentID string) error {
	doc, err := u.docRepo.FindByID(documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return apperr.ErrNotFound
	}

	if doc.OwnerID != requester.ID {
		return apperr.ErrForbidden
	}
	if doc.SignerID == nil || doc.Signer == nil {
		return fmt.Errorf("%w: no signer associated with this document", apperr.ErrInvalidState)
	}

	token, err := u.tokens.IssueToken(doc.Signer)
	if err != nil {
		return fmt.Errorf("issue signer token: %w", err)
	}
	signURL := fmt.Sprintf("%s/sign?token=%s&doc=%s", u.frontendURL, token, doc.ID)

	pdf, err := u.blobs.Read(doc.PlainPDF)
	if err != nil {
		return fmt.Errorf("read plain pdf: %w", err)
	}

	signerName := doc.Signer.FullName()
	subject := "Document to Sign: " + doc.Name
	body := fmt.Sprintf(`Hi %s,

You have received a document titled %q to review and sign.

Please click the link below to access the document:
%s

Thank you.`, signerName, doc.Name, signURL)

	if err := u.mail.Send(doc.Signer.Email, subject, body, pdf, doc.Name+".pdf"); err != nil {
		return fmt.Errorf("send signer email: %w", err)
	}

	log.Printf("[Document] Sent %s to signer %s", doc.ID, doc.Signer.Username)
	return nil
}
