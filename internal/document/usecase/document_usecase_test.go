package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/Chitresh-code/doc-sign/internal/auth/domain"
	docdomain "github.com/Chitresh-code/doc-sign/internal/document/domain"
	docdto "github.com/Chitresh-code/doc-sign/internal/document/dto"
	"github.com/Chitresh-code/doc-sign/pkg/ai"
	"github.com/Chitresh-code/doc-sign/pkg/apperr"
)

type fakeDocRepo struct {
	docs      map[string]*docdomain.GeneratedDocument
	createErr error
	nextID    int
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: map[string]*docdomain.GeneratedDocument{}}
}

func (r *fakeDocRepo) Create(doc *docdomain.GeneratedDocument) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	doc.ID = strings.Repeat("d", r.nextID)
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocRepo) FindByID(id string) (*docdomain.GeneratedDocument, error) {
	return r.docs[id], nil
}

func (r *fakeDocRepo) ListByOwner(ownerID string) ([]*docdomain.GeneratedDocument, error) {
	var out []*docdomain.GeneratedDocument
	for _, doc := range r.docs {
		if doc.OwnerID == ownerID {
			out = append(out, doc)
		}
	}
	return out, nil
}

type fakeSigners struct {
	signer *authdomain.User
	calls  int
}

func (s *fakeSigners) GetOrCreateSigner(username, email, firstName, lastName string) (*authdomain.User, error) {
	s.calls++
	if s.signer == nil {
		s.signer = &authdomain.User{ID: "signer-1", Username: username, Email: email, FirstName: firstName, LastName: lastName, Role: authdomain.RoleSigner}
	}
	return s.signer, nil
}

type fakeTokens struct{}

func (fakeTokens) IssueToken(user *authdomain.User) (string, error) {
	return "token-for-" + user.ID, nil
}

type fakeAI struct {
	clause     string
	clauseErr  error
	lastPrompt string
	lastCtx    string
}

func (a *fakeAI) GenerateClause(_ context.Context, prompt, contextText string) (string, error) {
	a.lastPrompt = prompt
	a.lastCtx = contextText
	if a.clauseErr != nil {
		return "", a.clauseErr
	}
	return a.clause, nil
}

func (a *fakeAI) SummarizeDocument(_ context.Context, _ string) (*ai.SummaryResult, error) {
	return nil, errors.New("not implemented")
}

type fakeRenderer struct {
	fieldMaps []map[string]string
	htmlErr   error
	pdfErr    error
	pdfCalls  int
	pdfFailAt int // fail on the nth RenderPDF call, 0 = never
}

func (r *fakeRenderer) RenderHTML(templateName string, fields map[string]string) (string, error) {
	if r.htmlErr != nil {
		return "", r.htmlErr
	}
	captured := map[string]string{}
	for k, v := range fields {
		captured[k] = v
	}
	r.fieldMaps = append(r.fieldMaps, captured)
	var sb strings.Builder
	sb.WriteString("<html>" + templateName)
	for k, v := range fields {
		sb.WriteString(" " + k + "=" + v)
	}
	sb.WriteString("</html>")
	return sb.String(), nil
}

func (r *fakeRenderer) RenderPDF(html string) ([]byte, error) {
	r.pdfCalls++
	if r.pdfErr != nil && (r.pdfFailAt == 0 || r.pdfCalls >= r.pdfFailAt) {
		return nil, r.pdfErr
	}
	return []byte("%PDF " + html), nil
}

type fakeBlobStore struct {
	blobs   map[string][]byte
	saveErr error
	failAt  int // fail on the nth Save call, 0 = never
	saves   int
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (s *fakeBlobStore) Save(data []byte, suggestedName string) (string, error) {
	s.saves++
	if s.saveErr != nil && (s.failAt == 0 || s.saves >= s.failAt) {
		return "", s.saveErr
	}
	s.blobs[suggestedName] = data
	return suggestedName, nil
}

func (s *fakeBlobStore) Open(ref string) (io.ReadCloser, error) {
	data, ok := s.blobs[ref]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeBlobStore) Read(ref string) ([]byte, error) {
	data, ok := s.blobs[ref]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return data, nil
}

func (s *fakeBlobStore) Delete(ref string) error {
	delete(s.blobs, ref)
	s.deleted = append(s.deleted, ref)
	return nil
}

type sentMail struct {
	to, subject, body, attachmentName string
	attachment                        []byte
}

type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

func (m *fakeMailer) Send(to, subject, body string, attachment []byte, attachmentName string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body, attachment: attachment, attachmentName: attachmentName})
	return nil
}

// fakeCipher prefixes values so tests can verify encryption and reverse it.
type fakeCipher struct{}

func (fakeCipher) Encrypt(value string) (string, error) { return "enc:" + value, nil }

func (fakeCipher) Decrypt(value string) (string, error) {
	if !strings.HasPrefix(value, "enc:") {
		return "", &apperr.DecryptionError{}
	}
	return strings.TrimPrefix(value, "enc:"), nil
}

func (c fakeCipher) DecryptOrPassthrough(value string) string {
	plaintext, err := c.Decrypt(value)
	if err != nil {
		return value
	}
	return plaintext
}

type fixture struct {
	uc       DocumentUsecase
	docRepo  *fakeDocRepo
	signers  *fakeSigners
	aiSvc    *fakeAI
	renderer *fakeRenderer
	blobs    *fakeBlobStore
	mail     *fakeMailer
}

func newFixture() *fixture {
	f := &fixture{
		docRepo:  newFakeDocRepo(),
		signers:  &fakeSigners{},
		aiSvc:    &fakeAI{clause: "the parties agree to keep all terms confidential"},
		renderer: &fakeRenderer{},
		blobs:    newFakeBlobStore(),
		mail:     &fakeMailer{},
	}
	f.uc = NewDocumentUsecase(f.docRepo, f.signers, fakeTokens{}, f.aiSvc, f.renderer, f.blobs, f.mail, fakeCipher{}, "http://frontend.local")
	return f
}

func offerRequest() *docdto.GenerateRequest {
	return &docdto.GenerateRequest{
		TemplateType: docdomain.DocumentTypeOffer,
		Name:         "Offer for Alice",
		Prompt:       "standard offer",
		Metadata: map[string]string{
			"recipient_name": "Alice",
			"role":           "Engineer",
			"salary":         "1000",
			"start_date":     "2024-01-01",
		},
		SignerUsername:  "alice",
		SignerEmail:     "alice@example.com",
		SignerFirstName: "Alice",
		SignerLastName:  "Smith",
	}
}

func owner() *authdomain.User {
	return &authdomain.User{ID: "owner-1", Username: "bob", Email: "bob@example.com", FirstName: "Bob", LastName: "Jones", Role: authdomain.RoleUser}
}

func TestGenerate_Success(t *testing.T) {
	f := newFixture()

	doc, err := f.uc.Generate(context.Background(), owner(), offerRequest())
	require.NoError(t, err)
	require.NotNil(t, doc)

	// All four artifacts exist and the record references them.
	assert.Len(t, f.blobs.blobs, 4)
	assert.Contains(t, f.blobs.blobs, doc.PlainPDF)
	assert.Contains(t, f.blobs.blobs, doc.EncryptedPDF)
	assert.Contains(t, f.blobs.blobs, doc.PlainHTML)
	assert.Contains(t, f.blobs.blobs, doc.EncryptedHTML)

	// Encrypted metadata covers the base fields plus the derived ones.
	assert.Equal(t, "enc:Alice", doc.EncryptedMetadata["recipient_name"])
	assert.Equal(t, "enc:"+f.aiSvc.clause, doc.EncryptedMetadata["ai_clause_details"])
	assert.Equal(t, "enc:Bob Jones", doc.EncryptedMetadata["issuer"])

	plaintext, err := fakeCipher{}.Decrypt(doc.EncryptedMetadata["recipient_name"])
	require.NoError(t, err)
	assert.Equal(t, "Alice", plaintext)

	// First rendering got the plaintext fields, second the encrypted ones.
	require.Len(t, f.renderer.fieldMaps, 2)
	assert.Equal(t, "Alice", f.renderer.fieldMaps[0]["recipient_name"])
	assert.Equal(t, "enc:Alice", f.renderer.fieldMaps[1]["recipient_name"])

	// AI context is the metadata values in the type's field order.
	assert.Equal(t, "standard offer", f.aiSvc.lastPrompt)
	assert.Equal(t, "Alice Engineer 1000 2024-01-01", f.aiSvc.lastCtx)

	// Signer was provisioned and linked.
	assert.Equal(t, 1, f.signers.calls)
	require.NotNil(t, doc.SignerID)
	assert.Equal(t, "signer-1", *doc.SignerID)
}

func TestGenerate_DefaultName(t *testing.T) {
	f := newFixture()
	req := offerRequest()
	req.Name = ""

	doc, err := f.uc.Generate(context.Background(), owner(), req)
	require.NoError(t, err)
	assert.Equal(t, "Offer Document", doc.Name)
}

func TestGenerate_UnsupportedTemplate(t *testing.T) {
	f := newFixture()
	req := offerRequest()
	req.TemplateType = "lease"

	_, err := f.uc.Generate(context.Background(), owner(), req)
	require.Error(t, err)

	var templateErr *apperr.UnsupportedTemplateError
	require.True(t, errors.As(err, &templateErr))
	assert.Equal(t, "lease", templateErr.TemplateType)
	assert.Empty(t, f.docRepo.docs)
}

func TestGenerate_MissingFields(t *testing.T) {
	f := newFixture()
	req := offerRequest()
	delete(req.Metadata, "salary")
	req.Metadata["start_date"] = ""

	_, err := f.uc.Generate(context.Background(), owner(), req)
	require.Error(t, err)

	var validationErr *apperr.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.ElementsMatch(t, []string{"salary", "start_date"}, validationErr.Missing)
	assert.Equal(t, 0, f.signers.calls)
}

func TestGenerate_AIFailure_PersistsNothing(t *testing.T) {
	f := newFixture()
	f.aiSvc.clauseErr = errors.New("model unavailable")

	_, err := f.uc.Generate(context.Background(), owner(), offerRequest())
	require.Error(t, err)

	var genErr *apperr.GenerationError
	assert.True(t, errors.As(err, &genErr))
	assert.Empty(t, f.blobs.blobs)
	assert.Empty(t, f.docRepo.docs)
}

func TestGenerate_BlobFailure_CleansUpArtifacts(t *testing.T) {
	f := newFixture()
	f.blobs.saveErr = errors.New("disk full")
	f.blobs.failAt = 3 // plain pdf and encrypted pdf succeed, plain html fails

	_, err := f.uc.Generate(context.Background(), owner(), offerRequest())
	require.Error(t, err)

	assert.Empty(t, f.blobs.blobs)
	assert.Len(t, f.blobs.deleted, 2)
	assert.Empty(t, f.docRepo.docs)
}

func TestGenerate_PersistFailure_CleansUpArtifacts(t *testing.T) {
	f := newFixture()
	f.docRepo.createErr = errors.New("db down")

	_, err := f.uc.Generate(context.Background(), owner(), offerRequest())
	require.Error(t, err)

	assert.Empty(t, f.blobs.blobs)
	assert.Len(t, f.blobs.deleted, 4)
}

func TestSendToSigner_Success(t *testing.T) {
	f := newFixture()
	doc, err := f.uc.Generate(context.Background(), owner(), offerRequest())
	require.NoError(t, err)
	doc.Signer = f.signers.signer

	require.NoError(t, f.uc.SendToSigner(owner(), doc.ID))

	require.Len(t, f.mail.sent, 1)
	mail := f.mail.sent[0]
	assert.Equal(t, "alice@example.com", mail.to)
	assert.Contains(t, mail.subject, "Offer for Alice")
	assert.Contains(t, mail.body, "token-for-signer-1")
	assert.Contains(t, mail.body, "doc="+doc.ID)
	assert.NotEmpty(t, mail.attachment)
}

func TestSendToSigner_Resends(t *testing.T) {
	f := newFixture()
	doc, err := f.uc.Generate(context.Background(), owner(), offerRequest())
	require.NoError(t, err)
	doc.Signer = f.signers.signer

	require.NoError(t, f.uc.SendToSigner(owner(), doc.ID))
	require.NoError(t, f.uc.SendToSigner(owner(), doc.ID))
	assert.Len(t, f.mail.sent, 2)
}

func TestSendToSigner_NotOwner(t *testing.T) {
	f := newFixture()
	doc, err := f.uc.Generate(context.Background(), owner(), offerRequest())
	require.NoError(t, err)
	doc.Signer = f.signers.signer

	stranger := &authdomain.User{ID: "stranger", Username: "eve"}
	err = f.uc.SendToSigner(stranger, doc.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Empty(t, f.mail.sent)
}

func TestSendToSigner_NoSigner(t *testing.T) {
	f := newFixture()
	doc, err := f.uc.Generate(context.Background(), owner(), offerRequest())
	require.NoError(t, err)
	doc.SignerID = nil
	doc.Signer = nil

	err = f.uc.SendToSigner(owner(), doc.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestSendToSigner_NotFound(t *testing.T) {
	f := newFixture()
	err := f.uc.SendToSigner(owner(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestOpenPlainPDF_Authorization(t *testing.T) {
	f := newFixture()
	doc, err := f.uc.Generate(context.Background(), owner(), offerRequest())
	require.NoError(t, err)

	// Owner and signer can read.
	for _, user := range []*authdomain.User{owner(), {ID: "signer-1"}} {
		pdf, err := f.uc.OpenPlainPDF(user, doc.ID)
		require.NoError(t, err)
		pdf.Close()
	}

	// A third party cannot.
	_, err = f.uc.OpenPlainPDF(&authdomain.User{ID: "stranger"}, doc.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
