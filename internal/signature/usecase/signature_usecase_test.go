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
	sigdomain "github.com/Chitresh-code/doc-sign/internal/signature/domain"
	"github.com/Chitresh-code/doc-sign/pkg/apperr"
)

type fakeDocRepo struct {
	docs map[string]*docdomain.GeneratedDocument
}

func (r *fakeDocRepo) Create(doc *docdomain.GeneratedDocument) error { return nil }

func (r *fakeDocRepo) FindByID(id string) (*docdomain.GeneratedDocument, error) {
	return r.docs[id], nil
}

func (r *fakeDocRepo) ListByOwner(ownerID string) ([]*docdomain.GeneratedDocument, error) {
	return nil, nil
}

type fakeSignedRepo struct {
	signed    map[string]*sigdomain.SignedDocument
	createErr error
}

func newFakeSignedRepo() *fakeSignedRepo {
	return &fakeSignedRepo{signed: map[string]*sigdomain.SignedDocument{}}
}

func (r *fakeSignedRepo) Create(signed *sigdomain.SignedDocument) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.signed[signed.DocumentID]; exists {
		return apperr.ErrConflict
	}
	signed.ID = "signed-" + signed.DocumentID
	r.signed[signed.DocumentID] = signed
	return nil
}

func (r *fakeSignedRepo) FindByDocumentID(documentID string) (*sigdomain.SignedDocument, error) {
	return r.signed[documentID], nil
}

type fakeCipher struct{}

func (fakeCipher) Decrypt(value string) (string, error) {
	if !strings.HasPrefix(value, "enc:") {
		return "", &apperr.DecryptionError{}
	}
	return strings.TrimPrefix(value, "enc:"), nil
}

type fakeRenderer struct {
	fieldMaps []map[string]string
	pdfErr    error
}

func (r *fakeRenderer) RenderHTML(templateName string, fields map[string]string) (string, error) {
	captured := map[string]string{}
	for k, v := range fields {
		captured[k] = v
	}
	r.fieldMaps = append(r.fieldMaps, captured)
	return "<html>" + templateName + "</html>", nil
}

func (r *fakeRenderer) RenderPDF(html string) ([]byte, error) {
	if r.pdfErr != nil {
		return nil, r.pdfErr
	}
	return []byte("%PDF " + html), nil
}

type fakeBlobStore struct {
	blobs   map[string][]byte
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (s *fakeBlobStore) Save(data []byte, suggestedName string) (string, error) {
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

type fakeMailer struct {
	sent    int
	lastTo  string
	sendErr error
}

func (m *fakeMailer) Send(to, subject, body string, attachment []byte, attachmentName string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent++
	m.lastTo = to
	return nil
}

type fixture struct {
	uc         SignatureUsecase
	docRepo    *fakeDocRepo
	signedRepo *fakeSignedRepo
	renderer   *fakeRenderer
	blobs      *fakeBlobStore
	mail       *fakeMailer
}

var (
	signerID = "signer-1"
	docOwner = &authdomain.User{ID: "owner-1", Username: "bob", Email: "bob@example.com", FirstName: "Bob", LastName: "Jones"}
	signer   = &authdomain.User{ID: signerID, Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Smith", Role: authdomain.RoleSigner}
)

func newFixture() *fixture {
	doc := &docdomain.GeneratedDocument{
		ID:           "doc-1",
		Name:         "Offer for Alice",
		DocumentType: docdomain.DocumentTypeOffer,
		OwnerID:      docOwner.ID,
		Owner:        docOwner,
		SignerID:     &signerID,
		Signer:       signer,
		PlainPDF:     "documents/plain/Offer.pdf",
		EncryptedMetadata: docdomain.FieldMap{
			"recipient_name":    "enc:Alice",
			"role":              "enc:Engineer",
			"salary":            "enc:1000",
			"start_date":        "enc:2024-01-01",
			"ai_clause_details": "enc:some clause",
			"issuer":            "enc:Bob Jones",
		},
	}

	f := &fixture{
		docRepo:    &fakeDocRepo{docs: map[string]*docdomain.GeneratedDocument{doc.ID: doc}},
		signedRepo: newFakeSignedRepo(),
		renderer:   &fakeRenderer{},
		blobs:      newFakeBlobStore(),
		mail:       &fakeMailer{},
	}
	f.uc = NewSignatureUsecase(f.docRepo, f.signedRepo, fakeCipher{}, f.renderer, f.blobs, f.mail)
	return f
}

func TestSign_Success(t *testing.T) {
	f := newFixture()

	signed, err := f.uc.Sign(context.Background(), signer, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, signed)

	assert.Equal(t, "doc-1", signed.DocumentID)
	assert.Equal(t, signerID, signed.SignedByID)
	assert.Contains(t, f.blobs.blobs, signed.SignedPDF)
	assert.Contains(t, f.blobs.blobs, signed.SignedEncryptedPDF)

	// First rendering used the decrypted map, second the encrypted one;
	// the signature line is cleartext in both.
	require.Len(t, f.renderer.fieldMaps, 2)
	assert.Equal(t, "Alice", f.renderer.fieldMaps[0]["recipient_name"])
	assert.Equal(t, "Signed by Alice Smith", f.renderer.fieldMaps[0]["signature_text"])
	assert.Equal(t, "enc:Alice", f.renderer.fieldMaps[1]["recipient_name"])
	assert.Equal(t, "Signed by Alice Smith", f.renderer.fieldMaps[1]["signature_text"])

	// The stored metadata itself was not mutated.
	doc := f.docRepo.docs["doc-1"]
	_, hasSignature := doc.EncryptedMetadata["signature_text"]
	assert.False(t, hasSignature)

	// Owner was notified.
	assert.Equal(t, 1, f.mail.sent)
	assert.Equal(t, "bob@example.com", f.mail.lastTo)
}

func TestSign_NotSigner(t *testing.T) {
	f := newFixture()

	for _, user := range []*authdomain.User{docOwner, {ID: "stranger"}} {
		_, err := f.uc.Sign(context.Background(), user, "doc-1")
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	}
	assert.Empty(t, f.signedRepo.signed)
}

func TestSign_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Sign(context.Background(), signer, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSign_AlreadySigned(t *testing.T) {
	f := newFixture()

	first, err := f.uc.Sign(context.Background(), signer, "doc-1")
	require.NoError(t, err)
	signedAt := first.SignedAt

	_, err = f.uc.Sign(context.Background(), signer, "doc-1")
	assert.ErrorIs(t, err, apperr.ErrAlreadySigned)

	// The existing signed record is untouched.
	existing, err := f.signedRepo.FindByDocumentID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, existing.ID)
	assert.Equal(t, signedAt, existing.SignedAt)
}

func TestSign_ConcurrentLoserGetsAlreadySigned(t *testing.T) {
	f := newFixture()

	// Simulate losing the insert race: the pre-check saw no signed record
	// but the insert hits the unique constraint.
	f.signedRepo.createErr = apperr.ErrConflict

	_, err := f.uc.Sign(context.Background(), signer, "doc-1")
	assert.ErrorIs(t, err, apperr.ErrAlreadySigned)

	// Both orphaned artifacts were cleaned up.
	assert.Empty(t, f.blobs.blobs)
	assert.Len(t, f.blobs.deleted, 2)
}

func TestSign_DecryptFailureIsInternal(t *testing.T) {
	f := newFixture()
	f.docRepo.docs["doc-1"].EncryptedMetadata["recipient_name"] = "corrupted"

	_, err := f.uc.Sign(context.Background(), signer, "doc-1")
	require.Error(t, err)

	var decErr *apperr.DecryptionError
	assert.True(t, errors.As(err, &decErr))
	assert.Empty(t, f.signedRepo.signed)
	assert.Empty(t, f.blobs.blobs)
}

func TestSign_OwnerNotificationFailureDoesNotFailSigning(t *testing.T) {
	f := newFixture()
	f.mail.sendErr = errors.New("smtp down")

	signed, err := f.uc.Sign(context.Background(), signer, "doc-1")
	require.NoError(t, err)
	assert.NotNil(t, signed)
	assert.Len(t, f.signedRepo.signed, 1)
}

func TestStatus(t *testing.T) {
	f := newFixture()

	status, err := f.uc.Status(signer, "doc-1")
	require.NoError(t, err)
	assert.False(t, status.Signed)

	_, err = f.uc.Sign(context.Background(), signer, "doc-1")
	require.NoError(t, err)

	status, err = f.uc.Status(signer, "doc-1")
	require.NoError(t, err)
	assert.True(t, status.Signed)
	assert.NotEmpty(t, status.SignedAt)
}

func TestOpenSignedPDF(t *testing.T) {
	f := newFixture()

	_, err := f.uc.OpenSignedPDF(signer, "doc-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.uc.Sign(context.Background(), signer, "doc-1")
	require.NoError(t, err)

	for _, user := range []*authdomain.User{docOwner, signer} {
		pdf, err := f.uc.OpenSignedPDF(user, "doc-1")
		require.NoError(t, err)
		pdf.Close()
	}

	_, err = f.uc.OpenSignedPDF(&authdomain.User{ID: "stranger"}, "doc-1")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
