package usecase

import (
	"context"
	"io"

	authdomain "github.com/Chitresh-code/doc-sign/internal/auth/domain"
	docdomain "github.com/Chitresh-code/doc-sign/internal/document/domain"
	docdto "github.com/Chitresh-code/doc-sign/internal/document/dto"
)

// DocumentUsecase orchestrates document generation, listing, serving and
// delivery to the signer.
type DocumentUsecase interface {
	Generate(ctx context.Context, requester *authdomain.User, req *docdto.GenerateRequest) (*docdomain.GeneratedDocument, error)
	ListByOwner(owner *authdomain.User) ([]*docdomain.GeneratedDocument, error)
	OpenPlainPDF(requester *authdomain.User, documentID string) (io.ReadCloser, error)
	SendToSigner(requester *authdomain.User, documentID string) error
}

// FieldEncrypter encrypts a single metadata value.
type FieldEncrypter interface {
	Encrypt(value string) (string, error)
}

// TokenIssuer issues a signer access token for deep links.
type TokenIssuer interface {
	IssueToken(user *authdomain.User) (string, error)
}

// SignerProvisioner resolves or creates the signer account for a document.
type SignerProvisioner interface {
	GetOrCreateSigner(username, email, firstName, lastName string) (*authdomain.User, error)
}
