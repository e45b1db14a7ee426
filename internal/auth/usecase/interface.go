package usecase

import (
	authdomain "github.com/Chitresh-code/doc-sign/internal/auth/domain"
	authdto "github.com/Chitresh-code/doc-sign/internal/auth/dto"
)

// AuthUsecase handles registration, login and token validation, and
// provisions signer accounts for the document pipeline.
type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdomain.User, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	ValidateToken(tokenString string) (*authdomain.User, error)
	// IssueToken issues a short-lived access token for the given user,
	// used to build signer deep links.
	IssueToken(user *authdomain.User) (string, error)
	// GetOrCreateSigner looks a signer up by username and provisions a
	// minimal signer account with a random unusable password when absent.
	GetOrCreateSigner(username, email, firstName, lastName string) (*authdomain.User, error)
}
