package repository

import authdomain "github.com/Chitresh-code/doc-sign/internal/auth/domain"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByID(id string) (*authdomain.User, error)
	FindByUsername(username string) (*authdomain.User, error)
	Update(user *authdomain.User) error
}
