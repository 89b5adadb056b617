package ports

import (
	"context"

	"github.com/g6blog/blog-api/internal/core/domain"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify never fails loudly: any mismatch or malformed hash is reported as false.
	Verify(password, hash string) bool
}

// TokenService issues and validates signed identity tokens.
type TokenService interface {
	Issue(subjectID string, role domain.Role) (*domain.IssuedToken, error)
	// Validate returns domain.ErrTokenInvalid for every kind of failure.
	Validate(token string) (*domain.Principal, error)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by both Register and Login.
type AuthResult struct {
	Token  string
	Role   domain.Role
	UserID string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
}
