package ports

import (
	"context"

	"github.com/g6blog/blog-api/internal/core/domain"
)

// UserRepository defines persistence for user identities.
// Email and username uniqueness must be enforced by the store itself; Create
// reports a violation as domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
}

// TokenRepository stores the audit trail of issued tokens.
type TokenRepository interface {
	Save(ctx context.Context, record *domain.TokenRecord) error
}

// ProfileRepository persists user profiles, one document per user.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.Profile) error
	// FindByUserID returns domain.ErrUserNotFound when no profile was stored yet.
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}
