package ports

import (
	"context"

	"github.com/g6blog/blog-api/internal/core/domain"
)

// ProfileView is a user's public profile.
type ProfileView struct {
	ID       string
	Username string
	Bio      string
	Avatar   string
}

type UpdateProfileInput struct {
	Bio    string
	Avatar string
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*ProfileView, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*ProfileView, error)
	ChangeRole(ctx context.Context, userID string, role domain.Role) error
}
