package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/g6blog/blog-api/internal/core/domain"
	"github.com/g6blog/blog-api/internal/core/ports"
)

// UserService serves profiles and the administrative role change.
type UserService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

func NewUserService(users ports.UserRepository, profiles ports.ProfileRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, profiles: profiles, log: log}
}

// GetProfile returns the public profile of userID. A user that never saved a
// profile gets empty bio and avatar.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*ports.ProfileView, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ports.ProfileView{ID: user.ID, Username: user.Username}
	profile, err := s.profiles.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		view.Bio = profile.Bio
		view.Avatar = profile.Avatar
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, storeError("get profile", err)
	}
	return view, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*ports.ProfileView, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		UserID: userID,
		Bio:    strings.TrimSpace(in.Bio),
		Avatar: strings.TrimSpace(in.Avatar),
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, storeError("update profile", err)
	}

	return &ports.ProfileView{
		ID:       user.ID,
		Username: user.Username,
		Bio:      profile.Bio,
		Avatar:   profile.Avatar,
	}, nil
}

// ChangeRole is the administrative path for promoting or demoting a user.
// Tokens already issued keep the role they were signed with until they expire.
func (s *UserService) ChangeRole(ctx context.Context, userID string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return storeError("change role", err)
	}
	s.log.Info().Str("user_id", userID).Str("role", string(role)).Msg("role changed")
	return nil
}

func (s *UserService) findUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, storeError("find user", err)
	}
	return user, nil
}
