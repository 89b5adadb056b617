package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/g6blog/blog-api/internal/core/domain"
	"github.com/g6blog/blog-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	users     ports.UserRepository
	tokens    ports.TokenRepository
	hasher    ports.PasswordHasher
	issuer    ports.TokenService
	log       zerolog.Logger
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenRepository,
	hasher ports.PasswordHasher,
	issuer ports.TokenService,
	log zerolog.Logger,
) *AuthService {
	// Verified against on unknown emails so both login failures cost one hash check.
	dummy, _ := hasher.Hash("g6blog-login-timing-equaliser")
	return &AuthService{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		issuer:    issuer,
		log:       log,
		dummyHash: dummy,
	}
}

// Register creates a User-role account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if username == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, storeError("register: find user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// The unique index is authoritative: a concurrent registration that
		// passed the pre-check surfaces here.
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, storeError("register: create user", err)
	}

	result, err := s.issue(ctx, created)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return result, nil
}

// Login authenticates by email and password. Unknown email and wrong password
// both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(in.Password, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, storeError("login: find user", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	token, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	record := &domain.TokenRecord{
		ID:        token.ID,
		UserID:    user.ID,
		IssuedAt:  token.IssuedAt,
		ExpiresAt: token.ExpiresAt,
	}
	if err := s.tokens.Save(ctx, record); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record issued token")
	}

	return &ports.AuthResult{Token: token.Value, Role: user.Role, UserID: user.ID}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// storeError tags an unexpected repository failure as transient so the
// transport layer can tell it apart from a logical outcome.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
