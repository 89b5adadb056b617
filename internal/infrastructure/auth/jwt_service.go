package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/g6blog/blog-api/internal/core/domain"
)

// MinSecretLength is the minimum HMAC key size in bytes (256 bits).
const MinSecretLength = 32

const defaultTokenTTL = 24 * time.Hour

var ErrWeakSecret = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)

// TokenConfig is the immutable signing configuration injected at startup.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// tokenClaims is the JWT payload: registered claims plus the role.
type tokenClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService implements ports.TokenService with HS256-signed JWTs.
type JWTService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
	parser   *jwt.Parser
	log      zerolog.Logger
}

// Option customises a JWTService.
type Option func(*JWTService)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

// NewJWTService validates cfg and builds the service. A zero TTL means 24 hours.
func NewJWTService(cfg TokenConfig, log zerolog.Logger, opts ...Option) (*JWTService, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("jwt issuer and audience must be provided")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	s := &JWTService{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Zero leeway: a token is valid on [iat, exp).
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

// Issue signs a token for subjectID carrying role and a random token id.
func (s *JWTService) Issue(subjectID string, role domain.Role) (*domain.IssuedToken, error) {
	if subjectID == "" {
		return nil, errors.New("issue token: empty subject")
	}

	now := s.now().UTC()
	issued := jwt.NewNumericDate(now)
	expires := jwt.NewNumericDate(now.Add(s.ttl))

	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  issued,
			ExpiresAt: expires,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &domain.IssuedToken{
		Value:     signed,
		ID:        claims.ID,
		SubjectID: subjectID,
		Role:      role,
		IssuedAt:  issued.Time,
		ExpiresAt: expires.Time,
	}, nil
}

// Validate checks signature, issuer, audience and lifetime. Every failure is
// reported as domain.ErrTokenInvalid; the cause is only logged.
func (s *JWTService) Validate(token string) (*domain.Principal, error) {
	var claims tokenClaims
	parsed, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" || !claims.Role.Valid() {
		s.log.Debug().Str("jti", claims.ID).Msg("token rejected: incomplete claims")
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Principal{
		SubjectID: claims.Subject,
		Role:      claims.Role,
		TokenID:   claims.ID,
	}, nil
}
