package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// MinJWTSecretLength is the shortest accepted HMAC key, in bytes.
const MinJWTSecretLength = 32

// devJWTSecret is used only when ENV=development and JWT_SECRET is unset.
const devJWTSecret = "g6blog-development-only-signing-key-do-not-deploy"

var (
	ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required outside development")
	ErrWeakJWTSecret    = fmt.Errorf("config: JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth  AuthConfig
	Blog  BlogConfig
	Mongo MongoConfig
	Redis RedisConfig

	// UsingDevSecret is set by Validate when the development key was substituted.
	UsingDevSecret bool
}

type AuthConfig struct {
	JWTSecret   string        `env:"JWT_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER,   default=g6blog"`
	JWTAudience string        `env:"JWT_AUDIENCE, default=g6blog"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=24h"`
	BcryptCost  int           `env:"BCRYPT_COST,  default=10"`
}

type BlogConfig struct {
	ViewWorkers    int           `env:"VIEW_WORKERS,    default=4"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=g6blog"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables and validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate enforces the signing key policy. An empty JWT_SECRET is replaced
// by the built-in development key only in development.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		if !c.IsDevelopment() {
			return ErrMissingJWTSecret
		}
		c.Auth.JWTSecret = devJWTSecret
		c.UsingDevSecret = true
	}
	if len(c.Auth.JWTSecret) < MinJWTSecretLength {
		return ErrWeakJWTSecret
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}
