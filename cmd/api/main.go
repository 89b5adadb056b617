// @title           G6 Blog API
// @version         1.0
// @description     Blogging API with JWT authentication, ownership-checked mutations, likes, profiles and a mock AI writer.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/g6blog/blog-api/internal/api"
	"github.com/g6blog/blog-api/internal/api/handler"
	"github.com/g6blog/blog-api/internal/core/service"
	"github.com/g6blog/blog-api/internal/infrastructure/auth"
	mongodb "github.com/g6blog/blog-api/internal/infrastructure/db/mongo"
	redisstore "github.com/g6blog/blog-api/internal/infrastructure/db/redis"
	"github.com/g6blog/blog-api/internal/infrastructure/queue"
	"github.com/g6blog/blog-api/internal/pkg/config"
	"github.com/g6blog/blog-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("blog api stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		return err
	}

	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel))
	if cfg.UsingDevSecret {
		log.Warn().Msg("JWT_SECRET not set, using the built-in development signing key")
	}
	log.Info().Str("env", cfg.Env).Msg("config loaded, connecting to MongoDB and Redis")

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	blogs := mongodb.NewBlogRepository(db)
	profiles := mongodb.NewProfileRepository(db)
	tokenAudit := mongodb.NewTokenRepository(db)

	if err := mongodb.EnsureIndexes(ctx, users, blogs, profiles, tokenAudit); err != nil {
		return err
	}

	// --- Security ---
	tokens, err := auth.NewJWTService(auth.TokenConfig{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.JWTIssuer,
		Audience: cfg.Auth.JWTAudience,
		TTL:      cfg.Auth.TokenTTL,
	}, log)
	if err != nil {
		return err
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	// --- Background view counter ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	views := queue.NewViewDispatcher(cfg.Blog.ViewWorkers, blogs, log)
	views.Start(workerCtx)
	defer func() {
		stopWorkers()
		views.Wait()
	}()

	// --- Services ---
	idempotency := redisstore.NewIdempotencyStore(rdb, cfg.Blog.IdempotencyTTL)

	router := api.NewRouter(api.Dependencies{
		Auth:   service.NewAuthService(users, tokenAudit, hasher, tokens, log),
		Blogs:  service.NewBlogService(blogs, users, idempotency, views, log),
		Users:  service.NewUserService(users, profiles, log),
		AI:     service.NewAIService(service.MockGenerator{}),
		Tokens: tokens,
		Checks: []handler.DependencyCheck{handler.MongoCheck(db), handler.RedisCheck(rdb)},
	}, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
