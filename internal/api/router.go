package api

import (
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/g6blog/blog-api/docs"
	"github.com/g6blog/blog-api/internal/api/handler"
	"github.com/g6blog/blog-api/internal/api/middleware"
	"github.com/g6blog/blog-api/internal/core/domain"
	"github.com/g6blog/blog-api/internal/core/ports"
)

const requestTimeout = 30 * time.Second

// Dependencies are the services the router mounts.
type Dependencies struct {
	Auth   ports.AuthService
	Blogs  ports.BlogService
	Users  ports.UserService
	AI     ports.AIService
	Tokens ports.TokenService

	// Checks are pinged by the readiness probe.
	Checks []handler.DependencyCheck

	// Registry receives the HTTP request metrics. Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{Timeout: requestTimeout}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "blog",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger")
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	blogHandler := handler.NewBlogHandler(deps.Blogs)
	profileHandler := handler.NewProfileHandler(deps.Users)
	aiHandler := handler.NewAIHandler(deps.AI)
	requireAuth := middleware.Auth(deps.Tokens)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	// --- Blogs ---
	api.GET("/blogs", blogHandler.List)
	api.GET("/blogs/:id", blogHandler.Get)
	api.POST("/blogs", blogHandler.Create, requireAuth)
	api.PUT("/blogs/:id", blogHandler.Update, requireAuth)
	api.DELETE("/blogs/:id", blogHandler.Delete, requireAuth)
	api.POST("/blogs/:id/like", blogHandler.Like, requireAuth)

	// --- Profiles ---
	api.GET("/profile", profileHandler.Me, requireAuth)
	api.PUT("/profile", profileHandler.Update, requireAuth)
	api.GET("/users/:id/profile", profileHandler.Get)

	// --- Admin ---
	admin := api.Group("/admin", requireAuth, middleware.RBAC(domain.RoleAdmin))
	admin.PUT("/users/:id/role", profileHandler.ChangeRole)

	// --- AI ---
	api.POST("/ai/generate", aiHandler.Generate, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one structured access log line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
