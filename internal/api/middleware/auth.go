package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/g6blog/blog-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	CtxUserID  = "user_id"
	CtxRole    = "role"
	CtxTokenID = "token_id"
)

// Auth validates the bearer token and injects the principal into context.
// Every token failure produces the same 401 response.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			principal, err := tokens.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUserID, principal.SubjectID)
			c.Set(CtxRole, string(principal.Role))
			c.Set(CtxTokenID, principal.TokenID)

			return next(c)
		}
	}
}
