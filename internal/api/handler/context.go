package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/g6blog/blog-api/internal/api/middleware"
	"github.com/g6blog/blog-api/internal/core/domain"
)

// ctxPrincipal rebuilds the authenticated principal injected by the Auth
// middleware. A missing subject means the route was mounted without Auth.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	if userID == "" || role == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	tokenID, _ := c.Get(middleware.CtxTokenID).(string)
	return domain.Principal{SubjectID: userID, Role: domain.Role(role), TokenID: tokenID}, nil
}

// bindAndValidate decodes the request body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return validationError(err)
	}
	return nil
}
