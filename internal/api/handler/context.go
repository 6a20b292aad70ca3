package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paygate/approval-service/internal/api/middleware"
	"github.com/paygate/approval-service/internal/core/domain"
)

// callerIdentity returns the identity injected by the Auth middleware. Its
// absence means the route was mounted without authentication.
func callerIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.UserID <= 0 {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
