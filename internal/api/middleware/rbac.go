package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paygate/approval-service/internal/core/domain"
)

// RequireRoles enforces role-based access control. It must run after Auth.
// With no roles every authenticated caller passes.
func RequireRoles(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if len(allowed) == 0 {
				return next(c)
			}
			if _, ok := allowed[identity.Role]; !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrRoleNotPermitted.Error())
			}
			return next(c)
		}
	}
}
