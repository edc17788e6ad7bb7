package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

// RBAC allows the request through only when the authenticated identity holds
// one of allowedRoles. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[identity.Authority]; !ok {
				return domain.ErrAccessDenied
			}
			return next(c)
		}
	}
}
