package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

const identityKey = "identity"

// IdentityFrom returns the identity attached by Auth, if any.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	id, ok := c.Get(identityKey).(*domain.Identity)
	return id, ok && id != nil
}

// SetIdentity attaches id to the request context.
func SetIdentity(c echo.Context, id *domain.Identity) {
	c.Set(identityKey, id)
}
