package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/bookingweb/booking-api/internal/api/middleware"
	"github.com/bookingweb/booking-api/internal/core/domain"
)

// currentIdentity returns the identity attached by the Auth middleware.
// Missing means the route was mounted without the gate.
func currentIdentity(c echo.Context) (*domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return identity, nil
}
