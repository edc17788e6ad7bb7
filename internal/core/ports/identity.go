package ports

import (
	"context"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

// IdentityLoader resolves a login identifier to an authenticatable identity.
type IdentityLoader interface {
	LoadForAuthentication(ctx context.Context, login string) (*domain.Identity, error)
}

// LoginThrottle tracks failed login attempts per login identifier.
type LoginThrottle interface {
	Locked(ctx context.Context, login string) (bool, error)
	RecordFailure(ctx context.Context, login string) error
	Reset(ctx context.Context, login string) error
}
