package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookingweb/booking-api/internal/core/domain"
	"github.com/bookingweb/booking-api/internal/core/ports"
)

// Hashed on construction so that unknown logins cost one bcrypt comparison too.
const timingPlaceholder = "booking-timing-placeholder"

// Authenticator verifies a login/password pair against the stored hash.
type Authenticator struct {
	identities ports.IdentityLoader
	hasher     PasswordHasher
	dummyHash  string
}

func NewAuthenticator(identities ports.IdentityLoader, hasher PasswordHasher) (*Authenticator, error) {
	dummy, err := hasher.Hash(timingPlaceholder)
	if err != nil {
		return nil, fmt.Errorf("authenticator: %w", err)
	}
	return &Authenticator{identities: identities, hasher: hasher, dummyHash: dummy}, nil
}

// Authenticate returns domain.ErrAuthenticationFailed for both unknown logins
// and wrong passwords. A disabled account is reported only once the password
// has been verified.
func (a *Authenticator) Authenticate(ctx context.Context, login, password string) (*domain.Identity, error) {
	identity, err := a.identities.LoadForAuthentication(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			_ = a.hasher.Compare(a.dummyHash, password)
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if err := a.hasher.Compare(identity.PasswordHash, password); err != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	if !identity.Enabled {
		return nil, domain.ErrAccountDisabled
	}
	return identity, nil
}
