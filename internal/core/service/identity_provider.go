package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookingweb/booking-api/internal/core/domain"
	"github.com/bookingweb/booking-api/internal/core/ports"
)

// IdentityProvider bridges the credential store to authenticators.
type IdentityProvider struct {
	repo ports.AccountRepository
}

func NewIdentityProvider(repo ports.AccountRepository) *IdentityProvider {
	return &IdentityProvider{repo: repo}
}

// LoadForAuthentication returns the identity for login. Inactive accounts are
// returned with Enabled=false rather than reported as missing.
func (p *IdentityProvider) LoadForAuthentication(ctx context.Context, login string) (*domain.Identity, error) {
	account, err := p.repo.FindByEmail(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}
	return domain.NewIdentity(account), nil
}
