package ports

import (
	"context"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

// AccountRepository is the credential store. Finders only return accounts
// that have not been soft-deleted; email matching is case-sensitive.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts the account when ID is zero and updates it otherwise.
	// Returns domain.ErrDuplicateAccount on a unique email violation.
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
