package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

const testSecret = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

var discardLogger = zerolog.Nop()

// stubAccountRepo mirrors the store contract: finders skip soft-deleted rows
// and uniqueness only applies to live accounts.
type stubAccountRepo struct {
	byID    map[int64]*domain.Account
	nextID  int64
	findErr error
	saves   int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[int64]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) live() []*domain.Account {
	out := make([]*domain.Account, 0, len(r.byID))
	for _, a := range r.byID {
		if !a.IsDeleted() {
			out = append(out, a)
		}
	}
	return out
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.live() {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok || a.IsDeleted() {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubAccountRepo) Save(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.saves++
	now := time.Now().UTC()
	saved := cloneAccount(account)

	if saved.ID == 0 {
		for _, a := range r.live() {
			if a.Email == saved.Email {
				return nil, domain.ErrDuplicateAccount
			}
		}
		r.nextID++
		saved.ID = r.nextID
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now
	r.byID[saved.ID] = cloneAccount(saved)
	return saved, nil
}

type stubThrottle struct {
	locked   bool
	err      error
	failures int
	resets   int
}

func (t *stubThrottle) Locked(context.Context, string) (bool, error) { return t.locked, t.err }

func (t *stubThrottle) RecordFailure(context.Context, string) error {
	t.failures++
	return t.err
}

func (t *stubThrottle) Reset(context.Context, string) error {
	t.resets++
	return t.err
}
