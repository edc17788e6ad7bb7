package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookingweb/booking-api/internal/core/domain"
	"github.com/bookingweb/booking-api/internal/core/ports"
)

type AccountService struct {
	repo ports.AccountRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewAccountService(repo ports.AccountRepository, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, log: log, now: time.Now}
}

func (s *AccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.repo.FindByEmail(ctx, email)
}

// SetActive toggles whether the account may authenticate.
func (s *AccountService) SetActive(ctx context.Context, id int64, active bool) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Active == active {
		return account, nil
	}

	account.Active = active
	updated, err := s.repo.Save(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("set active: %w", err)
	}

	s.log.Info().Int64("account_id", id).Bool("active", active).Msg("account status changed")
	return updated, nil
}

// Delete soft-deletes the account. Its email becomes available again.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	account.DeletedAt = &now
	account.Active = false
	if _, err := s.repo.Save(ctx, account); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	s.log.Info().Int64("account_id", id).Msg("account deleted")
	return nil
}
