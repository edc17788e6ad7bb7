package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookingweb/booking-api/internal/core/domain"
	"github.com/bookingweb/booking-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo          ports.AccountRepository
	authenticator *Authenticator
	hasher        PasswordHasher
	codec         *TokenCodec
	throttle      ports.LoginThrottle
	log           zerolog.Logger
	now           func() time.Time
}

func NewAuthService(
	repo ports.AccountRepository,
	authenticator *Authenticator,
	hasher PasswordHasher,
	codec *TokenCodec,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	if throttle == nil {
		throttle = NopThrottle{}
	}
	return &AuthService{
		repo:          repo,
		authenticator: authenticator,
		hasher:        hasher,
		codec:         codec,
		throttle:      throttle,
		log:           log,
		now:           time.Now,
	}
}

// Register creates a new active account. The input is expected to have passed
// boundary validation already.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateAccount
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.repo.Save(ctx, &domain.Account{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Role:         role,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("account_id", created.ID).Str("role", role.String()).Msg("account registered")
	return created, nil
}

// Login verifies credentials and mints an access token for the account.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	locked, err := s.throttle.Locked(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
	} else if locked {
		return "", nil, domain.ErrTooManyAttempts
	}

	if _, err := s.authenticator.Authenticate(ctx, email, password); err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			if ferr := s.throttle.RecordFailure(ctx, email); ferr != nil {
				s.log.Warn().Err(ferr).Msg("failed to record login failure")
			}
		}
		return "", nil, err
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login failures")
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	token, err := s.codec.Issue(account.Email, domain.ExtraClaims{
		Role:      account.Role,
		AccountID: account.ID,
	}, s.now())
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Int64("account_id", account.ID).Msg("login succeeded")
	return token, account, nil
}
