package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            BIGSERIAL PRIMARY KEY,
	full_name     TEXT        NOT NULL,
	email         TEXT        NOT NULL,
	password_hash TEXT        NOT NULL,
	phone         TEXT        NOT NULL,
	avatar        TEXT        NOT NULL DEFAULT '',
	role          TEXT        NOT NULL,
	active        BOOLEAN     NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	deleted_at    TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS accounts_live_email_idx
	ON accounts (email) WHERE deleted_at IS NULL;
`

const selectAccount = `
SELECT id, full_name, email, password_hash, phone, avatar, role, active,
       created_at, updated_at, deleted_at
FROM accounts`

type AccountRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool, now: time.Now}
}

// EnsureSchema creates the accounts table and its indexes if missing.
func (r *AccountRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure accounts schema: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, selectAccount+` WHERE email = $1 AND deleted_at IS NULL`, email)
	return scanAccount(row)
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, selectAccount+` WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanAccount(row)
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1 AND deleted_at IS NULL)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account email: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	now := r.now().UTC().Truncate(time.Microsecond)
	saved := *account
	saved.UpdatedAt = now

	if saved.ID == 0 {
		saved.CreatedAt = now
		err := r.pool.QueryRow(ctx, `
			INSERT INTO accounts (full_name, email, password_hash, phone, avatar, role, active,
			                      created_at, updated_at, deleted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`,
			saved.FullName, saved.Email, saved.PasswordHash, saved.Phone, saved.Avatar,
			saved.Role.String(), saved.Active, saved.CreatedAt, saved.UpdatedAt, saved.DeletedAt,
		).Scan(&saved.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, domain.ErrDuplicateAccount
			}
			return nil, fmt.Errorf("failed to insert account: %w", err)
		}
		return &saved, nil
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET full_name = $2, email = $3, password_hash = $4, phone = $5, avatar = $6,
		    role = $7, active = $8, updated_at = $9, deleted_at = $10
		WHERE id = $1`,
		saved.ID, saved.FullName, saved.Email, saved.PasswordHash, saved.Phone, saved.Avatar,
		saved.Role.String(), saved.Active, saved.UpdatedAt, saved.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return &saved, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a    domain.Account
		role string
	)
	err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.PasswordHash, &a.Phone, &a.Avatar,
		&role, &a.Active, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	a.Role = domain.Role(role)
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
