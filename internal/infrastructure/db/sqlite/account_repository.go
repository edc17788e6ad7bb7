package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

const selectAccount = `
	SELECT id, full_name, email, password_hash, phone, avatar, role, active,
	       created_at, updated_at, deleted_at
	FROM accounts
`

type AccountRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db, now: time.Now}
}

// FindByEmail returns the live account registered under email.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, selectAccount+`WHERE email = ? AND deleted_at IS NULL`, email)
	return scanAccount(row)
}

// FindByID returns the live account with id.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, selectAccount+`WHERE id = ? AND deleted_at IS NULL`, id)
	return scanAccount(row)
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM accounts WHERE email = ? AND deleted_at IS NULL`, email,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check account email: %w", err)
	}
	return n > 0, nil
}

func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	now := r.now().UTC()
	saved := *account
	saved.UpdatedAt = now

	if saved.ID == 0 {
		saved.CreatedAt = now
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO accounts (full_name, email, password_hash, phone, avatar, role, active,
			                      created_at, updated_at, deleted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			saved.FullName, saved.Email, saved.PasswordHash, saved.Phone, saved.Avatar,
			saved.Role.String(), saved.Active, saved.CreatedAt, saved.UpdatedAt, nullTime(saved.DeletedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, domain.ErrDuplicateAccount
			}
			return nil, fmt.Errorf("failed to insert account: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read account id: %w", err)
		}
		saved.ID = id
		return &saved, nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET full_name = ?, email = ?, password_hash = ?, phone = ?, avatar = ?,
		    role = ?, active = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?`,
		saved.FullName, saved.Email, saved.PasswordHash, saved.Phone, saved.Avatar,
		saved.Role.String(), saved.Active, saved.UpdatedAt, nullTime(saved.DeletedAt), saved.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return &saved, nil
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var (
		a         domain.Account
		role      string
		deletedAt sql.NullTime
	)
	err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.PasswordHash, &a.Phone, &a.Avatar,
		&role, &a.Active, &a.CreatedAt, &a.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	a.Role = domain.Role(role)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	if deletedAt.Valid {
		t := deletedAt.Time.UTC()
		a.DeletedAt = &t
	}
	return &a, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
