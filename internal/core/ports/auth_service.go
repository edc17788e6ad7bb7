package ports

import (
	"context"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

// RegisterInput carries an already shape-validated registration request.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
}

// AccountService covers account reads and lifecycle changes after registration.
type AccountService interface {
	Get(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.Account, error)
	Delete(ctx context.Context, id int64) error
}
