package domain

import (
	"strings"
	"time"
)

// Role is the authorization label attached to an account.
type Role string

const (
	RoleClient  Role = "ROLE_CLIENT"
	RoleAdmin   Role = "ROLE_ADMIN"
	RolePartner Role = "ROLE_PARTNER"
)

const rolePrefix = "ROLE_"

var knownRoles = map[Role]struct{}{
	RoleClient:  {},
	RoleAdmin:   {},
	RolePartner: {},
}

// ParseRole maps a requested role onto the closed role set. Both the stored
// form ("ROLE_CLIENT") and the bare name ("CLIENT") are accepted; matching is
// case-sensitive.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, rolePrefix) {
		s = rolePrefix + s
	}
	r := Role(s)
	if _, ok := knownRoles[r]; !ok {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (r Role) String() string { return string(r) }

// Account is the persisted user record.
type Account struct {
	ID           int64
	FullName     string
	Email        string
	PasswordHash string
	Phone        string
	Avatar       string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// IsDeleted reports whether the account has been soft-deleted.
func (a *Account) IsDeleted() bool {
	return a.DeletedAt != nil
}

// Identity is the slice of an account an authenticator needs.
type Identity struct {
	AccountID    int64
	Login        string
	PasswordHash string
	Authority    Role
	Enabled      bool
}

// NewIdentity adapts an account for authentication.
func NewIdentity(a *Account) *Identity {
	return &Identity{
		AccountID:    a.ID,
		Login:        a.Email,
		PasswordHash: a.PasswordHash,
		Authority:    a.Role,
		Enabled:      a.Active && !a.IsDeleted(),
	}
}

// UserView is the redacted account representation returned to clients.
type UserView struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

// NewUserView strips credentials and lifecycle fields from an account.
func NewUserView(a *Account) UserView {
	return UserView{
		ID:       a.ID,
		FullName: a.FullName,
		Email:    a.Email,
		Phone:    a.Phone,
		Avatar:   a.Avatar,
		Role:     a.Role.String(),
	}
}
