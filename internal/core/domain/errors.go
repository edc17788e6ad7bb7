package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrDuplicateAccount     = errors.New("email is already registered")
	ErrInvalidRole          = errors.New("invalid role")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrTooManyAttempts      = errors.New("too many failed login attempts")
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token has expired")
	ErrUnauthenticated      = errors.New("authentication required")
	ErrAccessDenied         = errors.New("access denied")
)

// ValidationError carries per-field messages produced at the request boundary.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
