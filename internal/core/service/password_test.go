package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("abc123")
	require.NoError(t, err)
	assert.NotEqual(t, "abc123", hash)
	assert.NoError(t, h.Compare(hash, "abc123"))
	assert.Error(t, h.Compare(hash, "wrong1"))
}

func TestBcryptHasher_TooLongIsValidationError(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", 72) + "1")

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Contains(t, ve.Fields, "password")
}
