package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

func TestToDocument_DeletedFlagFollowsDeletedAt(t *testing.T) {
	live := &domain.Account{ID: 1, Email: "a@x.com", Role: domain.RoleClient, Active: true}
	assert.False(t, toDocument(live).Deleted)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	gone := &domain.Account{ID: 2, Email: "b@x.com", Role: domain.RoleAdmin, DeletedAt: &at}
	doc := toDocument(gone)
	assert.True(t, doc.Deleted)
	assert.Equal(t, "ROLE_ADMIN", doc.Role)
}

func TestAccountDocument_ToDomainNormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, loc)
	doc := accountDocument{
		ID:        7,
		Email:     "c@x.com",
		Role:      "ROLE_PARTNER",
		Active:    true,
		CreatedAt: at,
		UpdatedAt: at,
		DeletedAt: &at,
	}

	a := doc.toDomain()
	assert.Equal(t, int64(7), a.ID)
	assert.Equal(t, domain.RolePartner, a.Role)
	assert.Equal(t, time.UTC, a.CreatedAt.Location())
	if assert.NotNil(t, a.DeletedAt) {
		assert.True(t, a.DeletedAt.Equal(at))
		assert.Equal(t, time.UTC, a.DeletedAt.Location())
	}
}
