package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

func seedAccount(t *testing.T, repo *stubAccountRepo, email string) *domain.Account {
	t.Helper()
	acc, err := repo.Save(context.Background(), &domain.Account{
		FullName: "Seed",
		Email:    email,
		Role:     domain.RoleClient,
		Active:   true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return acc
}

func TestAccountService_SetActive(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, discardLogger)
	acc := seedAccount(t, repo, "a@x.com")

	updated, err := svc.SetActive(context.Background(), acc.ID, false)
	if err != nil {
		t.Fatalf("SetActive returned error: %v", err)
	}
	if updated.Active {
		t.Fatalf("expected account to be inactive")
	}

	saves := repo.saves
	if _, err := svc.SetActive(context.Background(), acc.ID, false); err != nil {
		t.Fatalf("SetActive returned error: %v", err)
	}
	if repo.saves != saves {
		t.Fatalf("unchanged status should not be saved again")
	}
}

func TestAccountService_SetActive_NotFound(t *testing.T) {
	svc := NewAccountService(newStubAccountRepo(), discardLogger)
	if _, err := svc.SetActive(context.Background(), 42, true); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_Delete_IsSoft(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo, discardLogger)
	ctx := context.Background()
	acc := seedAccount(t, repo, "gone@x.com")

	if err := svc.Delete(ctx, acc.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	stored := repo.byID[acc.ID]
	if stored == nil || stored.DeletedAt == nil || stored.Active {
		t.Fatalf("expected soft-deleted record, got %+v", stored)
	}
	if _, err := svc.Get(ctx, acc.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("deleted account should not be found, got %v", err)
	}
	if err := svc.Delete(ctx, acc.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}

	// The email is free again once the previous holder is deleted.
	if again := seedAccount(t, repo, "gone@x.com"); again.ID == acc.ID {
		t.Fatalf("expected a new id for the re-registered email")
	}
}
