package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/lu-zhengda/mailroom/internal/domain"
	"github.com/lu-zhengda/mailroom/internal/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	acct := &domain.Account{
		ID:    "account-1",
		Email: "alicia@example.com",
		Label: "Alicia Keys",
	}
	if err := db.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("CreateAccount() error: %v", err)
	}

	got, err := db.GetAccount(ctx, "account-1")
	if err != nil {
		t.Fatalf("GetAccount() error: %v", err)
	}
	if got.Email != "alicia@example.com" {
		t.Errorf("email = %q, want %q", got.Email, "alicia@example.com")
	}
	if got.Label != "Alicia Keys" {
		t.Errorf("label = %q, want %q", got.Label, "Alicia Keys")
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetAccount(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetAccount() error = %v, want ErrNotFound", err)
	}
}

func TestListAccounts_KeepsOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.CreateAccount(ctx, &domain.Account{ID: "b", Email: "b@test.com"})
	db.CreateAccount(ctx, &domain.Account{ID: "a", Email: "a@test.com"})

	accounts, err := db.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts() error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}
	if accounts[0].ID != "b" || accounts[1].ID != "a" {
		t.Errorf("order = [%s %s], want [b a]", accounts[0].ID, accounts[1].ID)
	}
}

func TestUpsertAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.CreateAccount(ctx, &domain.Account{ID: "a1", Email: "a@test.com", Label: "Old"})
	db.CreateAccount(ctx, &domain.Account{ID: "a2", Email: "b@test.com"})
	if err := db.UpsertAccount(ctx, &domain.Account{ID: "a1", Email: "a@test.com", Label: "New"}); err != nil {
		t.Fatalf("UpsertAccount() error: %v", err)
	}

	accounts, _ := db.ListAccounts(ctx)
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}
	if accounts[0].ID != "a1" || accounts[0].Label != "New" {
		t.Errorf("first account = %+v, want a1 labelled New", accounts[0])
	}
}

func TestDeleteAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.CreateAccount(ctx, &domain.Account{ID: "a1", Email: "a@test.com"})
	if err := db.DeleteAccount(ctx, "a1"); err != nil {
		t.Fatalf("DeleteAccount() error: %v", err)
	}

	accounts, err := db.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts() error: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("got %d accounts after delete, want 0", len(accounts))
	}
}
