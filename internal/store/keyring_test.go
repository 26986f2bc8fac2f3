package store

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

func TestKeyringTokenStore(t *testing.T) {
	keyring.MockInit()
	k := NewKeyringTokenStore()

	if _, err := k.LoadToken("supabase"); !errors.Is(err, ErrNoToken) {
		t.Fatalf("LoadToken() error = %v, want ErrNoToken", err)
	}

	tok := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer"}
	if err := k.SaveToken("supabase", tok); err != nil {
		t.Fatalf("SaveToken() error: %v", err)
	}
	got, err := k.LoadToken("supabase")
	if err != nil {
		t.Fatalf("LoadToken() error: %v", err)
	}
	if got.AccessToken != "access" || got.RefreshToken != "refresh" {
		t.Errorf("token = %+v", got)
	}

	if err := k.DeleteToken("supabase"); err != nil {
		t.Fatalf("DeleteToken() error: %v", err)
	}
	if err := k.DeleteToken("supabase"); err != nil {
		t.Errorf("second DeleteToken() error: %v", err)
	}
}

func TestMemoryTokenStore(t *testing.T) {
	m := NewMemoryTokenStore()
	if _, err := m.LoadToken("x"); !errors.Is(err, ErrNoToken) {
		t.Fatalf("LoadToken() error = %v, want ErrNoToken", err)
	}
	m.SaveToken("x", &oauth2.Token{AccessToken: "a"})
	got, err := m.LoadToken("x")
	if err != nil || got.AccessToken != "a" {
		t.Fatalf("LoadToken() = %+v, %v", got, err)
	}
	m.DeleteToken("x")
	if _, err := m.LoadToken("x"); !errors.Is(err, ErrNoToken) {
		t.Errorf("LoadToken() after delete error = %v", err)
	}
}
