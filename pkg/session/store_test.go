package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/serviclean/booking-platform/internal/core/domain"
)

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	user := &domain.User{ID: "u1", Email: "a@x.com", Role: domain.RoleCliente, Active: true}
	if err := store.Save("token123", user); err != nil {
		t.Fatalf("save: %v", err)
	}

	token, loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "token123" {
		t.Fatalf("unexpected token: %s", token)
	}
	if loaded == nil || loaded.Email != "a@x.com" || loaded.Role != domain.RoleCliente {
		t.Fatalf("unexpected user: %+v", loaded)
	}
}

func TestFileStore_EmptyIsNoSession(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	token, user, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "" || user != nil {
		t.Fatalf("expected no session, got %q %+v", token, user)
	}
}

func TestFileStore_ClearRemovesBothKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Save("token123", &domain.User{ID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	for _, name := range []string{"token", "user.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed", name)
		}
	}

	// Clearing again is a no-op.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileStore_CorruptUserKeepsToken(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Save("token123", &domain.User{ID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "user.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("corrupt user file: %v", err)
	}

	token, user, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "token123" {
		t.Fatalf("token must survive a corrupt user blob, got %q", token)
	}
	if user != nil {
		t.Fatalf("corrupt user blob must load as nil, got %+v", user)
	}
}

func TestMemStore_RoundTrip(t *testing.T) {
	store := NewMemStore()
	if err := store.Save("tok", &domain.User{ID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	token, user, err := store.Load()
	if err != nil || token != "tok" || user == nil || user.ID != "u1" {
		t.Fatalf("unexpected load result: %q %+v %v", token, user, err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	token, user, _ = store.Load()
	if token != "" || user != nil {
		t.Fatalf("expected cleared store, got %q %+v", token, user)
	}
}
