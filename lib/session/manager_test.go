// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gatewatch/gatewatch/lib/api"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "credential.json"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func acceptingVerify(user api.User) VerifyFunc {
	return func(ctx context.Context, apiKey string) (*api.User, error) {
		copied := user
		return &copied, nil
	}
}

func rejectingVerify() VerifyFunc {
	return func(ctx context.Context, apiKey string) (*api.User, error) {
		return nil, &api.Error{StatusCode: 401, Message: "Invalid API key"}
	}
}

func TestAuthenticatePersistsCredential(t *testing.T) {
	store := testStore(t)
	manager, err := NewManager(ManagerConfig{
		Store:  store,
		Verify: acceptingVerify(api.User{ID: 1, Name: "ada", Role: "member", Credits: 100}),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	identity, err := manager.Authenticate(context.Background(), "gw_abc")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if identity.Name != "ada" || identity.Credits != 100 {
		t.Errorf("unexpected identity: %+v", identity)
	}

	stored, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if stored != "gw_abc" {
		t.Errorf("expected persisted key gw_abc, got %q", stored)
	}
}

func TestAuthenticateFailureLeavesStateUntouched(t *testing.T) {
	store := testStore(t)
	manager, _ := NewManager(ManagerConfig{Store: store, Verify: rejectingVerify()})

	if _, err := manager.Authenticate(context.Background(), "gw_bad"); err == nil {
		t.Fatal("expected error from rejected credential")
	}
	if manager.Authenticated() {
		t.Error("manager should stay unauthenticated after a failed verify")
	}

	stored, _ := store.Load()
	if stored != "" {
		t.Errorf("failed authentication must not persist a credential, got %q", stored)
	}
}

func TestRestoreWithoutCredentialStaysUnauthenticated(t *testing.T) {
	manager, _ := NewManager(ManagerConfig{
		Store:  testStore(t),
		Verify: acceptingVerify(api.User{Name: "ada"}),
	})

	identity, err := manager.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if identity != nil || manager.Authenticated() {
		t.Error("Restore with no stored credential should stay unauthenticated")
	}
}

func TestRestoreClearsInvalidCredential(t *testing.T) {
	store := testStore(t)
	if err := store.Save("gw_stale"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	manager, _ := NewManager(ManagerConfig{Store: store, Verify: rejectingVerify()})
	identity, err := manager.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if identity != nil {
		t.Error("invalid stored credential should not yield an identity")
	}

	stored, _ := store.Load()
	if stored != "" {
		t.Errorf("invalid credential should be cleared, still have %q", stored)
	}
}

func TestLogoutRunsTeardownOnceAndIsIdempotent(t *testing.T) {
	store := testStore(t)
	manager, _ := NewManager(ManagerConfig{
		Store:  store,
		Verify: acceptingVerify(api.User{Name: "ada"}),
	})

	teardowns := 0
	manager.OnLogout(func() { teardowns++ })

	if _, err := manager.Authenticate(context.Background(), "gw_abc"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	manager.Logout()
	manager.Logout()

	if teardowns != 1 {
		t.Errorf("expected exactly one teardown run, got %d", teardowns)
	}
	if manager.Authenticated() || manager.APIKey() != "" {
		t.Error("logout should drop identity and credential")
	}

	// A fresh manager over the same store finds nothing to restore.
	fresh, _ := NewManager(ManagerConfig{Store: store, Verify: acceptingVerify(api.User{Name: "ada"})})
	identity, err := fresh.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if identity != nil {
		t.Error("restore after logout should find no credential")
	}
}

func TestSetCreditsOverwritesBalance(t *testing.T) {
	manager, _ := NewManager(ManagerConfig{
		Store:  testStore(t),
		Verify: acceptingVerify(api.User{Name: "ada", Credits: 10}),
	})
	if _, err := manager.Authenticate(context.Background(), "gw_abc"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	manager.SetCredits(7)
	if got := manager.Identity().Credits; got != 7 {
		t.Errorf("expected credits 7 after server confirmation, got %d", got)
	}
}

func TestStoreClearIsIdempotent(t *testing.T) {
	store := testStore(t)
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on absent credential should succeed, got %v", err)
	}
}

func TestStoreRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credential.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	store, _ := NewStore(path)
	_, err := store.Load()
	if !errors.Is(err, ErrCorruptCredential) {
		t.Fatalf("expected ErrCorruptCredential, got %v", err)
	}
}

func TestRestoreClearsCorruptCredentialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credential.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	store, _ := NewStore(path)

	manager, _ := NewManager(ManagerConfig{
		Store:  store,
		Verify: acceptingVerify(api.User{Name: "ada"}),
	})
	identity, err := manager.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore should recover from a corrupt file, got %v", err)
	}
	if identity != nil || manager.Authenticated() {
		t.Error("corrupt credential should not yield an identity")
	}

	// The file is gone: the next Restore finds a clean slate instead of
	// erroring again.
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("corrupt credential file should be removed, stat: %v", statErr)
	}
	if stored, loadErr := store.Load(); loadErr != nil || stored != "" {
		t.Errorf("Load after clear = (%q, %v), want empty", stored, loadErr)
	}
}
