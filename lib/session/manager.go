// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gatewatch/gatewatch/lib/api"
)

// Identity is the authenticated user's profile with the live
// server-confirmed credit balance.
type Identity struct {
	ID      int
	Name    string
	Role    string
	Credits int
}

// IsAdmin reports whether the identity carries the admin role.
func (identity *Identity) IsAdmin() bool {
	return identity != nil && identity.Role == api.RoleAdmin
}

// VerifyFunc exchanges a candidate API key for the server-confirmed
// profile. The production implementation wraps api.Client.VerifyIdentity;
// tests substitute a fake.
type VerifyFunc func(ctx context.Context, apiKey string) (*api.User, error)

// ManagerConfig holds configuration for creating a Manager.
type ManagerConfig struct {
	// Store persists the credential across restarts.
	Store *Store
	// Verify confirms candidate credentials with the gateway.
	Verify VerifyFunc
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Manager owns the credential lifecycle. Authenticate and Restore
// establish an identity; Logout tears it down along with everything
// bound to the session (push channel, component caches) via the
// registered teardown hooks.
type Manager struct {
	store  *Store
	verify VerifyFunc
	logger *slog.Logger

	apiKey   string
	identity *Identity
	teardown []func()
}

// NewManager creates a session manager.
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("session: Store is required")
	}
	if config.Verify == nil {
		return nil, fmt.Errorf("session: Verify is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		store:  config.Store,
		verify: config.Verify,
		logger: logger,
	}, nil
}

// OnLogout registers a teardown hook invoked whenever the session ends.
// Hooks run in registration order. Register once per session-scoped
// resource; hooks persist across login cycles.
func (m *Manager) OnLogout(hook func()) {
	m.teardown = append(m.teardown, hook)
}

// Authenticate exchanges a candidate API key for verification. On
// success the key is persisted and the identity is held in memory. On
// failure prior state is untouched.
func (m *Manager) Authenticate(ctx context.Context, apiKey string) (*Identity, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("session: API key is required")
	}

	user, err := m.verify(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("session: verification failed: %w", err)
	}

	if err := m.store.Save(apiKey); err != nil {
		// The session is still usable in memory; persistence failure
		// only costs the silent restore on next startup.
		m.logger.Warn("failed to persist credential", "error", err)
	}

	m.apiKey = apiKey
	m.identity = &Identity{ID: user.ID, Name: user.Name, Role: user.Role, Credits: user.Credits}
	return m.identity, nil
}

// Restore re-verifies a previously persisted credential at startup.
// Returns (nil, nil) when no credential is stored. An invalid,
// unverifiable, or corrupt credential is cleared and the manager stays
// unauthenticated.
func (m *Manager) Restore(ctx context.Context) (*Identity, error) {
	apiKey, err := m.store.Load()
	if err != nil {
		// A corrupt file gets the same treatment as an unverifiable
		// credential: clear it and start over, rather than wedging
		// every command until the user hand-deletes the file.
		if !errors.Is(err, ErrCorruptCredential) {
			return nil, err
		}
		m.logger.Warn("stored credential file is corrupt, clearing", "error", err)
		m.Logout()
		return nil, nil
	}
	if apiKey == "" {
		return nil, nil
	}

	user, err := m.verify(ctx, apiKey)
	if err != nil {
		m.logger.Warn("stored credential failed verification, clearing", "error", err)
		m.Logout()
		return nil, nil
	}

	m.apiKey = apiKey
	m.identity = &Identity{ID: user.ID, Name: user.Name, Role: user.Role, Credits: user.Credits}
	return m.identity, nil
}

// Logout clears the persisted credential, drops the in-memory identity,
// and runs the teardown hooks. Idempotent.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear credential", "error", err)
	}

	alreadyOut := m.identity == nil && m.apiKey == ""
	m.apiKey = ""
	m.identity = nil

	if alreadyOut {
		return
	}
	for _, hook := range m.teardown {
		hook()
	}
}

// Identity returns the current identity, or nil when unauthenticated.
func (m *Manager) Identity() *Identity {
	return m.identity
}

// APIKey returns the active credential, or "" when unauthenticated.
func (m *Manager) APIKey() string {
	return m.apiKey
}

// Authenticated reports whether a verified identity is held.
func (m *Manager) Authenticated() bool {
	return m.identity != nil
}

// SetCredits overwrites the identity's credit balance with a
// server-confirmed value. This is the only mutation path for the
// balance; callers must never pass locally computed values. A no-op
// when unauthenticated (a credit_update can race a logout).
func (m *Manager) SetCredits(credits int) {
	if m.identity == nil {
		return
	}
	m.identity.Credits = credits
}
