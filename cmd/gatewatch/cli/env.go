// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gatewatch/gatewatch/lib/api"
	"github.com/gatewatch/gatewatch/lib/config"
	"github.com/gatewatch/gatewatch/lib/session"
)

// Env bundles everything a subcommand needs to talk to the gateway:
// the resolved configuration, the credential store, and the session
// manager. The authenticated API client is built after Restore or
// Authenticate establishes a key.
type Env struct {
	Config   *config.Config
	Store    *session.Store
	Sessions *session.Manager
	Logger   *slog.Logger
}

// NewEnv loads the configuration, opens the credential store, and
// wires the session manager. No network traffic happens here.
func NewEnv(logger *slog.Logger) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	credentialPath := cfg.CredentialPath
	if credentialPath == "" {
		credentialPath, err = session.DefaultCredentialPath()
		if err != nil {
			return nil, fmt.Errorf("resolving credential path: %w", err)
		}
	}
	store, err := session.NewStore(credentialPath)
	if err != nil {
		return nil, err
	}

	env := &Env{Config: cfg, Store: store, Logger: logger}

	manager, err := session.NewManager(session.ManagerConfig{
		Store:  store,
		Verify: env.verify,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	env.Sessions = manager
	return env, nil
}

// verify exchanges a candidate API key for the server-confirmed
// profile. Each candidate gets its own client; the session-scoped
// client is built once a key is accepted.
func (e *Env) verify(ctx context.Context, apiKey string) (*api.User, error) {
	client, err := api.NewClient(api.ClientConfig{
		BaseURL: e.Config.ServerURL,
		APIKey:  apiKey,
		Logger:  e.Logger,
	})
	if err != nil {
		return nil, err
	}
	return client.VerifyIdentity(ctx)
}

// Client returns a gateway client bound to the active session's key.
// Call after Restore or Authenticate succeeds.
func (e *Env) Client() (*api.Client, error) {
	return api.NewClient(api.ClientConfig{
		BaseURL: e.Config.ServerURL,
		APIKey:  e.Sessions.APIKey(),
		Logger:  e.Logger,
	})
}

// RequireSession restores the persisted credential and fails with a
// login hint when none is valid. Most subcommands start here.
func (e *Env) RequireSession(ctx context.Context) (*session.Identity, error) {
	identity, err := e.Sessions.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, fmt.Errorf("not logged in (run 'gatewatch login' first)")
	}
	return identity, nil
}
