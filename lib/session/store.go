// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists the API key in a JSON file readable only by the owner.
// One file per device; there is no multi-account support.
type Store struct {
	path string
}

// storedCredential is the on-disk format. A versioned struct rather than
// a bare string so the file can grow fields (e.g., server URL pinning)
// without a migration.
type storedCredential struct {
	APIKey string `json:"api_key"`
}

// ErrCorruptCredential marks a credential file that exists but does not
// parse. Callers may treat it like an unverifiable credential: clear the
// file and continue unauthenticated.
var ErrCorruptCredential = errors.New("session: credential file is not valid JSON")

// NewStore creates a store backed by the given file path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("session: credential path is required")
	}
	return &Store{path: path}, nil
}

// DefaultCredentialPath returns the device-scoped credential location
// under the user config directory.
func DefaultCredentialPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: resolving user config dir: %w", err)
	}
	return filepath.Join(configDir, "gatewatch", "credential.json"), nil
}

// Load returns the persisted API key, or "" if no credential is stored.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("session: reading credential file: %w", err)
	}

	var stored storedCredential
	if err := json.Unmarshal(data, &stored); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptCredential, err)
	}
	return stored.APIKey, nil
}

// Save persists the API key, creating the parent directory if needed.
// The file is owner-readable only.
func (s *Store) Save(apiKey string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: creating credential dir: %w", err)
	}

	data, err := json.Marshal(storedCredential{APIKey: apiKey})
	if err != nil {
		return fmt.Errorf("session: encoding credential: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: writing credential file: %w", err)
	}
	return nil
}

// Clear removes the persisted credential. Clearing an absent credential
// is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: removing credential file: %w", err)
	}
	return nil
}
