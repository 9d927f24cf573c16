// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable pointing at the config file.
const EnvVar = "GATEWATCH_CONFIG"

// Config is the client configuration.
type Config struct {
	// ServerURL is the gateway's base URL for REST calls.
	ServerURL string `yaml:"server_url"`

	// WebsocketURL is the push channel endpoint. When empty it is
	// derived from ServerURL (http → ws) with the /ws path.
	WebsocketURL string `yaml:"websocket_url,omitempty"`

	// CredentialPath overrides where the API key is persisted. When
	// empty the device-scoped default under the user config dir is used.
	CredentialPath string `yaml:"credential_path,omitempty"`
}

// Default returns the built-in configuration for a local gateway.
func Default() *Config {
	return &Config{
		ServerURL: "http://localhost:8000",
	}
}

// Load reads the config file named by GATEWATCH_CONFIG, or returns the
// defaults when the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the config file at path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configured URLs parse and use supported
// schemes.
func (c *Config) Validate() error {
	serverURL, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url %q: %w", c.ServerURL, err)
	}
	if serverURL.Scheme != "http" && serverURL.Scheme != "https" {
		return fmt.Errorf("server_url %q must use http or https", c.ServerURL)
	}

	if c.WebsocketURL != "" {
		wsURL, err := url.Parse(c.WebsocketURL)
		if err != nil {
			return fmt.Errorf("invalid websocket_url %q: %w", c.WebsocketURL, err)
		}
		if wsURL.Scheme != "ws" && wsURL.Scheme != "wss" {
			return fmt.Errorf("websocket_url %q must use ws or wss", c.WebsocketURL)
		}
	}
	return nil
}

// ResolveWebsocketURL returns the push endpoint, deriving it from the
// server URL when not explicitly configured.
func (c *Config) ResolveWebsocketURL() string {
	if c.WebsocketURL != "" {
		return c.WebsocketURL
	}

	derived := c.ServerURL
	switch {
	case strings.HasPrefix(derived, "https://"):
		derived = "wss://" + strings.TrimPrefix(derived, "https://")
	case strings.HasPrefix(derived, "http://"):
		derived = "ws://" + strings.TrimPrefix(derived, "http://")
	}
	return strings.TrimRight(derived, "/") + "/ws"
}
