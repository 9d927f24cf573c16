// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the Gatewatch client.
//
// Configuration is loaded from a single YAML file specified by:
//   - GATEWATCH_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. When neither is set,
// built-in defaults apply (a local gateway). This keeps configuration
// deterministic with no hidden overrides.
package config
