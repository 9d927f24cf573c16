// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-tree framework for the gatewatch
// binary: declarative command definitions with flags, nested
// subcommands, structured help output, and typo suggestions. Commands
// are assembled into a tree in cmd/gatewatch/commands and dispatched
// from main. It also carries the shared environment setup (config,
// credential store, gateway client) every subcommand needs.
package cli
