// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package api is the typed HTTP client for the command gateway backend.
//
// Every call authenticates with an opaque API key sent in the X-API-Key
// header. The gateway is authoritative for all state: the client never
// computes derived values (credit balances, approval quorums) locally,
// it only reports what the server returned.
//
// Error responses share a single JSON shape ({"error": "..."}); they are
// surfaced as *Error carrying the HTTP status code so callers can
// distinguish auth failures (force logout) from transient failures
// (retry the triggering action).
package api
