// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the identity and credential lifecycle: verify a
// candidate API key against the gateway, persist it in a device-scoped
// credential file, restore it silently at startup, and clear it on
// logout or auth failure.
//
// The in-memory Identity's credit balance only ever holds
// server-confirmed values. Components apply balances from push events or
// response payloads via SetCredits; nothing in the client predicts a
// balance ahead of confirmation.
package session
