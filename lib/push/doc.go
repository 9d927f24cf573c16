// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package push maintains the gateway's realtime event stream: one
// websocket connection per authenticated session, joined to a
// user-scoped broadcast group and, for admins, the admin-scoped group.
//
// The event set is closed: command_executed, credit_update and
// approval_update. Events are delivered on a single channel in arrival
// order — the channel performs no buffering or reordering beyond
// transport order, and there is exactly one reader goroutine.
//
// There is no reconnect policy. The channel's lifetime is bound to the
// session: dialed once after login, closed on logout. A dropped socket
// means no further events until the next login; Err exposes the
// terminal error so the UI can surface the disconnect.
package push
