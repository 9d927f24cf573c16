// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashboard holds the dashboard's workflow state: the bounded
// live-activity feed, the running counters reconciled from snapshot and
// push updates, the member's command history cache, approval-queue
// bookkeeping, conflict-report aggregation, and the tab router.
//
// Everything here is pure in-memory state mutated through named methods
// — no ambient globals, no I/O. The terminal UI in package dashui owns
// an explicit State container and drives it from user actions, timers,
// and push events, one at a time. Because all mutation happens on that
// single event-processing step, none of these types carry locks.
package dashboard
