// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashui is the full-screen terminal dashboard. One bubbletea
// Model drives two structurally different role views off the same state
// core: members get command submission plus filtered history with CSV
// export; admins get tabbed sections for rules, audit trail, realtime
// activity, and the approval queue.
//
// All network work runs as asynchronous tea commands delivering typed
// result messages; push events arrive through a re-armed listen command
// and are applied strictly in arrival order. Overlapping validation and
// conflict-check responses are sequence-tagged so a stale response can
// never overwrite a fresher one.
package dashui
