// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"github.com/gatewatch/gatewatch/lib/api"
	"github.com/gatewatch/gatewatch/lib/dashboard"
	"github.com/gatewatch/gatewatch/lib/push"
)

// pushEventMsg wraps one push event for delivery through the bubbletea
// message loop. Events are applied in arrival order: each handled event
// re-arms the listen command for the next one.
type pushEventMsg struct {
	event push.Event
}

// channelClosedMsg is delivered when the push channel's event stream
// ends. No further events until the next login.
type channelClosedMsg struct{}

// historyLoadedMsg carries a fresh fetch of the member's own commands.
type historyLoadedMsg struct {
	records []api.CommandRecord
	err     error
}

// rulesLoadedMsg carries the rule listing.
type rulesLoadedMsg struct {
	rules []api.Rule
	err   error
}

// auditLoadedMsg carries the audit trail.
type auditLoadedMsg struct {
	entries []api.AuditEntry
	err     error
}

// analyticsLoadedMsg carries the analytics snapshot.
type analyticsLoadedMsg struct {
	analytics *api.Analytics
	err       error
}

// approvalsLoadedMsg carries the pending-approval listing.
type approvalsLoadedMsg struct {
	approvals []api.PendingApproval
	err       error
}

// submitResultMsg carries the gateway's verdict on a submitted command.
type submitResultMsg struct {
	result *api.SubmitResult
	err    error
}

// validationResultMsg carries a pattern validation response. seq is
// compared against the latest issued sequence; stale responses are
// discarded rather than allowed to overwrite fresher state.
type validationResultMsg struct {
	seq    uint64
	result *api.ValidationResult
	err    error
}

// conflictResultMsg carries a conflict-check response, sequence-tagged
// like validation responses.
type conflictResultMsg struct {
	seq    uint64
	report *dashboard.ConflictReport
	err    error
}

// ruleCreatedMsg carries the result of rule creation.
type ruleCreatedMsg struct {
	rule *api.Rule
	err  error
}

// resolveResultMsg carries the result of an approval resolution.
type resolveResultMsg struct {
	commandID int
	approved  bool
	err       error
}

// exportDoneMsg reports the outcome of a history export.
type exportDoneMsg struct {
	filename string
	err      error
}

// noticeFadeMsg clears the status-bar notice after its display window.
// The generation guards against an old fade clearing a newer notice.
type noticeFadeMsg struct {
	generation int
}
