// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package push

// EventKind identifies one of the closed set of gateway push events.
type EventKind string

const (
	// KindCommandExecuted is broadcast to the admin group whenever a
	// member's command passes through the gate.
	KindCommandExecuted EventKind = "command_executed"
	// KindCreditUpdate carries the server-confirmed credit balance for
	// the receiving user.
	KindCreditUpdate EventKind = "credit_update"
	// KindApprovalUpdate announces that an admin resolved (or voted on)
	// a pending command.
	KindApprovalUpdate EventKind = "approval_update"
)

// CommandExecuted is the payload of a command_executed event.
type CommandExecuted struct {
	Status    string `json:"status"`
	UserName  string `json:"user_name"`
	Command   string `json:"command"`
	Timestamp string `json:"timestamp"`
}

// CreditUpdate is the payload of a credit_update event. Credits is
// authoritative and overwrites any local balance unconditionally.
type CreditUpdate struct {
	Credits int `json:"credits"`
}

// ApprovalUpdate is the payload of an approval_update event.
type ApprovalUpdate struct {
	AdminName string `json:"admin_name"`
	Approved  bool   `json:"approved"`
	CommandID int    `json:"command_id"`
}

// Event is one decoded push event. Exactly one payload pointer is
// non-nil, matching Kind.
type Event struct {
	Kind EventKind

	CommandExecuted *CommandExecuted
	CreditUpdate    *CreditUpdate
	ApprovalUpdate  *ApprovalUpdate
}
