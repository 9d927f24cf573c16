// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package api

// User roles known to the gateway.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Command statuses assigned by the gateway's rule and risk pipeline.
const (
	StatusAccepted        = "ACCEPTED"
	StatusExecuted        = "EXECUTED"
	StatusRejected        = "REJECTED"
	StatusPendingApproval = "PENDING_APPROVAL"
)

// Rule actions. The gateway may grow further actions; clients treat the
// action as an opaque string everywhere except rule creation forms.
const (
	ActionAllow           = "ALLOW"
	ActionDeny            = "DENY"
	ActionRequireApproval = "REQUIRE_APPROVAL"
)

// Conflict severities, ordered most to least severe.
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
	SeverityLow    = "LOW"
)

// User is the authenticated caller's profile as confirmed by the server.
type User struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Credits int    `json:"credits"`
}

// CommandRecord is one gated command as stored by the server. All fields
// are server-authoritative; the client holds read-only cached copies.
type CommandRecord struct {
	ID              int     `json:"id"`
	CommandText     string  `json:"command_text"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	AIAnalysis      string  `json:"ai_analysis,omitempty"`
	AIRiskScore     float64 `json:"ai_risk_score,omitempty"`
	RulePattern     string  `json:"rule_pattern,omitempty"`
	CreditsDeducted int     `json:"credits_deducted,omitempty"`
}

// SubmitResult is the gateway's verdict on a submitted command.
type SubmitResult struct {
	ID               int     `json:"id"`
	Status           string  `json:"status"`
	CreditsRemaining *int    `json:"credits_remaining,omitempty"`
	AIAnalysis       string  `json:"ai_analysis,omitempty"`
	AIRiskScore      float64 `json:"ai_risk_score,omitempty"`
	RulePattern      string  `json:"rule_pattern,omitempty"`
}

// Rule is one gating rule. Rules are matched in order_index order on the
// server; the client only lists them.
type Rule struct {
	ID         int    `json:"id"`
	Pattern    string `json:"pattern"`
	Action     string `json:"action"`
	OrderIndex int    `json:"order_index"`
	CreatedAt  string `json:"created_at"`
}

// ValidationResult reports whether a rule pattern is syntactically valid.
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Error       string   `json:"error,omitempty"`
	Suggestions []string `json:"suggestions"`
}

// Conflict is one overlap finding between a proposed rule and an
// existing rule.
type Conflict struct {
	ConflictType    string   `json:"conflict_type"`
	Severity        string   `json:"severity"`
	Description     string   `json:"description"`
	RuleID          int      `json:"rule_id"`
	ExistingPattern string   `json:"existing_pattern"`
	ExistingAction  string   `json:"existing_action"`
	Examples        []string `json:"examples"`
}

// ConflictResult is the full response of a conflict check.
type ConflictResult struct {
	HasConflicts bool       `json:"has_conflicts"`
	Conflicts    []Conflict `json:"conflicts"`
	Warnings     []string   `json:"warnings"`
	Suggestions  []string   `json:"suggestions"`
}

// PendingApproval is one command awaiting multi-admin sign-off.
// ApprovalCount and RequiredApprovals are display-only; quorum is
// computed server-side.
type PendingApproval struct {
	ID                int     `json:"id"`
	UserName          string  `json:"user_name"`
	CommandText       string  `json:"command_text"`
	CreatedAt         string  `json:"created_at"`
	AIAnalysis        string  `json:"ai_analysis"`
	AIRiskScore       float64 `json:"ai_risk_score"`
	ApprovalCount     int     `json:"approval_count"`
	RequiredApprovals int     `json:"required_approvals"`
}

// ResolveResult is the server's confirmation of an approval resolution.
type ResolveResult struct {
	Status string `json:"status"`
}

// AuditEntry is one audit trail record.
type AuditEntry struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	UserName  string `json:"user_name,omitempty"`
	Details   string `json:"details"`
}

// DailyStats are the server's aggregate counters for the current day.
type DailyStats struct {
	TotalCommands    int `json:"total_commands"`
	ExecutedCommands int `json:"executed_commands"`
	RejectedCommands int `json:"rejected_commands"`
	TotalCreditsUsed int `json:"total_credits_used"`
}

// TopCommand is one entry in the most-used-commands ranking.
type TopCommand struct {
	CommandText string `json:"command_text"`
	Count       int    `json:"count"`
	Status      string `json:"status"`
}

// UserActivity is one user's command count for the day.
type UserActivity struct {
	UserName     string `json:"user_name"`
	CommandCount int    `json:"command_count"`
}

// Analytics is the daily analytics snapshot.
type Analytics struct {
	DailyStats   DailyStats     `json:"daily_stats"`
	TopCommands  []TopCommand   `json:"top_commands"`
	UserActivity []UserActivity `json:"user_activity"`
}

// CreatedUser is the response to admin user provisioning. The API key is
// returned exactly once, at creation.
type CreatedUser struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Credits int    `json:"credits"`
	APIKey  string `json:"api_key"`
}
