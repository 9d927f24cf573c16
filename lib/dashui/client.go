// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"context"

	"github.com/gatewatch/gatewatch/lib/api"
)

// Client is the slice of the gateway API the dashboard drives. *api.Client
// implements it; tests substitute fakes to observe (or forbid) calls.
type Client interface {
	SubmitCommand(ctx context.Context, command string) (*api.SubmitResult, error)
	ListCommands(ctx context.Context) ([]api.CommandRecord, error)
	ListRules(ctx context.Context) ([]api.Rule, error)
	CreateRule(ctx context.Context, pattern, action string) (*api.Rule, error)
	ValidatePattern(ctx context.Context, pattern string) (*api.ValidationResult, error)
	CheckConflicts(ctx context.Context, pattern, action string) (*api.ConflictResult, error)
	ListPendingApprovals(ctx context.Context) ([]api.PendingApproval, error)
	ResolveApproval(ctx context.Context, commandID int, approved bool, reason string) (*api.ResolveResult, error)
	ListAuditLogs(ctx context.Context) ([]api.AuditEntry, error)
	FetchAnalytics(ctx context.Context) (*api.Analytics, error)
}
