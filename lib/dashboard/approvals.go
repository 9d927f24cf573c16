// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"errors"

	"github.com/gatewatch/gatewatch/lib/api"
)

// ErrReasonRequired is returned when a reject is attempted without a
// reason. The precondition is enforced locally, before any network
// call.
var ErrReasonRequired = errors.New("dashboard: rejection requires a non-empty reason")

// Risk display levels derived from the assessor's 0-10 score.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// Approvals tracks the commands pending multi-admin sign-off. The
// pending set is always server-confirmed: a listing replaces it
// wholesale, and a successful resolution triggers a re-fetch rather
// than a local removal.
type Approvals struct {
	pending []api.PendingApproval
}

// Replace swaps in a fresh server listing. No incremental diffing
// against prior state.
func (a *Approvals) Replace(pending []api.PendingApproval) {
	a.pending = append([]api.PendingApproval(nil), pending...)
}

// Pending returns the current pending set.
func (a *Approvals) Pending() []api.PendingApproval {
	return append([]api.PendingApproval(nil), a.pending...)
}

// Len returns the number of pending approvals.
func (a *Approvals) Len() int {
	return len(a.pending)
}

// Get returns the pending approval with the given command ID.
func (a *Approvals) Get(commandID int) (api.PendingApproval, bool) {
	for _, approval := range a.pending {
		if approval.ID == commandID {
			return approval, true
		}
	}
	return api.PendingApproval{}, false
}

// Reset empties the pending set.
func (a *Approvals) Reset() {
	a.pending = nil
}

// ValidateResolution checks the local precondition for resolving an
// approval: a reject must carry a non-empty reason; an approve's reason
// is optional. Returns ErrReasonRequired on violation.
func ValidateResolution(approved bool, reason string) error {
	if !approved && reason == "" {
		return ErrReasonRequired
	}
	return nil
}

// RiskLevel buckets an assessor score for display: high for 8 and
// above, medium for 5 and above, low otherwise.
func RiskLevel(score float64) string {
	switch {
	case score >= 8:
		return RiskHigh
	case score >= 5:
		return RiskMedium
	}
	return RiskLow
}
