// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import "github.com/gatewatch/gatewatch/lib/api"

// SeverityTier groups the conflicts of one severity, in the order the
// server returned them within the tier.
type SeverityTier struct {
	Severity  string
	Conflicts []api.Conflict
}

// severityRank orders tiers for rendering. Severities the client does
// not know rank after LOW rather than disappearing.
func severityRank(severity string) int {
	switch severity {
	case api.SeverityHigh:
		return 0
	case api.SeverityMedium:
		return 1
	case api.SeverityLow:
		return 2
	}
	return 3
}

// ConflictReport is the aggregated view of one conflict-check response.
// A new check always builds a new report; reports are never merged with
// prior results or with the live rule listing.
type ConflictReport struct {
	HasConflicts bool
	Tiers        []SeverityTier
	Warnings     []string
	Suggestions  []string
}

// BuildConflictReport groups a conflict-check response by severity and
// orders the tiers HIGH → MEDIUM → LOW, independent of server order.
// Tier counts always equal the per-severity counts of the input.
func BuildConflictReport(result *api.ConflictResult) *ConflictReport {
	grouped := make(map[string][]api.Conflict)
	var order []string
	for _, conflict := range result.Conflicts {
		if _, seen := grouped[conflict.Severity]; !seen {
			order = append(order, conflict.Severity)
		}
		grouped[conflict.Severity] = append(grouped[conflict.Severity], conflict)
	}

	// Stable sort of the tier labels by rank; within a tier the
	// server's order is preserved.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && severityRank(order[j]) < severityRank(order[j-1]); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	report := &ConflictReport{
		HasConflicts: result.HasConflicts,
		Warnings:     append([]string(nil), result.Warnings...),
		Suggestions:  append([]string(nil), result.Suggestions...),
	}
	for _, severity := range order {
		report.Tiers = append(report.Tiers, SeverityTier{
			Severity:  severity,
			Conflicts: grouped[severity],
		})
	}
	return report
}

// Count returns the number of conflicts in the tier with the given
// severity, zero when the tier is absent.
func (r *ConflictReport) Count(severity string) int {
	for _, tier := range r.Tiers {
		if tier.Severity == severity {
			return len(tier.Conflicts)
		}
	}
	return 0
}

// Ordered returns every conflict in tier order: all HIGH, then all
// MEDIUM, then all LOW.
func (r *ConflictReport) Ordered() []api.Conflict {
	var out []api.Conflict
	for _, tier := range r.Tiers {
		out = append(out, tier.Conflicts...)
	}
	return out
}
