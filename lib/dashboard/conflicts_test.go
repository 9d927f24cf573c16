// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"testing"

	"github.com/gatewatch/gatewatch/lib/api"
)

func TestConflictTiersOrderedBySeverity(t *testing.T) {
	// Server returns tiers interleaved; rendering order must be
	// HIGH, MEDIUM, LOW regardless.
	result := &api.ConflictResult{
		HasConflicts: true,
		Conflicts: []api.Conflict{
			{ConflictType: "NEW_IS_SUBSET", Severity: api.SeverityMedium, RuleID: 1},
			{ConflictType: "BROAD_PATTERN", Severity: api.SeverityLow, RuleID: 2},
			{ConflictType: "OVERLAPPING_PATTERNS", Severity: api.SeverityHigh, RuleID: 3},
			{ConflictType: "EXISTING_IS_SUBSET", Severity: api.SeverityMedium, RuleID: 4},
			{ConflictType: "EXACT_DUPLICATE", Severity: api.SeverityHigh, RuleID: 5},
		},
	}

	report := BuildConflictReport(result)

	var severities []string
	for _, conflict := range report.Ordered() {
		severities = append(severities, conflict.Severity)
	}
	want := []string{"HIGH", "HIGH", "MEDIUM", "MEDIUM", "LOW"}
	for i := range want {
		if severities[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s (full order %v)", i, want[i], severities[i], severities)
		}
	}

	// Within a tier, server order is preserved.
	high := report.Tiers[0]
	if high.Conflicts[0].RuleID != 3 || high.Conflicts[1].RuleID != 5 {
		t.Errorf("expected server order within the HIGH tier, got %+v", high.Conflicts)
	}
}

func TestConflictTierCountsMatchInput(t *testing.T) {
	result := &api.ConflictResult{
		HasConflicts: true,
		Conflicts: []api.Conflict{
			{Severity: api.SeverityLow},
			{Severity: api.SeverityHigh},
			{Severity: api.SeverityLow},
			{Severity: api.SeverityMedium},
			{Severity: api.SeverityHigh},
			{Severity: api.SeverityHigh},
		},
	}

	report := BuildConflictReport(result)

	if report.Count(api.SeverityHigh) != 3 {
		t.Errorf("expected 3 HIGH, got %d", report.Count(api.SeverityHigh))
	}
	if report.Count(api.SeverityMedium) != 1 {
		t.Errorf("expected 1 MEDIUM, got %d", report.Count(api.SeverityMedium))
	}
	if report.Count(api.SeverityLow) != 2 {
		t.Errorf("expected 2 LOW, got %d", report.Count(api.SeverityLow))
	}
}

func TestDenyOverAllowOverlapSurfacesHighFinding(t *testing.T) {
	// The canonical scenario: proposing "rm -rf /" DENY against an
	// existing "rm .*" ALLOW. The server reports the contradictory
	// overlap; the report must surface it as HIGH and reference the
	// existing rule.
	result := &api.ConflictResult{
		HasConflicts: true,
		Conflicts: []api.Conflict{{
			ConflictType:    "OVERLAPPING_PATTERNS",
			Severity:        api.SeverityHigh,
			Description:     "Pattern overlaps an existing rule with the opposite action",
			RuleID:          7,
			ExistingPattern: "rm .*",
			ExistingAction:  api.ActionAllow,
			Examples:        []string{"rm -rf /"},
		}},
	}

	report := BuildConflictReport(result)

	if !report.HasConflicts {
		t.Fatal("expected has_conflicts to carry through")
	}
	if report.Count(api.SeverityHigh) < 1 {
		t.Fatal("expected at least one HIGH finding")
	}

	finding := report.Tiers[0].Conflicts[0]
	if finding.RuleID != 7 || finding.ExistingPattern != "rm .*" || finding.ExistingAction != api.ActionAllow {
		t.Errorf("finding should reference the existing rule, got %+v", finding)
	}
}

func TestEmptyResultBuildsEmptyReport(t *testing.T) {
	report := BuildConflictReport(&api.ConflictResult{HasConflicts: false})

	if report.HasConflicts || len(report.Tiers) != 0 || len(report.Ordered()) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}
