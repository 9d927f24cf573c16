// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"errors"
	"testing"

	"github.com/gatewatch/gatewatch/lib/api"
)

func TestReplaceIsWholesale(t *testing.T) {
	var approvals Approvals
	approvals.Replace([]api.PendingApproval{{ID: 1}, {ID: 2}})
	approvals.Replace([]api.PendingApproval{{ID: 3}})

	pending := approvals.Pending()
	if len(pending) != 1 || pending[0].ID != 3 {
		t.Errorf("replace should discard prior state entirely, got %+v", pending)
	}
}

func TestRejectWithoutReasonIsRefused(t *testing.T) {
	err := ValidateResolution(false, "")
	if !errors.Is(err, ErrReasonRequired) {
		t.Errorf("expected ErrReasonRequired, got %v", err)
	}
}

func TestApproveReasonIsOptional(t *testing.T) {
	if err := ValidateResolution(true, ""); err != nil {
		t.Errorf("approve without reason should pass, got %v", err)
	}
	if err := ValidateResolution(false, "too risky"); err != nil {
		t.Errorf("reject with reason should pass, got %v", err)
	}
}

func TestGetFindsPendingByCommandID(t *testing.T) {
	var approvals Approvals
	approvals.Replace([]api.PendingApproval{
		{ID: 11, UserName: "ada", AIRiskScore: 9},
		{ID: 12, UserName: "bob", AIRiskScore: 3},
	})

	approval, ok := approvals.Get(12)
	if !ok || approval.UserName != "bob" {
		t.Errorf("expected bob's approval, got %+v (ok=%v)", approval, ok)
	}
	if _, ok := approvals.Get(99); ok {
		t.Error("unknown command ID should not resolve")
	}
}

func TestRiskLevelBuckets(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{10, RiskHigh},
		{8, RiskHigh},
		{7.9, RiskMedium},
		{5, RiskMedium},
		{4.9, RiskLow},
		{0, RiskLow},
	}
	for _, c := range cases {
		if got := RiskLevel(c.score); got != c.want {
			t.Errorf("RiskLevel(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}
