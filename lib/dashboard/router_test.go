// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import "testing"

func TestActivateAlwaysSignalsReload(t *testing.T) {
	var router Router

	if load := router.Activate(TabAudit); load != TabAudit {
		t.Errorf("expected load directive for Audit, got %v", load)
	}
	// Re-activating the same tab still refreshes; there is no
	// cached-activation fast path.
	if load := router.Activate(TabAudit); load != TabAudit {
		t.Errorf("re-activation should still reload, got %v", load)
	}
}

func TestExactlyOneActiveTab(t *testing.T) {
	var router Router
	router.Activate(TabRealtime)
	router.Activate(TabApprovals)

	if router.Active() != TabApprovals {
		t.Errorf("expected Approvals active, got %v", router.Active())
	}
}

func TestNextPrevCycleThroughAdminTabs(t *testing.T) {
	var router Router // starts at TabRules

	seen := map[Tab]bool{router.Active(): true}
	for i := 0; i < len(AdminTabs)-1; i++ {
		seen[router.Next()] = true
	}
	if len(seen) != len(AdminTabs) {
		t.Errorf("Next should visit every tab once per cycle, saw %v", seen)
	}
	if router.Next() != TabRules {
		t.Error("cycling past the last tab should wrap to the first")
	}

	if router.Prev() != TabApprovals {
		t.Error("Prev from the first tab should wrap to the last")
	}
}
