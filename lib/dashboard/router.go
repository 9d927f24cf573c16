// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

// Tab identifies one admin dashboard section.
type Tab int

const (
	// TabRules is the rule listing and editor.
	TabRules Tab = iota
	// TabAudit is the audit trail.
	TabAudit
	// TabRealtime is live activity plus the analytics snapshot.
	TabRealtime
	// TabApprovals is the pending-approval queue.
	TabApprovals
)

// AdminTabs lists the admin tabs in display order.
var AdminTabs = []Tab{TabRules, TabAudit, TabRealtime, TabApprovals}

// String returns the tab's display label.
func (t Tab) String() string {
	switch t {
	case TabRules:
		return "Rules"
	case TabAudit:
		return "Audit"
	case TabRealtime:
		return "Realtime"
	case TabApprovals:
		return "Approvals"
	}
	return "Unknown"
}

// Router is the tab state machine: exactly one tab active at a time,
// and every activation triggers that tab's data load — activation never
// serves cached data, which keeps admin views from going stale.
type Router struct {
	active Tab
}

// Active returns the currently active tab.
func (r *Router) Active() Tab {
	return r.active
}

// Activate switches to the given tab and reports that its data must be
// (re)loaded. The load directive is unconditional: re-activating the
// already-active tab still refreshes.
func (r *Router) Activate(tab Tab) (load Tab) {
	r.active = tab
	return tab
}

// Next cycles forward through the admin tabs.
func (r *Router) Next() Tab {
	return r.Activate(AdminTabs[(int(r.active)+1)%len(AdminTabs)])
}

// Prev cycles backward through the admin tabs.
func (r *Router) Prev() Tab {
	return r.Activate(AdminTabs[(int(r.active)+len(AdminTabs)-1)%len(AdminTabs)])
}
