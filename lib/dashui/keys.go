// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the dashboard.
type KeyMap struct {
	// Navigation within lists (history, approvals).
	Up   key.Binding
	Down key.Binding

	// Tab switching (admin view).
	NextTab key.Binding
	PrevTab key.Binding

	// Member view.
	FocusCommand key.Binding // Focus the command input.
	Filter       key.Binding // Focus the history filter.
	Export       key.Binding // Export history to CSV.

	// Rules tab.
	NewRule        key.Binding // Focus the pattern input.
	CycleAction    key.Binding // Cycle ALLOW / DENY / REQUIRE_APPROVAL.
	CheckConflicts key.Binding // Run the conflict check.

	// Approvals tab.
	Approve key.Binding
	Reject  key.Binding

	Refresh key.Binding // Reload the active section.
	Cancel  key.Binding // Leave the focused input / dismiss a prompt.
	Confirm key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab", "right"),
		key.WithHelp("tab", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab", "left"),
		key.WithHelp("shift+tab", "previous tab"),
	),
	FocusCommand: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "type a command"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter history"),
	),
	Export: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "export history"),
	),
	NewRule: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new rule"),
	),
	CycleAction: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "cycle action"),
	),
	CheckConflicts: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "check conflicts"),
	),
	Approve: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "approve"),
	),
	Reject: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reject"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "refresh"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}
