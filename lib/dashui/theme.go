// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import "github.com/charmbracelet/lipgloss"

// Theme defines the dashboard's color palette. ANSI 256-color codes
// for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Command status colors.
	StatusExecuted lipgloss.Color
	StatusRejected lipgloss.Color
	StatusPending  lipgloss.Color
	StatusAccepted lipgloss.Color

	// Conflict severity colors.
	SeverityHigh   lipgloss.Color
	SeverityMedium lipgloss.Color
	SeverityLow    lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Active tab and selected row.
	ActiveTabBackground lipgloss.Color
	SelectedBackground  lipgloss.Color
	SelectedForeground  lipgloss.Color

	// Status-bar notice categories.
	NoticeInfo    lipgloss.Color
	NoticeSuccess lipgloss.Color
	NoticeError   lipgloss.Color
}

// DefaultTheme is the standard palette.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("243"),

	StatusExecuted: lipgloss.Color("35"),
	StatusRejected: lipgloss.Color("160"),
	StatusPending:  lipgloss.Color("214"),
	StatusAccepted: lipgloss.Color("71"),

	SeverityHigh:   lipgloss.Color("196"),
	SeverityMedium: lipgloss.Color("214"),
	SeverityLow:    lipgloss.Color("109"),

	HeaderForeground: lipgloss.Color("81"),
	BorderColor:      lipgloss.Color("238"),
	HelpText:         lipgloss.Color("241"),

	ActiveTabBackground: lipgloss.Color("25"),
	SelectedBackground:  lipgloss.Color("237"),
	SelectedForeground:  lipgloss.Color("255"),

	NoticeInfo:    lipgloss.Color("75"),
	NoticeSuccess: lipgloss.Color("35"),
	NoticeError:   lipgloss.Color("160"),
}

// statusColor maps a command status onto the theme.
func (theme Theme) statusColor(status string) lipgloss.Color {
	switch status {
	case "EXECUTED":
		return theme.StatusExecuted
	case "REJECTED":
		return theme.StatusRejected
	case "PENDING_APPROVAL":
		return theme.StatusPending
	case "ACCEPTED":
		return theme.StatusAccepted
	}
	return theme.NormalText
}

// severityColor maps a conflict severity onto the theme.
func (theme Theme) severityColor(severity string) lipgloss.Color {
	switch severity {
	case "HIGH":
		return theme.SeverityHigh
	case "MEDIUM":
		return theme.SeverityMedium
	case "LOW":
		return theme.SeverityLow
	}
	return theme.NormalText
}
