// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gatewatch/gatewatch/lib/api"
	"github.com/gatewatch/gatewatch/lib/dashboard"
)

// Fixed column widths for history rows. The command column fills the
// remaining space.
const (
	columnWidthTime    = 21 // "2026-08-28 10:42:07  "
	columnWidthStatus  = 18 // longest status is PENDING_APPROVAL
	columnWidthCredits = 8
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderTopBar())

	if m.isAdmin() {
		sections = append(sections, m.renderAdminView())
	} else {
		sections = append(sections, m.renderMemberView())
	}

	separator := lipgloss.NewStyle().
		Foreground(m.theme.BorderColor).
		Render(strings.Repeat("─", m.width))
	sections = append(sections, separator)
	sections = append(sections, m.renderBottomBar())

	return strings.Join(sections, "\n")
}

// renderTopBar shows the product name, who is logged in, the live
// credit balance, and whether the push channel is still delivering.
func (m Model) renderTopBar() string {
	identity := m.session.Identity()

	titleStyle := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true)
	faintStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	textStyle := lipgloss.NewStyle().Foreground(m.theme.NormalText)

	live := lipgloss.NewStyle().
		Foreground(m.theme.StatusExecuted).
		Render("● live")
	if m.channelClosed || m.events == nil {
		live = faintStyle.Render("○ offline")
	}

	bar := " " + titleStyle.Render("Gatewatch") +
		faintStyle.Render("  │  ") +
		textStyle.Render(fmt.Sprintf("%s (%s)", identity.Name, identity.Role)) +
		faintStyle.Render("  │  ") +
		textStyle.Render(fmt.Sprintf("Credits: %d", identity.Credits)) +
		faintStyle.Render("  │  ") +
		live

	return lipgloss.NewStyle().Width(m.width).MaxWidth(m.width).Render(bar)
}

// renderBottomBar shows the transient notice when one is active and the
// context-sensitive key help otherwise.
func (m Model) renderBottomBar() string {
	if m.notice != "" {
		color := m.theme.NoticeInfo
		switch m.noticeLevel {
		case noticeSuccess:
			color = m.theme.NoticeSuccess
		case noticeError:
			color = m.theme.NoticeError
		}
		return lipgloss.NewStyle().
			Foreground(color).
			Width(m.width).
			MaxWidth(m.width).
			Render(" " + m.notice)
	}

	return lipgloss.NewStyle().
		Foreground(m.theme.HelpText).
		Width(m.width).
		MaxWidth(m.width).
		Render(" " + m.helpLine())
}

// helpLine returns the key hints for the current focus and view.
func (m Model) helpLine() string {
	switch m.focus {
	case FocusCommandInput:
		return "enter submit · esc done · ctrl+e export"
	case FocusFilterInput:
		return "enter apply · esc clear"
	case FocusPatternInput:
		return "enter create · ctrl+a action · ctrl+k conflicts · esc cancel"
	case FocusReasonInput:
		return "enter confirm · esc cancel"
	}

	if m.isMember() {
		return "i command · / filter · ctrl+e export · ctrl+r refresh · q quit"
	}

	switch m.state.Router.Active() {
	case dashboard.TabRules:
		return "tab switch · n new rule · ctrl+r refresh · q quit"
	case dashboard.TabApprovals:
		return "tab switch · j/k move · a approve · r reject · ctrl+r refresh · q quit"
	}
	return "tab/shift+tab switch · ctrl+r refresh · q quit"
}

// renderMemberView lays out the command entry box above the filtered
// history listing.
func (m Model) renderMemberView() string {
	var sections []string

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderColor).
		Width(m.width - 4).
		Padding(0, 1)
	if m.focus == FocusCommandInput {
		inputStyle = inputStyle.BorderForeground(m.theme.HeaderForeground)
	}
	sections = append(sections, inputStyle.Render(m.commandInput.View()))

	sections = append(sections, m.renderHistoryHeader())
	sections = append(sections, m.renderHistoryRows())

	return strings.Join(sections, "\n")
}

// renderHistoryHeader shows the section title, the filter state, and
// the visible/total count.
func (m Model) renderHistoryHeader() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true)
	faintStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	header := " " + headerStyle.Render("Command History") +
		faintStyle.Render(fmt.Sprintf("  %d/%d", len(m.filtered), m.state.History.Len()))

	if m.focus == FocusFilterInput || m.filterInput.Value() != "" {
		header += "  " + faintStyle.Render("filter: ") + m.filterInput.View()
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(header)
}

func (m Model) renderHistoryRows() string {
	if m.historyErr != "" {
		return lipgloss.NewStyle().
			Foreground(m.theme.NoticeError).
			Render(" " + m.historyErr)
	}
	if len(m.filtered) == 0 {
		text := " No commands yet"
		if m.filterInput.Value() != "" {
			text = " No commands match the filter"
		}
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(text)
	}

	visible := m.contentHeight() - 5 // input box (3) + history header + slack
	if visible < 1 {
		visible = 1
	}

	var rows []string
	for index, record := range m.filtered {
		if index >= visible {
			break
		}
		rows = append(rows, m.renderHistoryRow(record))
	}
	return strings.Join(rows, "\n")
}

// renderHistoryRow renders one history record: timestamp, colored
// status, command text (truncated to fit), credits spent.
func (m Model) renderHistoryRow(record api.CommandRecord) string {
	timeStyle := lipgloss.NewStyle().
		Width(columnWidthTime).
		Foreground(m.theme.FaintText)
	statusStyle := lipgloss.NewStyle().
		Width(columnWidthStatus).
		Foreground(m.theme.statusColor(record.Status))
	commandStyle := lipgloss.NewStyle().Foreground(m.theme.NormalText)
	creditsStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	commandWidth := m.width - columnWidthTime - columnWidthStatus - columnWidthCredits - 2
	if commandWidth < 10 {
		commandWidth = 10
	}

	credits := ""
	if record.CreditsDeducted > 0 {
		credits = fmt.Sprintf("-%d", record.CreditsDeducted)
	}

	row := " " +
		timeStyle.Render(displayTime(record.CreatedAt)) +
		statusStyle.Render(record.Status) +
		commandStyle.Render(ansi.Truncate(record.CommandText, commandWidth, "…")) +
		" " + creditsStyle.Render(credits)

	return lipgloss.NewStyle().MaxWidth(m.width).Render(row)
}

// contentHeight is the rows available between the top bar and the
// bottom separator + help bar.
func (m Model) contentHeight() int {
	height := m.height - 3
	if height < 0 {
		return 0
	}
	return height
}

// displayTime compacts a server timestamp for row display. Server
// timestamps are already formatted strings; only the "T" separator is
// softened.
func displayTime(createdAt string) string {
	trimmed := strings.TrimSuffix(createdAt, "Z")
	return strings.Replace(trimmed, "T", " ", 1)
}
