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

// renderAdminView lays out the tab bar above the active tab's content.
func (m Model) renderAdminView() string {
	return m.renderTabBar() + "\n" + m.renderActiveTab()
}

func (m Model) renderActiveTab() string {
	switch m.state.Router.Active() {
	case dashboard.TabRules:
		return m.renderRulesTab()
	case dashboard.TabAudit:
		return m.renderAuditTab()
	case dashboard.TabRealtime:
		return m.renderRealtimeTab()
	case dashboard.TabApprovals:
		return m.renderApprovalsTab()
	}
	return ""
}

// renderTabBar renders the four admin tabs with the active one
// highlighted. The approvals tab carries its pending count so the badge
// is visible from any tab.
func (m Model) renderTabBar() string {
	activeStyle := lipgloss.NewStyle().
		Background(m.theme.ActiveTabBackground).
		Foreground(m.theme.SelectedForeground).
		Bold(true).
		Padding(0, 2)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(m.theme.FaintText).
		Padding(0, 2)

	var tabs []string
	for _, tab := range dashboard.AdminTabs {
		label := tab.String()
		if tab == dashboard.TabApprovals && m.state.Approvals.Len() > 0 {
			label = fmt.Sprintf("%s (%d)", label, m.state.Approvals.Len())
		}
		if tab == m.state.Router.Active() {
			tabs = append(tabs, activeStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveStyle.Render(label))
		}
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return lipgloss.NewStyle().Width(m.width).MaxWidth(m.width).Render(bar)
}

// renderRulesTab shows the rule listing with the editor beneath it.
func (m Model) renderRulesTab() string {
	var sections []string

	if m.rulesErr != "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(m.theme.NoticeError).
			Render(" "+m.rulesErr))
	} else if len(m.rules) == 0 {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(m.theme.FaintText).
			Render(" No rules configured"))
	} else {
		for _, rule := range m.rules {
			sections = append(sections, m.renderRuleRow(rule))
		}
	}

	sections = append(sections, "")
	sections = append(sections, m.renderRuleEditor())

	return strings.Join(sections, "\n")
}

func (m Model) renderRuleRow(rule api.Rule) string {
	faintStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	actionStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(m.actionColor(rule.Action))
	patternStyle := lipgloss.NewStyle().Foreground(m.theme.NormalText)

	patternWidth := m.width - 6 - 18 - 2
	if patternWidth < 10 {
		patternWidth = 10
	}

	row := " " +
		faintStyle.Render(fmt.Sprintf("#%-4d", rule.ID)) +
		actionStyle.Render(rule.Action) +
		patternStyle.Render(ansi.Truncate(rule.Pattern, patternWidth, "…"))

	return lipgloss.NewStyle().MaxWidth(m.width).Render(row)
}

func (m Model) actionColor(action string) lipgloss.Color {
	switch action {
	case api.ActionAllow:
		return m.theme.StatusExecuted
	case api.ActionDeny:
		return m.theme.StatusRejected
	case api.ActionRequireApproval:
		return m.theme.StatusPending
	}
	return m.theme.NormalText
}

// renderRuleEditor shows the pattern input, the selected action, the
// live validation verdict, and the latest conflict report.
func (m Model) renderRuleEditor() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true)
	faintStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	var sections []string
	sections = append(sections, " "+headerStyle.Render("New Rule"))

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderColor).
		Width(m.width - 4).
		Padding(0, 1)
	if m.focus == FocusPatternInput {
		inputStyle = inputStyle.BorderForeground(m.theme.HeaderForeground)
	}
	sections = append(sections, inputStyle.Render(m.patternInput.View()))

	actionLine := " " + faintStyle.Render("action: ") +
		lipgloss.NewStyle().
			Foreground(m.actionColor(m.currentAction())).
			Bold(true).
			Render(m.currentAction())
	if !m.canCreateRule() {
		actionLine += faintStyle.Render("   (create disabled until the pattern validates)")
	}
	sections = append(sections, actionLine)

	if line := m.renderValidation(); line != "" {
		sections = append(sections, line)
	}
	if report := m.renderConflictReport(); report != "" {
		sections = append(sections, report)
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderValidation() string {
	if m.validationErr != "" {
		return lipgloss.NewStyle().
			Foreground(m.theme.NoticeError).
			Render(" " + m.validationErr)
	}
	if m.validation == nil {
		return ""
	}

	if m.validation.Valid {
		return lipgloss.NewStyle().
			Foreground(m.theme.StatusExecuted).
			Render(" ✓ pattern is valid")
	}

	lines := []string{
		lipgloss.NewStyle().
			Foreground(m.theme.StatusRejected).
			Render(" ✗ " + m.validation.Error),
	}
	suggestionStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	for _, suggestion := range m.validation.Suggestions {
		lines = append(lines, suggestionStyle.Render("   · "+suggestion))
	}
	return strings.Join(lines, "\n")
}

// renderConflictReport renders the grouped conflict tiers in severity
// order, then the warnings and suggestions.
func (m Model) renderConflictReport() string {
	if m.conflictErr != "" {
		return lipgloss.NewStyle().
			Foreground(m.theme.NoticeError).
			Render(" " + m.conflictErr)
	}
	if m.conflicts == nil {
		return ""
	}
	if !m.conflicts.HasConflicts {
		return lipgloss.NewStyle().
			Foreground(m.theme.StatusExecuted).
			Render(" No conflicts with existing rules")
	}

	faintStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	var lines []string
	for _, tier := range m.conflicts.Tiers {
		tierStyle := lipgloss.NewStyle().
			Foreground(m.theme.severityColor(tier.Severity)).
			Bold(true)
		lines = append(lines, " "+tierStyle.Render(
			fmt.Sprintf("%s (%d)", tier.Severity, len(tier.Conflicts))))

		for _, conflict := range tier.Conflicts {
			lines = append(lines, "   "+lipgloss.NewStyle().
				Foreground(m.theme.NormalText).
				Render(conflict.Description))
			lines = append(lines, faintStyle.Render(fmt.Sprintf(
				"     rule #%d  %s → %s",
				conflict.RuleID, conflict.ExistingPattern, conflict.ExistingAction)))
			for _, example := range conflict.Examples {
				lines = append(lines, faintStyle.Render("     e.g. "+example))
			}
		}
	}
	for _, warning := range m.conflicts.Warnings {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(m.theme.StatusPending).
			Render(" ⚠ "+warning))
	}
	for _, suggestion := range m.conflicts.Suggestions {
		lines = append(lines, faintStyle.Render(" · "+suggestion))
	}
	return strings.Join(lines, "\n")
}

// renderAuditTab lists the audit trail newest-first as returned by the
// server.
func (m Model) renderAuditTab() string {
	if m.auditErr != "" {
		return lipgloss.NewStyle().
			Foreground(m.theme.NoticeError).
			Render(" " + m.auditErr)
	}
	if len(m.audit) == 0 {
		return lipgloss.NewStyle().
			Foreground(m.theme.FaintText).
			Render(" No audit entries")
	}

	timeStyle := lipgloss.NewStyle().
		Width(columnWidthTime).
		Foreground(m.theme.FaintText)
	actionStyle := lipgloss.NewStyle().
		Width(24).
		Foreground(m.theme.HeaderForeground)
	textStyle := lipgloss.NewStyle().Foreground(m.theme.NormalText)

	detailWidth := m.width - columnWidthTime - 24 - 2
	if detailWidth < 10 {
		detailWidth = 10
	}

	var rows []string
	for index, entry := range m.audit {
		if index >= m.contentHeight()-1 {
			break
		}
		detail := entry.Details
		if entry.UserName != "" {
			detail = entry.UserName + ": " + detail
		}
		row := " " +
			timeStyle.Render(displayTime(entry.Timestamp)) +
			actionStyle.Render(entry.Action) +
			textStyle.Render(ansi.Truncate(detail, detailWidth, "…"))
		rows = append(rows, lipgloss.NewStyle().MaxWidth(m.width).Render(row))
	}
	return strings.Join(rows, "\n")
}

// renderRealtimeTab shows the counter row, the live execution feed, and
// the analytics summary.
func (m Model) renderRealtimeTab() string {
	var sections []string

	sections = append(sections, m.renderCounters())
	sections = append(sections, "")
	sections = append(sections, m.renderFeed())

	if summary, ok := m.state.Stats.Summary(); ok {
		sections = append(sections, "")
		sections = append(sections, m.renderSummary(summary))
	} else if m.analyticsErr != "" {
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(m.theme.NoticeError).
			Render(" "+m.analyticsErr))
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderCounters() string {
	counterStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderColor).
		Padding(0, 2).
		Align(lipgloss.Center)
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	valueStyle := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true)

	counter := func(label string, value int) string {
		return counterStyle.Render(
			valueStyle.Render(fmt.Sprintf("%d", value)) + "\n" + labelStyle.Render(label))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		counter("commands today", m.state.Stats.CommandsToday()),
		counter("blocked", m.state.Stats.BlockedCommands()),
		counter("active users", m.state.Stats.ActiveUsers()),
	)
}

// renderFeed shows the most recent executions, newest first.
func (m Model) renderFeed() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true)

	lines := []string{" " + headerStyle.Render("Live Feed")}

	entries := m.state.Feed.Entries()
	if len(entries) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(m.theme.FaintText).
			Render(" Waiting for activity…"))
		return strings.Join(lines, "\n")
	}

	userStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(m.theme.NormalText)
	faintStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	commandWidth := m.width - 16 - columnWidthStatus - columnWidthTime - 2
	if commandWidth < 10 {
		commandWidth = 10
	}

	for _, entry := range entries {
		statusStyle := lipgloss.NewStyle().
			Width(columnWidthStatus).
			Foreground(m.theme.statusColor(entry.Status))
		line := " " +
			statusStyle.Render(entry.Status) +
			userStyle.Render(ansi.Truncate(entry.UserName, 15, "…")) +
			lipgloss.NewStyle().Foreground(m.theme.NormalText).
				Render(ansi.Truncate(entry.Command, commandWidth, "…")) +
			" " + faintStyle.Render(entry.Timestamp)
		lines = append(lines, lipgloss.NewStyle().MaxWidth(m.width).Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSummary(summary dashboard.Summary) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true)
	faintStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	textStyle := lipgloss.NewStyle().Foreground(m.theme.NormalText)

	lines := []string{
		" " + headerStyle.Render("Today"),
		" " + textStyle.Render(fmt.Sprintf(
			"%d commands · %d%% success · %d credits used",
			summary.TotalCommands, summary.SuccessRate, summary.CreditsUsed)),
	}

	if len(summary.TopCommands) > 0 {
		lines = append(lines, " "+faintStyle.Render("top commands:"))
		for rank, top := range summary.TopCommands {
			lines = append(lines, faintStyle.Render(fmt.Sprintf(
				"   %d. %s (%d)", rank+1,
				ansi.Truncate(top.CommandText, m.width-16, "…"), top.Count)))
		}
	}
	return strings.Join(lines, "\n")
}

// renderApprovalsTab lists the pending queue with the cursor row
// highlighted; the reason prompt appears beneath when a resolution is
// in progress.
func (m Model) renderApprovalsTab() string {
	if m.approvalsErr != "" {
		return lipgloss.NewStyle().
			Foreground(m.theme.NoticeError).
			Render(" " + m.approvalsErr)
	}

	pending := m.state.Approvals.Pending()
	if len(pending) == 0 {
		return lipgloss.NewStyle().
			Foreground(m.theme.FaintText).
			Render(" No commands awaiting approval")
	}

	var sections []string
	for index, approval := range pending {
		sections = append(sections, m.renderApprovalRow(approval, index == m.approvalCursor))
	}

	if m.focus == FocusReasonInput {
		sections = append(sections, "")
		sections = append(sections, m.renderReasonPrompt())
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderApprovalRow(approval api.PendingApproval, selected bool) string {
	riskColor := m.theme.SeverityLow
	switch dashboard.RiskLevel(approval.AIRiskScore) {
	case dashboard.RiskHigh:
		riskColor = m.theme.SeverityHigh
	case dashboard.RiskMedium:
		riskColor = m.theme.SeverityMedium
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	baseStyle := lipgloss.NewStyle().Foreground(m.theme.NormalText)
	faintStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	if selected {
		baseStyle = baseStyle.Bold(true)
	}

	commandWidth := m.width - 30
	if commandWidth < 10 {
		commandWidth = 10
	}

	header := cursor +
		lipgloss.NewStyle().Foreground(riskColor).Bold(true).
			Render(fmt.Sprintf("[risk %.1f]", approval.AIRiskScore)) +
		" " + baseStyle.Render(ansi.Truncate(approval.CommandText, commandWidth, "…"))

	detail := "    " + faintStyle.Render(fmt.Sprintf(
		"%s · %s · approvals %d/%d",
		approval.UserName,
		displayTime(approval.CreatedAt),
		approval.ApprovalCount, approval.RequiredApprovals))

	lines := []string{
		lipgloss.NewStyle().MaxWidth(m.width).Render(header),
		lipgloss.NewStyle().MaxWidth(m.width).Render(detail),
	}
	if selected && approval.AIAnalysis != "" {
		lines = append(lines, lipgloss.NewStyle().MaxWidth(m.width).Render(
			"    "+faintStyle.Render(ansi.Truncate(approval.AIAnalysis, m.width-6, "…"))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderReasonPrompt() string {
	verb := "Reject"
	if m.resolveApprove {
		verb = "Approve"
	}
	label := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true).
		Render(fmt.Sprintf(" %s command #%d", verb, m.resolveTarget))

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.HeaderForeground).
		Width(m.width - 4).
		Padding(0, 1)

	return label + "\n" + inputStyle.Render(m.reasonInput.View())
}
