// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gatewatch/gatewatch/lib/dashboard"
	"github.com/gatewatch/gatewatch/lib/push"
)

// noticeFadeDelay is how long a status-bar notice stays visible.
const noticeFadeDelay = 3 * time.Second

// listenForEvent returns a command that blocks until the next push
// event arrives, then delivers it. The Update handler re-arms it after
// every delivery, which preserves arrival order: at most one event is
// in flight through the message loop at a time.
func listenForEvent(events <-chan push.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return channelClosedMsg{}
		}
		return pushEventMsg{event: event}
	}
}

func (m Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		records, err := m.client.ListCommands(context.Background())
		return historyLoadedMsg{records: records, err: err}
	}
}

func (m Model) loadRules() tea.Cmd {
	return func() tea.Msg {
		rules, err := m.client.ListRules(context.Background())
		return rulesLoadedMsg{rules: rules, err: err}
	}
}

func (m Model) loadAudit() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.client.ListAuditLogs(context.Background())
		return auditLoadedMsg{entries: entries, err: err}
	}
}

func (m Model) loadAnalytics() tea.Cmd {
	return func() tea.Msg {
		analytics, err := m.client.FetchAnalytics(context.Background())
		return analyticsLoadedMsg{analytics: analytics, err: err}
	}
}

func (m Model) loadApprovals() tea.Cmd {
	return func() tea.Msg {
		approvals, err := m.client.ListPendingApprovals(context.Background())
		return approvalsLoadedMsg{approvals: approvals, err: err}
	}
}

func (m Model) submitCommand(command string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.SubmitCommand(context.Background(), command)
		return submitResultMsg{result: result, err: err}
	}
}

// validatePattern issues a sequence-tagged validation request. The
// caller records seq as the latest issued before dispatching.
func (m Model) validatePattern(seq uint64, pattern string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.ValidatePattern(context.Background(), pattern)
		return validationResultMsg{seq: seq, result: result, err: err}
	}
}

func (m Model) checkConflicts(seq uint64, pattern, action string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.CheckConflicts(context.Background(), pattern, action)
		if err != nil {
			return conflictResultMsg{seq: seq, err: err}
		}
		return conflictResultMsg{seq: seq, report: dashboard.BuildConflictReport(result)}
	}
}

func (m Model) createRule(pattern, action string) tea.Cmd {
	return func() tea.Msg {
		rule, err := m.client.CreateRule(context.Background(), pattern, action)
		return ruleCreatedMsg{rule: rule, err: err}
	}
}

func (m Model) resolveApproval(commandID int, approved bool, reason string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.client.ResolveApproval(context.Background(), commandID, approved, reason)
		return resolveResultMsg{commandID: commandID, approved: approved, err: err}
	}
}

// exportHistory writes the full cached history to a date-stamped CSV in
// the working directory. The rows are snapshotted here, on the update
// loop, before the command goroutine starts: a history reload landing
// mid-export replaces the store's slice, and the writer must never
// share that slice with the update loop.
func (m Model) exportHistory() tea.Cmd {
	records := m.state.History.Records()
	return func() tea.Msg {
		filename := dashboard.ExportFilename(time.Now())
		file, err := os.Create(filename)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		defer file.Close()

		if err := dashboard.WriteCSV(file, records); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{filename: filename}
	}
}

// scheduleNoticeFade clears the notice after the display window unless
// a newer notice superseded it.
func scheduleNoticeFade(generation int) tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{generation: generation}
	})
}
