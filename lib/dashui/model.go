// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gatewatch/gatewatch/lib/api"
	"github.com/gatewatch/gatewatch/lib/dashboard"
	"github.com/gatewatch/gatewatch/lib/push"
	"github.com/gatewatch/gatewatch/lib/session"
)

// FocusRegion identifies which element has keyboard focus.
type FocusRegion int

const (
	// FocusList means navigation keys move lists and switch tabs.
	FocusList FocusRegion = iota
	// FocusCommandInput means keystrokes go to the member command entry.
	FocusCommandInput
	// FocusFilterInput means keystrokes go to the history filter.
	FocusFilterInput
	// FocusPatternInput means keystrokes go to the rule pattern editor.
	FocusPatternInput
	// FocusReasonInput means keystrokes go to the approval reason
	// prompt. All other input is suspended until submit or cancel.
	FocusReasonInput
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

// ruleActions are the actions offered by the rule editor, cycled with
// the action key.
var ruleActions = []string{api.ActionAllow, api.ActionDeny, api.ActionRequireApproval}

// Config holds everything the dashboard model needs. Session, State and
// the push event stream are owned by the caller; the model only drives
// them.
type Config struct {
	Session *session.Manager
	Client  Client
	State   *dashboard.State
	// Events is the push channel's stream; nil disables live updates
	// (the channel failed to dial, which is a degraded but usable mode).
	Events <-chan push.Event
}

// Model is the dashboard's bubbletea model.
type Model struct {
	session *session.Manager
	client  Client
	state   *dashboard.State
	events  <-chan push.Event

	theme Theme
	keys  KeyMap

	width  int
	height int
	focus  FocusRegion

	// Member view.
	commandInput textinput.Model
	filterInput  textinput.Model
	filtered     []api.CommandRecord
	historyErr   string

	// Admin listings.
	rules    []api.Rule
	rulesErr string
	audit    []api.AuditEntry
	auditErr string

	analyticsErr string
	approvalsErr string

	// Rule editor. validationSeq / conflictSeq are the latest issued
	// request sequence numbers; responses carrying anything older are
	// discarded (fast typing can otherwise interleave responses).
	patternInput  textinput.Model
	actionIndex   int
	validation    *api.ValidationResult
	validationErr string
	validationSeq uint64
	conflicts     *dashboard.ConflictReport
	conflictErr   string
	conflictSeq   uint64

	// Approvals.
	approvalCursor int
	resolveTarget  int
	resolveApprove bool
	reasonInput    textinput.Model

	// Status bar.
	notice           string
	noticeLevel      noticeKind
	noticeGeneration int

	channelClosed bool
}

// NewModel creates the dashboard for the authenticated session.
func NewModel(config Config) Model {
	commandInput := textinput.New()
	commandInput.Placeholder = "enter a command"
	commandInput.CharLimit = 500

	filterInput := textinput.New()
	filterInput.Placeholder = "filter"

	patternInput := textinput.New()
	patternInput.Placeholder = "rule pattern (regex)"

	reasonInput := textinput.New()
	reasonInput.Placeholder = "reason"

	model := Model{
		session:      config.Session,
		client:       config.Client,
		state:        config.State,
		events:       config.Events,
		theme:        DefaultTheme,
		keys:         DefaultKeyMap,
		commandInput: commandInput,
		filterInput:  filterInput,
		patternInput: patternInput,
		reasonInput:  reasonInput,
	}

	if model.isMember() {
		model.focus = FocusCommandInput
		model.commandInput.Focus()
	}
	return model
}

func (m Model) isAdmin() bool {
	return m.session.Identity().IsAdmin()
}

func (m Model) isMember() bool {
	return !m.isAdmin()
}

// Init implements tea.Model: start listening for push events and load
// the role's initial snapshots.
func (m Model) Init() tea.Cmd {
	commands := []tea.Cmd{listenForEvent(m.events), textinput.Blink}

	if m.isAdmin() {
		// The admin lands on the rules tab; realtime counters load
		// alongside so the header stats are populated immediately.
		m.state.Router.Activate(dashboard.TabRules)
		commands = append(commands, m.loadRules(), m.loadAudit(), m.loadAnalytics())
	} else {
		commands = append(commands, m.loadHistory())
	}
	return tea.Batch(commands...)
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(message)

	case pushEventMsg:
		return m.handlePushEvent(message.event)

	case channelClosedMsg:
		m.channelClosed = true
		return m.withNotice(noticeError, "Live updates disconnected — log in again to resubscribe")

	case historyLoadedMsg:
		if message.err != nil {
			m.historyErr = "Failed to load command history"
			return m, nil
		}
		m.historyErr = ""
		m.state.History.SetRecords(message.records)
		m.filtered = m.state.History.Filter(m.filterInput.Value())
		return m, nil

	case rulesLoadedMsg:
		if message.err != nil {
			m.rulesErr = "Failed to load rules"
			m.rules = nil
			return m, nil
		}
		m.rulesErr = ""
		m.rules = message.rules
		return m, nil

	case auditLoadedMsg:
		if message.err != nil {
			m.auditErr = "Failed to load audit logs"
			m.audit = nil
			return m, nil
		}
		m.auditErr = ""
		m.audit = message.entries
		return m, nil

	case analyticsLoadedMsg:
		if message.err != nil {
			// Counters keep their in-memory values; with no snapshot
			// at all the aggregator reports the viewer as the sole
			// active user.
			m.analyticsErr = "Analytics unavailable"
			return m, nil
		}
		m.analyticsErr = ""
		m.state.Stats.ApplySnapshot(message.analytics)
		return m, nil

	case approvalsLoadedMsg:
		if message.err != nil {
			m.approvalsErr = "Failed to load pending approvals"
			return m, nil
		}
		m.approvalsErr = ""
		m.state.Approvals.Replace(message.approvals)
		if m.approvalCursor >= m.state.Approvals.Len() {
			m.approvalCursor = 0
		}
		return m, nil

	case submitResultMsg:
		return m.handleSubmitResult(message)

	case validationResultMsg:
		if message.seq != m.validationSeq {
			// A newer request is in flight; this response is stale.
			return m, nil
		}
		if message.err != nil {
			m.validation = nil
			m.validationErr = "Unable to validate pattern"
			return m, nil
		}
		m.validationErr = ""
		m.validation = message.result
		return m, nil

	case conflictResultMsg:
		if message.seq != m.conflictSeq {
			return m, nil
		}
		if message.err != nil {
			m.conflicts = nil
			m.conflictErr = "Failed to check conflicts"
			return m, nil
		}
		m.conflictErr = ""
		m.conflicts = message.report
		return m, nil

	case ruleCreatedMsg:
		if message.err != nil {
			return m.withNotice(noticeError, errorText(message.err, "Failed to create rule"))
		}
		m.patternInput.SetValue("")
		m.validation = nil
		m.validationErr = ""
		m.conflicts = nil
		m.conflictErr = ""
		model, noticeCmd := m.withNotice(noticeSuccess, "Rule created")
		return model, tea.Batch(noticeCmd, m.loadRules())

	case resolveResultMsg:
		if message.err != nil {
			// The item stays pending; the operator may retry.
			return m.withNotice(noticeError, errorText(message.err, "Failed to process approval"))
		}
		verb := "approved"
		if !message.approved {
			verb = "rejected"
		}
		model, noticeCmd := m.withNotice(noticeSuccess, fmt.Sprintf("Command %s", verb))
		return model, tea.Batch(noticeCmd, model.loadApprovals())

	case exportDoneMsg:
		if message.err != nil {
			return m.withNotice(noticeError, "Export failed")
		}
		return m.withNotice(noticeSuccess, "History exported to "+message.filename)

	case noticeFadeMsg:
		if message.generation == m.noticeGeneration {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

// handlePushEvent applies one push event and re-arms the listener. The
// closed event set has exactly one handler per kind; anything else was
// already dropped by the channel.
func (m Model) handlePushEvent(event push.Event) (tea.Model, tea.Cmd) {
	rearm := listenForEvent(m.events)

	switch event.Kind {
	case push.KindCommandExecuted:
		if m.isAdmin() {
			payload := event.CommandExecuted
			m.state.Feed.Push(dashboard.FeedEntry{
				Status:    payload.Status,
				UserName:  payload.UserName,
				Command:   payload.Command,
				Timestamp: payload.Timestamp,
			})
			m.state.Stats.ApplyExecution(payload.Status)
		}
		return m, rearm

	case push.KindCreditUpdate:
		// Server-confirmed balance; overwrite unconditionally.
		m.session.SetCredits(event.CreditUpdate.Credits)
		return m, rearm

	case push.KindApprovalUpdate:
		payload := event.ApprovalUpdate
		verb := "rejected"
		if payload.Approved {
			verb = "approved"
		}
		model, noticeCmd := m.withNotice(noticeInfo,
			fmt.Sprintf("Admin %s %s a command", payload.AdminName, verb))

		commands := []tea.Cmd{rearm, noticeCmd}
		if model.isAdmin() && model.state.Router.Active() == dashboard.TabApprovals {
			commands = append(commands, model.loadApprovals())
		}
		return model, tea.Batch(commands...)
	}

	return m, rearm
}

// handleSubmitResult processes the gateway's verdict on a submitted
// command. The credit balance is only ever advanced by the
// server-confirmed credits_remaining — never computed locally.
func (m Model) handleSubmitResult(message submitResultMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		return m.withNotice(noticeError, errorText(message.err, "Command submission failed"))
	}

	m.commandInput.SetValue("")

	result := message.result
	if result.CreditsRemaining != nil {
		m.session.SetCredits(*result.CreditsRemaining)
	}

	var level noticeKind
	var text string
	switch result.Status {
	case api.StatusExecuted:
		level, text = noticeSuccess, "Command accepted and executed"
	case api.StatusAccepted:
		level, text = noticeSuccess, "Command accepted"
	case api.StatusRejected:
		level, text = noticeError, "You don't have access to execute this command"
	case api.StatusPendingApproval:
		level, text = noticeInfo, "Command flagged by risk analysis — awaiting admin approval"
	default:
		level, text = noticeInfo, "Command "+result.Status
	}

	model, noticeCmd := m.withNotice(level, text)
	return model, tea.Batch(noticeCmd, model.loadHistory())
}

// handleKey routes keyboard input by focus region.
func (m Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The reason prompt is modal: nothing else sees input while it is
	// open.
	if m.focus == FocusReasonInput {
		return m.handleReasonKey(message)
	}

	switch m.focus {
	case FocusCommandInput:
		return m.handleCommandKey(message)
	case FocusFilterInput:
		return m.handleFilterKey(message)
	case FocusPatternInput:
		return m.handlePatternKey(message)
	}
	return m.handleListKey(message)
}

// handleListKey handles input when no text entry has focus.
func (m Model) handleListKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(message, m.keys.Refresh):
		return m, m.reloadActive()
	}

	if m.isMember() {
		switch {
		case key.Matches(message, m.keys.FocusCommand):
			m.focus = FocusCommandInput
			m.commandInput.Focus()
			return m, nil
		case key.Matches(message, m.keys.Filter):
			m.focus = FocusFilterInput
			m.filterInput.Focus()
			return m, nil
		case key.Matches(message, m.keys.Export):
			return m, m.exportHistory()
		}
		return m, nil
	}

	// Admin: tab switching always reloads the activated tab.
	switch {
	case key.Matches(message, m.keys.NextTab):
		return m, m.loadForTab(m.state.Router.Next())
	case key.Matches(message, m.keys.PrevTab):
		return m, m.loadForTab(m.state.Router.Prev())
	}

	switch m.state.Router.Active() {
	case dashboard.TabRules:
		if key.Matches(message, m.keys.NewRule) {
			m.focus = FocusPatternInput
			m.patternInput.Focus()
			return m, nil
		}

	case dashboard.TabApprovals:
		return m.handleApprovalsKey(message)
	}
	return m, nil
}

// handleApprovalsKey handles list navigation and resolution on the
// approvals tab.
func (m Model) handleApprovalsKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.state.Approvals.Len()

	switch {
	case key.Matches(message, m.keys.Up):
		if m.approvalCursor > 0 {
			m.approvalCursor--
		}
	case key.Matches(message, m.keys.Down):
		if m.approvalCursor < pending-1 {
			m.approvalCursor++
		}

	case key.Matches(message, m.keys.Approve), key.Matches(message, m.keys.Reject):
		if pending == 0 {
			return m, nil
		}
		target := m.state.Approvals.Pending()[m.approvalCursor]
		m.resolveTarget = target.ID
		m.resolveApprove = key.Matches(message, m.keys.Approve)
		m.reasonInput.SetValue("")
		if m.resolveApprove {
			m.reasonInput.Placeholder = "optional reason"
		} else {
			m.reasonInput.Placeholder = "reason (required)"
		}
		m.focus = FocusReasonInput
		m.reasonInput.Focus()
	}
	return m, nil
}

// handleReasonKey drives the approval reason prompt. A reject with an
// empty reason is refused here, before any network call.
func (m Model) handleReasonKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Cancel):
		m.focus = FocusList
		m.reasonInput.Blur()
		return m, nil

	case key.Matches(message, m.keys.Confirm):
		reason := m.reasonInput.Value()
		if err := dashboard.ValidateResolution(m.resolveApprove, reason); err != nil {
			model, noticeCmd := m.withNotice(noticeError, "Rejection reason is required")
			return model, noticeCmd
		}
		m.focus = FocusList
		m.reasonInput.Blur()
		return m, m.resolveApproval(m.resolveTarget, m.resolveApprove, reason)
	}

	var cmd tea.Cmd
	m.reasonInput, cmd = m.reasonInput.Update(message)
	return m, cmd
}

func (m Model) handleCommandKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Cancel):
		m.focus = FocusList
		m.commandInput.Blur()
		return m, nil

	case key.Matches(message, m.keys.Confirm):
		command := m.commandInput.Value()
		if command == "" {
			return m.withNotice(noticeError, "Please enter a command")
		}
		return m, m.submitCommand(command)

	case key.Matches(message, m.keys.Export):
		return m, m.exportHistory()
	}

	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(message)
	return m, cmd
}

func (m Model) handleFilterKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Cancel):
		m.filterInput.SetValue("")
		m.filtered = m.state.History.Filter("")
		m.focus = FocusList
		m.filterInput.Blur()
		return m, nil

	case key.Matches(message, m.keys.Confirm):
		m.focus = FocusList
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(message)
	// Filtering is a pure view over the cache, recomputed per keystroke.
	m.filtered = m.state.History.Filter(m.filterInput.Value())
	return m, cmd
}

// handlePatternKey drives the rule editor input. Every edit issues a
// fresh sequence-tagged validation; the conflict check is available for
// any non-empty pattern, valid or not.
func (m Model) handlePatternKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Cancel):
		m.focus = FocusList
		m.patternInput.Blur()
		return m, nil

	case key.Matches(message, m.keys.CycleAction):
		m.actionIndex = (m.actionIndex + 1) % len(ruleActions)
		return m, nil

	case key.Matches(message, m.keys.CheckConflicts):
		pattern := m.patternInput.Value()
		if pattern == "" {
			return m.withNotice(noticeError, "Please enter a pattern first")
		}
		m.conflictSeq++
		return m, m.checkConflicts(m.conflictSeq, pattern, m.currentAction())

	case key.Matches(message, m.keys.Confirm):
		if !m.canCreateRule() {
			return m, nil
		}
		return m, m.createRule(m.patternInput.Value(), m.currentAction())
	}

	before := m.patternInput.Value()
	var cmd tea.Cmd
	m.patternInput, cmd = m.patternInput.Update(message)
	pattern := m.patternInput.Value()
	if pattern == before {
		return m, cmd
	}

	if pattern == "" {
		// Clearing the pattern clears all dependent output; any
		// in-flight response is implicitly stale.
		m.validationSeq++
		m.validation = nil
		m.validationErr = ""
		m.conflicts = nil
		m.conflictErr = ""
		return m, cmd
	}

	m.validationSeq++
	return m, tea.Batch(cmd, m.validatePattern(m.validationSeq, pattern))
}

// canCreateRule reports whether rule creation is currently enabled:
// server-confirmed valid pattern only.
func (m Model) canCreateRule() bool {
	return m.patternInput.Value() != "" && m.validation != nil && m.validation.Valid
}

func (m Model) currentAction() string {
	return ruleActions[m.actionIndex]
}

// reloadActive refreshes whatever the current view shows.
func (m Model) reloadActive() tea.Cmd {
	if m.isMember() {
		return m.loadHistory()
	}
	return m.loadForTab(m.state.Router.Active())
}

// loadForTab returns the unconditional load command for a freshly
// activated tab — activation always refreshes.
func (m Model) loadForTab(tab dashboard.Tab) tea.Cmd {
	switch tab {
	case dashboard.TabRules:
		return m.loadRules()
	case dashboard.TabAudit:
		return m.loadAudit()
	case dashboard.TabRealtime:
		return m.loadAnalytics()
	case dashboard.TabApprovals:
		return m.loadApprovals()
	}
	return nil
}

// withNotice sets the status-bar notice and schedules its fade.
func (m Model) withNotice(level noticeKind, text string) (Model, tea.Cmd) {
	m.noticeLevel = level
	m.notice = text
	m.noticeGeneration++
	return m, scheduleNoticeFade(m.noticeGeneration)
}

// errorText prefers the server's message for gateway errors and falls
// back to a generic line for transport failures.
func errorText(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
