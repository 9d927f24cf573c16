// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gatewatch/gatewatch/lib/api"
	"github.com/gatewatch/gatewatch/lib/dashboard"
	"github.com/gatewatch/gatewatch/lib/push"
	"github.com/gatewatch/gatewatch/lib/session"
)

// fakeClient counts calls and returns canned data. The approvalsSignal
// channel (when set) fires on every ListPendingApprovals so tests can
// observe asynchronous loads.
type fakeClient struct {
	mu sync.Mutex

	rulesCalls     int
	auditCalls     int
	analyticsCalls int
	approvalsCalls int
	resolveCalls   int
	historyCalls   int

	pending         []api.PendingApproval
	records         []api.CommandRecord
	approvalsSignal chan struct{}

	lastResolveID       int
	lastResolveApproved bool
	lastResolveReason   string
}

func (f *fakeClient) SubmitCommand(ctx context.Context, command string) (*api.SubmitResult, error) {
	return &api.SubmitResult{Status: api.StatusExecuted}, nil
}

func (f *fakeClient) ListCommands(ctx context.Context) ([]api.CommandRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	return f.records, nil
}

func (f *fakeClient) ListRules(ctx context.Context) ([]api.Rule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rulesCalls++
	return nil, nil
}

func (f *fakeClient) CreateRule(ctx context.Context, pattern, action string) (*api.Rule, error) {
	return &api.Rule{ID: 1, Pattern: pattern, Action: action}, nil
}

func (f *fakeClient) ValidatePattern(ctx context.Context, pattern string) (*api.ValidationResult, error) {
	return &api.ValidationResult{Valid: true}, nil
}

func (f *fakeClient) CheckConflicts(ctx context.Context, pattern, action string) (*api.ConflictResult, error) {
	return &api.ConflictResult{}, nil
}

func (f *fakeClient) ListPendingApprovals(ctx context.Context) ([]api.PendingApproval, error) {
	f.mu.Lock()
	f.approvalsCalls++
	signal := f.approvalsSignal
	f.mu.Unlock()
	if signal != nil {
		signal <- struct{}{}
	}
	return f.pending, nil
}

func (f *fakeClient) ResolveApproval(ctx context.Context, commandID int, approved bool, reason string) (*api.ResolveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolveCalls++
	f.lastResolveID = commandID
	f.lastResolveApproved = approved
	f.lastResolveReason = reason
	return &api.ResolveResult{Status: "resolved"}, nil
}

func (f *fakeClient) ListAuditLogs(ctx context.Context) ([]api.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auditCalls++
	return nil, nil
}

func (f *fakeClient) FetchAnalytics(ctx context.Context) (*api.Analytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyticsCalls++
	return &api.Analytics{}, nil
}

func newTestModel(t *testing.T, role string, credits int, client Client) Model {
	t.Helper()

	store, err := session.NewStore(filepath.Join(t.TempDir(), "credential.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	manager, err := session.NewManager(session.ManagerConfig{
		Store: store,
		Verify: func(ctx context.Context, apiKey string) (*api.User, error) {
			return &api.User{ID: 1, Name: "ops", Role: role, Credits: credits}, nil
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := manager.Authenticate(context.Background(), "test-key"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	model := NewModel(Config{
		Session: manager,
		Client:  client,
		State:   dashboard.NewState(),
	})
	model.width = 100
	model.height = 40
	return model
}

func update(t *testing.T, model Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := model.Update(message)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return next, cmd
}

func keyMsg(text string) tea.KeyMsg {
	switch text {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func typeText(t *testing.T, model Model, text string) Model {
	t.Helper()
	for _, r := range text {
		model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return model
}

func TestStaleValidationResponseDiscarded(t *testing.T) {
	model := newTestModel(t, api.RoleAdmin, 100, &fakeClient{})
	model.validationSeq = 2

	// The response to request 1 arrives after request 2 was issued.
	model, _ = update(t, model, validationResultMsg{
		seq:    1,
		result: &api.ValidationResult{Valid: false, Error: "unbalanced parenthesis"},
	})
	if model.validation != nil {
		t.Fatal("stale validation response was applied")
	}

	model, _ = update(t, model, validationResultMsg{
		seq:    2,
		result: &api.ValidationResult{Valid: true},
	})
	if model.validation == nil || !model.validation.Valid {
		t.Fatal("current validation response was not applied")
	}
}

func TestStaleConflictResponseDiscarded(t *testing.T) {
	model := newTestModel(t, api.RoleAdmin, 100, &fakeClient{})
	model.conflictSeq = 3

	stale := &dashboard.ConflictReport{HasConflicts: true}
	model, _ = update(t, model, conflictResultMsg{seq: 2, report: stale})
	if model.conflicts != nil {
		t.Fatal("stale conflict response was applied")
	}

	current := &dashboard.ConflictReport{HasConflicts: false}
	model, _ = update(t, model, conflictResultMsg{seq: 3, report: current})
	if model.conflicts != current {
		t.Fatal("current conflict response was not applied")
	}
}

func TestRejectWithoutReasonMakesNoNetworkCall(t *testing.T) {
	client := &fakeClient{
		pending: []api.PendingApproval{
			{ID: 42, UserName: "dev", CommandText: "rm -rf /tmp/cache", AIRiskScore: 8.5},
		},
	}
	model := newTestModel(t, api.RoleAdmin, 100, client)
	model.state.Router.Activate(dashboard.TabApprovals)
	model, _ = update(t, model, approvalsLoadedMsg{approvals: client.pending})

	// Open the reject prompt and confirm with an empty reason.
	model, _ = update(t, model, keyMsg("r"))
	if model.focus != FocusReasonInput {
		t.Fatalf("focus = %v, want FocusReasonInput", model.focus)
	}
	model, _ = update(t, model, keyMsg("enter"))

	if client.resolveCalls != 0 {
		t.Fatalf("resolve calls = %d, want 0 (reason is required before any network call)", client.resolveCalls)
	}
	if model.focus != FocusReasonInput {
		t.Fatal("prompt should stay open until a reason is entered or cancelled")
	}

	// With a reason, the resolution goes through.
	model = typeText(t, model, "too risky")
	model, cmd := update(t, model, keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected a resolve command")
	}
	message := cmd()
	result, ok := message.(resolveResultMsg)
	if !ok {
		t.Fatalf("resolve produced %T, want resolveResultMsg", message)
	}
	if result.err != nil {
		t.Fatalf("resolve error: %v", result.err)
	}
	if client.resolveCalls != 1 {
		t.Fatalf("resolve calls = %d, want 1", client.resolveCalls)
	}
	if client.lastResolveID != 42 || client.lastResolveApproved || client.lastResolveReason != "too risky" {
		t.Fatalf("resolve request = (%d, %v, %q), want (42, false, \"too risky\")",
			client.lastResolveID, client.lastResolveApproved, client.lastResolveReason)
	}
	if model.focus != FocusList {
		t.Fatal("prompt should close after a valid confirmation")
	}
}

func TestApproveWithEmptyReasonIsAllowed(t *testing.T) {
	client := &fakeClient{
		pending: []api.PendingApproval{{ID: 7, CommandText: "systemctl restart app"}},
	}
	model := newTestModel(t, api.RoleAdmin, 100, client)
	model.state.Router.Activate(dashboard.TabApprovals)
	model, _ = update(t, model, approvalsLoadedMsg{approvals: client.pending})

	model, _ = update(t, model, keyMsg("a"))
	_, cmd := update(t, model, keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected a resolve command")
	}
	cmd()
	if client.resolveCalls != 1 {
		t.Fatalf("resolve calls = %d, want 1", client.resolveCalls)
	}
	if !client.lastResolveApproved || client.lastResolveReason != "" {
		t.Fatalf("resolve request = (%v, %q), want (true, \"\")",
			client.lastResolveApproved, client.lastResolveReason)
	}
}

func TestCreditUpdateOverwritesBalance(t *testing.T) {
	model := newTestModel(t, api.RoleMember, 10, &fakeClient{})

	model, _ = update(t, model, pushEventMsg{event: push.Event{
		Kind:         push.KindCreditUpdate,
		CreditUpdate: &push.CreditUpdate{Credits: 3},
	}})

	if got := model.session.Identity().Credits; got != 3 {
		t.Fatalf("credits = %d, want the server-confirmed 3", got)
	}
}

func TestSubmitAppliesServerConfirmedBalance(t *testing.T) {
	model := newTestModel(t, api.RoleMember, 10, &fakeClient{})

	// The server reports 7 remaining; the client must not compute
	// 10 - cost itself.
	remaining := 7
	model, _ = update(t, model, submitResultMsg{
		result: &api.SubmitResult{Status: api.StatusExecuted, CreditsRemaining: &remaining},
	})

	if got := model.session.Identity().Credits; got != 7 {
		t.Fatalf("credits = %d, want exactly 7", got)
	}
}

func TestSubmitWithoutBalanceLeavesCreditsUntouched(t *testing.T) {
	model := newTestModel(t, api.RoleMember, 10, &fakeClient{})

	model, _ = update(t, model, submitResultMsg{
		result: &api.SubmitResult{Status: api.StatusPendingApproval},
	})

	if got := model.session.Identity().Credits; got != 10 {
		t.Fatalf("credits = %d, want 10 (no credits_remaining in the response)", got)
	}
}

func TestCommandExecutedFeedsAdminCounters(t *testing.T) {
	model := newTestModel(t, api.RoleAdmin, 100, &fakeClient{})

	model, _ = update(t, model, pushEventMsg{event: push.Event{
		Kind: push.KindCommandExecuted,
		CommandExecuted: &push.CommandExecuted{
			Status:   api.StatusRejected,
			UserName: "dev",
			Command:  "curl evil.example",
		},
	}})

	if model.state.Feed.Len() != 1 {
		t.Fatalf("feed length = %d, want 1", model.state.Feed.Len())
	}
	if model.state.Stats.CommandsToday() != 1 {
		t.Fatalf("commands today = %d, want 1", model.state.Stats.CommandsToday())
	}
	if model.state.Stats.BlockedCommands() != 1 {
		t.Fatalf("blocked = %d, want 1", model.state.Stats.BlockedCommands())
	}
}

func TestCommandExecutedIgnoredForMember(t *testing.T) {
	model := newTestModel(t, api.RoleMember, 10, &fakeClient{})

	model, _ = update(t, model, pushEventMsg{event: push.Event{
		Kind:            push.KindCommandExecuted,
		CommandExecuted: &push.CommandExecuted{Status: api.StatusExecuted},
	}})

	if model.state.Feed.Len() != 0 {
		t.Fatal("member view must not populate the admin activity feed")
	}
	if model.state.Stats.CommandsToday() != 0 {
		t.Fatal("member view must not advance admin counters")
	}
}

func TestApprovalUpdateReloadsOnlyOnApprovalsTab(t *testing.T) {
	signal := make(chan struct{}, 4)
	client := &fakeClient{approvalsSignal: signal}
	model := newTestModel(t, api.RoleAdmin, 100, client)

	event := pushEventMsg{event: push.Event{
		Kind:           push.KindApprovalUpdate,
		ApprovalUpdate: &push.ApprovalUpdate{AdminName: "root", Approved: true, CommandID: 9},
	}}

	// On the rules tab the event only produces a notice.
	model.state.Router.Activate(dashboard.TabRules)
	model, cmd := update(t, model, event)
	runAsync(cmd)
	select {
	case <-signal:
		t.Fatal("approval_update reloaded the queue while another tab was active")
	case <-time.After(100 * time.Millisecond):
	}

	// On the approvals tab the same event re-fetches the queue.
	model.state.Router.Activate(dashboard.TabApprovals)
	_, cmd = update(t, model, event)
	runAsync(cmd)
	select {
	case <-signal:
	case <-time.After(2 * time.Second):
		t.Fatal("approval_update did not reload the queue on the approvals tab")
	}
}

// runAsync executes a command tree in the background the way the
// bubbletea runtime does: batches fan out, each leaf on its own
// goroutine.
func runAsync(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		message := cmd()
		if batch, ok := message.(tea.BatchMsg); ok {
			for _, sub := range batch {
				runAsync(sub)
			}
		}
	}()
}

func TestTabActivationAlwaysReloads(t *testing.T) {
	client := &fakeClient{}
	model := newTestModel(t, api.RoleAdmin, 100, client)

	// Cycle through all four tabs and back to the start; every
	// activation issues a fresh load, revisits included.
	for range dashboard.AdminTabs {
		var cmd tea.Cmd
		model, cmd = update(t, model, keyMsg("tab"))
		if cmd == nil {
			t.Fatal("tab activation must return a load command")
		}
		cmd()
	}

	if client.auditCalls != 1 || client.analyticsCalls != 1 || client.approvalsCalls != 1 {
		t.Fatalf("loads = audit:%d analytics:%d approvals:%d, want 1 each",
			client.auditCalls, client.analyticsCalls, client.approvalsCalls)
	}
	// The fourth press wraps back to rules and reloads it.
	if client.rulesCalls != 1 {
		t.Fatalf("rules loads = %d, want 1 for the revisit", client.rulesCalls)
	}
}

func TestFilterRecomputesHistoryView(t *testing.T) {
	records := []api.CommandRecord{
		{ID: 1, CommandText: "docker ps", Status: api.StatusExecuted},
		{ID: 2, CommandText: "ls -la", Status: api.StatusExecuted},
		{ID: 3, CommandText: "docker restart web", Status: api.StatusRejected},
	}
	model := newTestModel(t, api.RoleMember, 10, &fakeClient{})
	model, _ = update(t, model, historyLoadedMsg{records: records})

	if len(model.filtered) != 3 {
		t.Fatalf("unfiltered view = %d records, want 3", len(model.filtered))
	}

	// Leave the command input, open the filter, and type a term.
	model, _ = update(t, model, keyMsg("esc"))
	model, _ = update(t, model, keyMsg("/"))
	if model.focus != FocusFilterInput {
		t.Fatalf("focus = %v, want FocusFilterInput", model.focus)
	}
	model = typeText(t, model, "DOCKER")

	if len(model.filtered) != 2 {
		t.Fatalf("filtered view = %d records, want 2 (case-insensitive match)", len(model.filtered))
	}

	// Escape clears the filter entirely.
	model, _ = update(t, model, keyMsg("esc"))
	if len(model.filtered) != 3 {
		t.Fatalf("cleared view = %d records, want 3", len(model.filtered))
	}
	if model.state.History.Len() != 3 {
		t.Fatal("filtering must never mutate the cached history")
	}
}

func TestNoticeFadeIgnoresSupersededGeneration(t *testing.T) {
	model := newTestModel(t, api.RoleMember, 10, &fakeClient{})

	model, _ = model.withNotice(noticeInfo, "first")
	first := model.noticeGeneration
	model, _ = model.withNotice(noticeError, "second")

	model, _ = update(t, model, noticeFadeMsg{generation: first})
	if model.notice != "second" {
		t.Fatal("an old fade timer cleared a newer notice")
	}

	model, _ = update(t, model, noticeFadeMsg{generation: model.noticeGeneration})
	if model.notice != "" {
		t.Fatal("the current fade timer should clear the notice")
	}
}

func TestEmptyPatternClearsValidationState(t *testing.T) {
	model := newTestModel(t, api.RoleAdmin, 100, &fakeClient{})
	model, _ = update(t, model, keyMsg("n"))
	if model.focus != FocusPatternInput {
		t.Fatalf("focus = %v, want FocusPatternInput", model.focus)
	}

	model = typeText(t, model, "x")
	seqAfterTyping := model.validationSeq
	if seqAfterTyping == 0 {
		t.Fatal("typing a pattern must issue a validation request")
	}
	model, _ = update(t, model, validationResultMsg{
		seq:    seqAfterTyping,
		result: &api.ValidationResult{Valid: true},
	})

	// Deleting back to empty clears the verdict and bumps the sequence
	// so any in-flight response lands stale.
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyBackspace})
	if model.validation != nil {
		t.Fatal("empty pattern must clear the validation verdict")
	}
	if model.validationSeq == seqAfterTyping {
		t.Fatal("empty pattern must invalidate in-flight responses")
	}
}

func TestChannelCloseDegradesToOffline(t *testing.T) {
	model := newTestModel(t, api.RoleMember, 10, &fakeClient{})

	model, _ = update(t, model, channelClosedMsg{})
	if !model.channelClosed {
		t.Fatal("channel close was not recorded")
	}
	if model.notice == "" {
		t.Fatal("channel close should surface a notice")
	}
}

func TestExportWritesSnapshotDespiteConcurrentReload(t *testing.T) {
	t.Chdir(t.TempDir())

	model := newTestModel(t, api.RoleMember, 10, &fakeClient{})
	model.state.History.SetRecords([]api.CommandRecord{
		{ID: 1, CommandText: "docker ps", Status: api.StatusExecuted, CreditsDeducted: 2},
	})

	// Building the command snapshots the rows on the update loop; the
	// goroutine below stands in for a history reload landing while the
	// export command runs.
	cmd := model.exportHistory()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			model.state.History.SetRecords([]api.CommandRecord{
				{ID: i, CommandText: "ls", Status: api.StatusExecuted},
			})
		}
	}()
	message := cmd()
	wg.Wait()

	done, ok := message.(exportDoneMsg)
	if !ok {
		t.Fatalf("export returned %T, want exportDoneMsg", message)
	}
	if done.err != nil {
		t.Fatalf("export failed: %v", done.err)
	}

	data, err := os.ReadFile(done.filename)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.Contains(string(data), "docker ps") {
		t.Errorf("export lost the snapshot row:\n%s", data)
	}
	if strings.Contains(string(data), "ls") {
		t.Errorf("export picked up rows from the concurrent reload:\n%s", data)
	}
}
