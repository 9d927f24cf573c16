// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"testing"

	"github.com/gatewatch/gatewatch/lib/api"
)

func TestSnapshotThenIncrement(t *testing.T) {
	var stats Stats
	stats.ApplySnapshot(&api.Analytics{
		DailyStats: api.DailyStats{TotalCommands: 5, RejectedCommands: 2},
		UserActivity: []api.UserActivity{
			{UserName: "ada", CommandCount: 3},
			{UserName: "bob", CommandCount: 2},
			{UserName: "idle", CommandCount: 0},
		},
	})

	stats.ApplyExecution(api.StatusRejected)

	if got := stats.CommandsToday(); got != 6 {
		t.Errorf("expected commands_today=6 after snapshot(5)+1 event, got %d", got)
	}
	if got := stats.BlockedCommands(); got != 3 {
		t.Errorf("expected blocked_commands=3 after snapshot(2)+1 rejection, got %d", got)
	}
	if got := stats.ActiveUsers(); got != 2 {
		t.Errorf("expected 2 active users (non-zero counts), got %d", got)
	}
}

func TestIncrementsBeforeSnapshotApplyToZeroBaseline(t *testing.T) {
	var stats Stats
	stats.ApplyExecution(api.StatusExecuted)
	stats.ApplyExecution(api.StatusRejected)

	if stats.CommandsToday() != 2 || stats.BlockedCommands() != 1 {
		t.Errorf("expected 2/1 before any snapshot, got %d/%d",
			stats.CommandsToday(), stats.BlockedCommands())
	}
}

func TestSnapshotRebaselinesAfterIncrements(t *testing.T) {
	var stats Stats
	stats.ApplyExecution(api.StatusExecuted)
	stats.ApplyExecution(api.StatusExecuted)

	// A later snapshot fully overwrites the counters; it is the new
	// baseline, not an addition.
	stats.ApplySnapshot(&api.Analytics{
		DailyStats: api.DailyStats{TotalCommands: 10, RejectedCommands: 4},
	})

	if stats.CommandsToday() != 10 || stats.BlockedCommands() != 4 {
		t.Errorf("snapshot should overwrite counters, got %d/%d",
			stats.CommandsToday(), stats.BlockedCommands())
	}
}

func TestActiveUsersDefaultsToSelf(t *testing.T) {
	var stats Stats
	if got := stats.ActiveUsers(); got != 1 {
		t.Errorf("expected 1 active user with no snapshot, got %d", got)
	}

	stats.ApplySnapshot(&api.Analytics{
		UserActivity: []api.UserActivity{{UserName: "idle", CommandCount: 0}},
	})
	if got := stats.ActiveUsers(); got != 1 {
		t.Errorf("expected floor of 1 active user, got %d", got)
	}
}

func TestSummaryDerivation(t *testing.T) {
	var stats Stats

	if _, ok := stats.Summary(); ok {
		t.Error("summary should be unavailable before any snapshot")
	}

	stats.ApplySnapshot(&api.Analytics{
		DailyStats: api.DailyStats{TotalCommands: 8, ExecutedCommands: 6, TotalCreditsUsed: 19},
		TopCommands: []api.TopCommand{
			{CommandText: "ls", Count: 4, Status: "EXECUTED"},
			{CommandText: "pwd", Count: 3, Status: "EXECUTED"},
			{CommandText: "rm -rf /", Count: 2, Status: "REJECTED"},
			{CommandText: "df", Count: 2, Status: "EXECUTED"},
			{CommandText: "du", Count: 1, Status: "EXECUTED"},
			{CommandText: "id", Count: 1, Status: "EXECUTED"},
		},
	})

	summary, ok := stats.Summary()
	if !ok {
		t.Fatal("summary should be available after snapshot")
	}
	if summary.SuccessRate != 75 {
		t.Errorf("expected success rate 75, got %d", summary.SuccessRate)
	}
	if summary.CreditsUsed != 19 {
		t.Errorf("expected credits used 19, got %d", summary.CreditsUsed)
	}
	if len(summary.TopCommands) != 5 {
		t.Errorf("expected top commands capped at 5, got %d", len(summary.TopCommands))
	}
}

func TestSuccessRateWithNoCommandsIsFull(t *testing.T) {
	var stats Stats
	stats.ApplySnapshot(&api.Analytics{})

	summary, _ := stats.Summary()
	if summary.SuccessRate != 100 {
		t.Errorf("expected 100%% success rate with zero commands, got %d", summary.SuccessRate)
	}
}

func TestResetReturnsToPreLoginState(t *testing.T) {
	var stats Stats
	stats.ApplySnapshot(&api.Analytics{DailyStats: api.DailyStats{TotalCommands: 5}})
	stats.ApplyExecution(api.StatusExecuted)

	stats.Reset()

	if stats.CommandsToday() != 0 || stats.BlockedCommands() != 0 || stats.ActiveUsers() != 1 {
		t.Errorf("reset should clear counters, got %d/%d/%d",
			stats.CommandsToday(), stats.BlockedCommands(), stats.ActiveUsers())
	}
	if _, ok := stats.Summary(); ok {
		t.Error("reset should drop the snapshot summary")
	}
}
