// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"math"

	"github.com/gatewatch/gatewatch/lib/api"
)

// topCommandDisplay caps how many top-command rankings the summary keeps.
const topCommandDisplay = 5

// Summary is the analytics view derived from the latest snapshot.
type Summary struct {
	TotalCommands int
	// SuccessRate is the rounded percentage of executed commands,
	// 100 when no commands ran today.
	SuccessRate int
	CreditsUsed int
	TopCommands []api.TopCommand
}

// Stats keeps the dashboard's running counters consistent across two
// independent update paths: the periodic analytics snapshot (pull) and
// incremental command_executed events (push).
//
// The snapshot sets a baseline when loaded; increments apply to
// whichever counters are currently in memory. Neither path resets the
// other mid-session, so a snapshot loaded after a burst of events
// simply becomes the new baseline for subsequent increments.
type Stats struct {
	commandsToday   int
	blockedCommands int
	activeUsers     int

	hasSnapshot bool
	summary     Summary
}

// ApplySnapshot overwrites all counters and the summary from an
// authoritative analytics fetch.
func (s *Stats) ApplySnapshot(analytics *api.Analytics) {
	s.commandsToday = analytics.DailyStats.TotalCommands
	s.blockedCommands = analytics.DailyStats.RejectedCommands

	active := 0
	for _, activity := range analytics.UserActivity {
		if activity.CommandCount > 0 {
			active++
		}
	}
	// At minimum the viewer is active.
	if active == 0 {
		active = 1
	}
	s.activeUsers = active

	top := analytics.TopCommands
	if len(top) > topCommandDisplay {
		top = top[:topCommandDisplay]
	}
	s.summary = Summary{
		TotalCommands: analytics.DailyStats.TotalCommands,
		SuccessRate:   successRate(analytics.DailyStats),
		CreditsUsed:   analytics.DailyStats.TotalCreditsUsed,
		TopCommands:   append([]api.TopCommand(nil), top...),
	}
	s.hasSnapshot = true
}

// ApplyExecution applies one command_executed event: commands-today
// always increments, blocked-commands increments when the command was
// rejected.
func (s *Stats) ApplyExecution(status string) {
	s.commandsToday++
	if status == api.StatusRejected {
		s.blockedCommands++
	}
}

// CommandsToday returns the commands-today counter.
func (s *Stats) CommandsToday() int {
	return s.commandsToday
}

// BlockedCommands returns the blocked-commands counter.
func (s *Stats) BlockedCommands() int {
	return s.blockedCommands
}

// ActiveUsers returns the active-user count from the latest snapshot,
// defaulting to 1 (the viewer) when no snapshot is available.
func (s *Stats) ActiveUsers() int {
	if !s.hasSnapshot {
		return 1
	}
	return s.activeUsers
}

// Summary returns the analytics summary and whether a snapshot has
// loaded this session.
func (s *Stats) Summary() (Summary, bool) {
	return s.summary, s.hasSnapshot
}

// Reset returns the aggregator to its pre-login state.
func (s *Stats) Reset() {
	*s = Stats{}
}

func successRate(stats api.DailyStats) int {
	if stats.TotalCommands == 0 {
		return 100
	}
	rate := float64(stats.ExecutedCommands) / float64(stats.TotalCommands) * 100
	return int(math.Round(rate))
}
