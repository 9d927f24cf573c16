// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

// State is the dashboard's explicit state container. The UI owns one
// State per session and passes it to whatever needs it; there is no
// ambient shared state.
type State struct {
	Feed      ActivityFeed
	Stats     Stats
	History   HistoryStore
	Approvals Approvals
	Router    Router
}

// NewState creates an empty state container.
func NewState() *State {
	return &State{}
}

// Reset clears every component-local cache. Called from the logout
// teardown so a later login starts from a clean slate.
func (s *State) Reset() {
	s.Feed.Reset()
	s.Stats.Reset()
	s.History.Reset()
	s.Approvals.Reset()
	s.Router = Router{}
}
