// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

// FeedCapacity bounds the live-activity feed. Oldest entries are
// evicted first once the feed is full.
const FeedCapacity = 10

// FeedEntry is one live command-execution event. Ephemeral: entries
// never outlive the feed's capacity window.
type FeedEntry struct {
	Status    string
	UserName  string
	Command   string
	Timestamp string
}

// ActivityFeed is a bounded, insertion-ordered, newest-first buffer of
// live events. Repeated identical events occupy separate slots; the
// feed never deduplicates.
type ActivityFeed struct {
	entries []FeedEntry
}

// Push prepends the event. If the feed exceeds capacity, the oldest
// entry is dropped.
func (f *ActivityFeed) Push(entry FeedEntry) {
	f.entries = append([]FeedEntry{entry}, f.entries...)
	if len(f.entries) > FeedCapacity {
		f.entries = f.entries[:FeedCapacity]
	}
}

// Entries returns the feed newest-first. The returned slice is a copy;
// mutating it does not affect the feed.
func (f *ActivityFeed) Entries() []FeedEntry {
	out := make([]FeedEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Len returns the current number of entries.
func (f *ActivityFeed) Len() int {
	return len(f.entries)
}

// Reset empties the feed.
func (f *ActivityFeed) Reset() {
	f.entries = nil
}
