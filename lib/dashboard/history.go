// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gatewatch/gatewatch/lib/api"
)

// exportHeader is the first row of every history export.
var exportHeader = []string{"Timestamp", "Command", "Status", "Credits Used", "Rule Pattern"}

// createdAtLayouts are the timestamp formats the gateway has been seen
// to emit, tried in order.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// HistoryStore caches the member's own command records as fetched.
// Filtering is a pure view operation over the cache; export always
// serializes the full unfiltered cache.
type HistoryStore struct {
	records []api.CommandRecord
}

// SetRecords replaces the cache wholesale with a fresh fetch.
func (h *HistoryStore) SetRecords(records []api.CommandRecord) {
	h.records = append([]api.CommandRecord(nil), records...)
}

// Records returns the full cached list.
func (h *HistoryStore) Records() []api.CommandRecord {
	return append([]api.CommandRecord(nil), h.records...)
}

// Len returns the number of cached records.
func (h *HistoryStore) Len() int {
	return len(h.records)
}

// Filter returns the records whose command text contains term,
// case-insensitively. The empty term matches everything. The cache is
// never mutated.
func (h *HistoryStore) Filter(term string) []api.CommandRecord {
	if term == "" {
		return h.Records()
	}

	query := strings.ToLower(term)
	var matched []api.CommandRecord
	for _, record := range h.records {
		if strings.Contains(strings.ToLower(record.CommandText), query) {
			matched = append(matched, record)
		}
	}
	return matched
}

// ExportCSV writes the full cached list — not any filtered view — as
// comma-separated rows after a header row.
func (h *HistoryStore) ExportCSV(w io.Writer) error {
	return WriteCSV(w, h.records)
}

// WriteCSV serializes records as comma-separated rows after a header
// row. Command text is quoted with internal quotes doubled (RFC 4180);
// credits default to 0 and the rule pattern to empty when absent.
// Callers that write from a goroutine must pass a snapshot, not a live
// view into a store another goroutine may replace.
func WriteCSV(w io.Writer, records []api.CommandRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("dashboard: writing export header: %w", err)
	}
	for _, record := range records {
		row := []string{
			exportTimestamp(record.CreatedAt),
			record.CommandText,
			record.Status,
			strconv.Itoa(record.CreditsDeducted),
			record.RulePattern,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("dashboard: writing export row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("dashboard: flushing export: %w", err)
	}
	return nil
}

// ExportFilename returns the date-stamped export artifact name.
func ExportFilename(now time.Time) string {
	return "command-history-" + now.Format("2006-01-02") + ".csv"
}

// Reset empties the cache.
func (h *HistoryStore) Reset() {
	h.records = nil
}

// exportTimestamp normalizes a server timestamp to ISO-8601. An
// unparseable value is exported verbatim rather than dropped — the
// export must stay lossless.
func exportTimestamp(createdAt string) string {
	for _, layout := range createdAtLayouts {
		if parsed, err := time.Parse(layout, createdAt); err == nil {
			return parsed.UTC().Format(time.RFC3339)
		}
	}
	return createdAt
}
