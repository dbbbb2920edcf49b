// Copyright 2025 The Paattu Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Run reporting. Every batch run ends with a summary of what was read,
// admitted, and skipped, with skip counts aggregated by reason rather
// than listed per record, plus external-call statistics.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// SkipReason classifies why one record was excluded from the published
// pool. Skips are expected per-record conditions, never fatal.
type SkipReason string

const (
	SkipMissingFields SkipReason = "missing title/artist"    // required row fields absent
	SkipNoAudio       SkipReason = "no audio asset"          // no preview candidate resolved
	SkipNoClips       SkipReason = "no clips produced"       // preview found but clip set empty or incomplete
	SkipOverride      SkipReason = "override skip"           // human override marked the record skipped
	SkipEnrichFailed  SkipReason = "enrichment unavailable"  // external lookup failed for the item
)

// RunReport tallies one batch run.
type RunReport struct {
	RunID    string             // Unique id for the run, for log correlation.
	Read     int                // Records read from the source.
	Admitted int                // Records admitted to the published pool.
	Updated  int                // Records changed by an enrichment run.
	Skipped  map[SkipReason]int // Skip counts aggregated by reason.

	ExternalCalls int // External lookups actually performed.
	CacheHits     int // Lookups answered by the persisted cache.
	WikiLookups   int // Reference-text lookups performed (cache misses only).
	WikiFailures  int // Reference-text lookups that failed and were tolerated.
}

// NewRunReport returns an empty report for the given run id.
func NewRunReport(runID string) *RunReport {
	return &RunReport{RunID: runID, Skipped: make(map[SkipReason]int)}
}

// Skip records one skipped record under the given reason.
func (r *RunReport) Skip(reason SkipReason) {
	r.Skipped[reason]++
}

// TotalSkipped returns the number of records skipped for any reason.
func (r *RunReport) TotalSkipped() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// String renders the end-of-run summary in a stable order.
func (r *RunReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "read=%d admitted=%d skipped=%d", r.Read, r.Admitted, r.TotalSkipped())
	if r.Updated > 0 {
		fmt.Fprintf(&b, " updated=%d", r.Updated)
	}
	reasons := make([]string, 0, len(r.Skipped))
	for reason := range r.Skipped {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(&b, "\n  skipped (%s): %d", reason, r.Skipped[SkipReason(reason)])
	}
	if r.ExternalCalls > 0 || r.CacheHits > 0 {
		fmt.Fprintf(&b, "\n  external calls: %d, cache hits: %d", r.ExternalCalls, r.CacheHits)
	}
	if r.WikiLookups > 0 || r.WikiFailures > 0 {
		fmt.Fprintf(&b, "\n  reference lookups: %d, failures tolerated: %d", r.WikiLookups, r.WikiFailures)
	}
	return b.String()
}
