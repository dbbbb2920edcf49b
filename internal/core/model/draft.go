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

// Transient structures passed between the commands of a workflow chain.
// These are in-memory only and never persisted.
package model

import "errors"

// Draft is the in-flight state of one record moving through the build
// chain. Commands progressively fill it in until the Song is admitted.
type Draft struct {
	Song Song // The record under construction.

	// Raw source fields kept for later steps.
	ArtistsRaw string   // The artist column exactly as read.
	Artists    []string // The split artist list, in source order.
	KeyRaw     string   // Raw numeric key column.
	ModeRaw    string   // Raw numeric mode column.

	// Identity bookkeeping.
	TrackID    string // Parsed external track id, empty when absent.
	BaseID     string // The uncollided slug the id derives from.
	LegacyBase string // Sanitized "<artists> - <title>" legacy preview name.

	PreviewBase string // Resolved on-disk preview name, set by asset resolution.
}

// Skip is the sentinel error type a command records when a record should
// be silently excluded rather than treated as a failure. The build runner
// tallies skips by reason and continues.
type Skip struct {
	Reason SkipReason
}

func (s *Skip) Error() string {
	return "record skipped: " + string(s.Reason)
}

// AsSkip unwraps a Skip from an error chain, or returns nil.
func AsSkip(err error) *Skip {
	var skip *Skip
	if errors.As(err, &skip) {
		return skip
	}
	return nil
}

// ErrMalformedModelOutput marks a generative response that was not valid
// structured data. Unlike transport failures this escalates to a fatal
// run error, because silently accepting garbage output would corrupt the
// catalog.
var ErrMalformedModelOutput = errors.New("generative model returned malformed structured output")
