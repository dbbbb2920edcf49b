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

package reconcile

import "github.com/paattu/songcatalog/internal/core/model"

// MergeStats tallies what a Merge run did with the incoming pool.
type MergeStats struct {
	Kept     int // base records that survived untouched
	Replaced int // base records overwritten by an incoming record
	Added    int // incoming records appended to the pool
}

// Merge combines two pools by MergeKey. Base order is preserved; incoming
// records that share a key with a base record either lose (first wins,
// the default) or replace the base record in place (preferSecond).
// Records with no key on either side are never matched and incoming
// keyless records are always appended.
func Merge(base, incoming []*model.Song, preferSecond bool) ([]*model.Song, MergeStats) {
	merged := make([]*model.Song, len(base))
	position := make(map[string]int, len(base))
	for i, s := range base {
		merged[i] = s
		if key := MergeKey(s); key != "" {
			if _, seen := position[key]; !seen {
				position[key] = i
			}
		}
	}

	stats := MergeStats{Kept: len(base)}
	for _, s := range incoming {
		key := MergeKey(s)
		if key != "" {
			if i, seen := position[key]; seen {
				if preferSecond {
					merged[i] = s
					stats.Replaced++
					stats.Kept--
				}
				continue
			}
			position[key] = len(merged)
		}
		merged = append(merged, s)
		stats.Added++
	}
	return merged, stats
}
