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

// Human overrides. Heuristics get most records right; the override
// side-file is the escape hatch for the rest. Rows key on the external
// track URI because it is the most stable raw identifier a record has,
// surviving re-slugging and title cleanup across runs.
package pool

import "strings"

// Override is one row of the overrides side-file. Empty fields mean "no
// opinion"; only explicitly provided values replace heuristic results.
type Override struct {
	TrackURI      string
	Skip          bool // A truthy skip column drops the record entirely.
	ID            string
	Title         string
	Movie         string
	Album         string
	MusicDirector string
	Singers       string // Raw list; split with textutil.SplitPeople on application.
	Hero          string
	Heroine       string
}

// truthy values accepted in the skip column.
var truthy = map[string]struct{}{"1": {}, "true": {}, "yes": {}, "y": {}}

// ReadOverrides loads the overrides CSV keyed by track URI. A missing
// file simply means no overrides; rows without a track URI are ignored.
func ReadOverrides(path string) (map[string]Override, error) {
	if path == "" || !fileExists(path) {
		return map[string]Override{}, nil
	}
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]Override, len(rows))
	for _, row := range rows {
		uri := row.Get("track_uri")
		if uri == "" {
			uri = row.Get(ColTrackURI)
		}
		if uri == "" {
			continue
		}
		skipRaw := strings.ToLower(row.Get("skip"))
		_, skip := truthy[skipRaw]
		overrides[uri] = Override{
			TrackURI:      uri,
			Skip:          skip,
			ID:            row.Get("id"),
			Title:         row.Get("title"),
			Movie:         row.Get("movie"),
			Album:         row.Get("album"),
			MusicDirector: row.Get("music_director"),
			Singers:       row.Get("singers"),
			Hero:          row.Get("hero"),
			Heroine:       row.Get("heroine"),
		}
	}
	return overrides, nil
}
