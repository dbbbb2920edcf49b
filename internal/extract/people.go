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

// Credit-list interpretation. Spreadsheet exports lump composers, singers,
// and lyricists into one artist column. The curated tables let us pick the
// music director out of the list and drop known non-performing lyricists
// from the singer list, by elimination rather than by guesswork.
package extract

import "github.com/paattu/songcatalog/internal/textutil"

// PeopleExtractor performs person canonicalization and role inference
// against the curated tables. Both tables key on canonical person keys.
type PeopleExtractor struct {
	// MusicDirectors maps canonical keys of known composers to their one
	// canonical display form, absorbing spelling and punctuation variants.
	MusicDirectors map[string]string
	// Lyricists is the canonical-key set of known non-performing
	// lyricists, excluded from singer inference.
	Lyricists map[string]struct{}
}

// NewPeopleExtractor builds a PeopleExtractor from the configured tables.
// The lyricist list is re-keyed through CanonicalPersonKey so the config
// may spell names naturally.
func NewPeopleExtractor(directors map[string]string, lyricists []string) *PeopleExtractor {
	canon := make(map[string]struct{}, len(lyricists))
	for _, l := range lyricists {
		canon[textutil.CanonicalPersonKey(l)] = struct{}{}
	}
	return &PeopleExtractor{MusicDirectors: directors, Lyricists: canon}
}

// Canonicalize returns the canonical display form of a person's name when
// the known-entities table has one, or the input unchanged otherwise.
func (p *PeopleExtractor) Canonicalize(name string) string {
	if display, ok := p.MusicDirectors[textutil.CanonicalPersonKey(name)]; ok {
		return display
	}
	return name
}

// GuessMusicDirector scans the artist list in order and returns the
// canonical display form of the first name found in the known-directors
// table, or "" when none matches.
func (p *PeopleExtractor) GuessMusicDirector(artists []string) string {
	for _, a := range artists {
		if display, ok := p.MusicDirectors[textutil.CanonicalPersonKey(a)]; ok {
			return display
		}
	}
	return ""
}

// GuessSingers infers the performing artists from the raw artist list.
// Known lyricists are always removed. When a music director was inferred,
// exact matches to the director are removed too, unless doing so would
// empty a list that still had names in it; a song always has a singer, so
// in that case the director-inclusive list is kept. This is a best-effort
// heuristic, not a guarantee.
func (p *PeopleExtractor) GuessSingers(artists []string, musicDirector string) []string {
	var keep []string
	for _, a := range artists {
		if _, isLyricist := p.Lyricists[textutil.CanonicalPersonKey(a)]; isLyricist {
			continue
		}
		keep = append(keep, textutil.CollapseWhitespace(a))
	}
	if len(keep) == 0 {
		return nil
	}

	if musicDirector != "" {
		mdKey := textutil.CanonicalPersonKey(musicDirector)
		var others []string
		for _, a := range keep {
			if textutil.CanonicalPersonKey(a) != mdKey {
				others = append(others, a)
			}
		}
		if len(others) > 0 {
			return others
		}
	}
	return keep
}
