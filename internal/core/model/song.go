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

// Package model defines the core data structures of the catalog. The Song
// record is the central entity; everything else in the pipeline exists to
// produce, enrich, or reconcile Songs.
package model

// Song is one published catalog entry.
//
// Pointer-typed fields distinguish "unknown" (nil, serialized as JSON
// null) from a known empty string. English-catalog records leave the
// narrative context fields (Movie, MusicDirector, Hero, Heroine) nil and
// omit them from extraction entirely.
type Song struct {
	ID            string            `json:"id"`             // Stable identifier, unique within a pool.
	Title         string            `json:"title"`          // Normalized display title.
	Movie         *string           `json:"movie"`          // Movie the song is from, for narrative catalogs.
	Album         *string           `json:"album"`          // Album name; nil when the movie supersedes it.
	MusicDirector *string           `json:"music_director"` // Composer credit.
	Singers       []string          `json:"singers"`        // Ordered performing artists.
	Hero          *string           `json:"hero"`           // Lead actor, filled by enrichment or override.
	Heroine       *string           `json:"heroine"`        // Lead actress, filled by enrichment or override.
	Key           *string           `json:"key"`            // Musical key, e.g. "C major"; nil when unknown.
	Audio         map[string]string `json:"audio"`          // Clip duration in seconds -> public path. Only confirmed clips appear.
	TrackURI      string            `json:"track_uri,omitempty"` // External source reference, carried for audit and override matching.
}

// Clone returns a deep copy of the song. Enrichment mutates a copy so the
// original pool entry survives a failed item untouched.
func (s *Song) Clone() *Song {
	out := *s
	out.Movie = clonePtr(s.Movie)
	out.Album = clonePtr(s.Album)
	out.MusicDirector = clonePtr(s.MusicDirector)
	out.Hero = clonePtr(s.Hero)
	out.Heroine = clonePtr(s.Heroine)
	out.Key = clonePtr(s.Key)
	if s.Singers != nil {
		out.Singers = append([]string(nil), s.Singers...)
	}
	if s.Audio != nil {
		out.Audio = make(map[string]string, len(s.Audio))
		for k, v := range s.Audio {
			out.Audio[k] = v
		}
	}
	return &out
}

// Ptr returns a pointer to the given string, or nil when it is empty.
// The pipeline treats the empty string as "unknown" on input boundaries.
func Ptr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Deref returns the value behind an optional string, or "" when unknown.
func Deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func clonePtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
