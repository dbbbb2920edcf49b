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

// Package reconcile compares and combines song pools. Two pools may
// describe overlapping catalogs under different identifiers, so matching
// works on two independent keys: the assigned song id, and a content key
// derived from the title plus the singer list. This file defines the keys.
package reconcile

import (
	"sort"
	"strings"

	"github.com/paattu/songcatalog/internal/core/model"
)

// Match modes for Classify. "both" accepts a hit on either key.
const (
	ModeID           = "id"
	ModeTitleSingers = "title_singers"
	ModeBoth         = "both"
)

// IDKey returns the song's assigned identifier, or "" when it has none.
func IDKey(s *model.Song) string {
	return s.ID
}

// TitleSingersKey builds the content key: lowercased title, "::", and the
// sorted lowercased singers joined by commas. A song with neither a title
// nor singers yields "" so that empty records never match each other.
func TitleSingersKey(s *model.Song) string {
	title := strings.ToLower(strings.TrimSpace(s.Title))
	singers := make([]string, 0, len(s.Singers))
	for _, singer := range s.Singers {
		singer = strings.ToLower(strings.TrimSpace(singer))
		if singer != "" {
			singers = append(singers, singer)
		}
	}
	if title == "" && len(singers) == 0 {
		return ""
	}
	sort.Strings(singers)
	return title + "::" + strings.Join(singers, ",")
}

// MergeKey is the identity used by Merge: the song id when present,
// otherwise the content key. "" marks a keyless record.
func MergeKey(s *model.Song) string {
	if s.ID != "" {
		return s.ID
	}
	return TitleSingersKey(s)
}
