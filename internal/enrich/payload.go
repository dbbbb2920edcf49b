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

// Enrichment request assembly and the needs-enrichment gate.
package enrich

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/textutil"
)

// NeedsEnrichment reports whether a record still has cleanup work an
// external lookup could resolve: an unknown field, a title that still
// carries a "(From ...)" qualifier, or a singer entry that is itself an
// unsplit list.
func NeedsEnrichment(song *model.Song) bool {
	if song.Movie == nil || song.Album == nil || song.MusicDirector == nil ||
		song.Hero == nil || song.Heroine == nil || song.Key == nil {
		return true
	}
	if textutil.HasFromQualifier(song.Title) {
		return true
	}
	for _, s := range song.Singers {
		if textutil.HasEmbeddedDelimiter(s) {
			return true
		}
	}
	return false
}

// BuildPayload assembles the structured request describing a record's
// known fields. The payload shape is part of the cache contract: any
// field change alters the content hash and invalidates the cached result
// for the item.
//
// Inputs:
//   - song: The record being enriched.
//   - language: The language folder name, passed through to the model.
//   - queryHint: Optional template from the language profile; %s is
//     replaced with the movie name.
//   - wiki: Optional reference-text findings, attached verbatim.
func BuildPayload(song *model.Song, language, queryHint string, wiki json.RawMessage) map[string]any {
	payload := map[string]any{
		"language":       language,
		"title":          song.Title,
		"album":          song.Album,
		"movie":          song.Movie,
		"music_director": song.MusicDirector,
		"singers":        song.Singers,
		"hero":           song.Hero,
		"heroine":        song.Heroine,
		"key":            song.Key,
	}
	if song.TrackURI != "" {
		payload["track_uri"] = song.TrackURI
	}
	if queryHint != "" && song.Movie != nil {
		payload["query_hint"] = fmt.Sprintf(queryHint, *song.Movie)
	}
	if wiki != nil && string(wiki) != "null" {
		payload["wikipedia"] = wiki
	}
	return payload
}

// ItemCacheKey builds the cache key for one record of one pool file:
// "<pool-file-name>:<record id>". The pool name scopes ids across
// language catalogs that may reuse a slug.
func ItemCacheKey(poolName, id string) string {
	return poolName + ":" + id
}

// NormalizeQuery lowercases and trims a reference-lookup query for use as
// a wiki-namespace cache key.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
