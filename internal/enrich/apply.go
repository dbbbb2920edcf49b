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

// Application of a generative-model result to a record.
//
// Policy (documented in DESIGN.md): every key present in the result
// overwrites the record's field, including an explicit null, which means
// "confirmed unknown". Keys absent from the result leave the existing
// value untouched. This is the opposite of the override pass, where only
// non-empty values apply; the model is asked about every field and its
// explicit null is an answer, while an override row's empty cell is not.
package enrich

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/textutil"
)

// FillUnknown render modes for fields that remain unknown after
// enrichment.
const (
	FillNull    = "null"    // leave unknown fields as JSON null (default)
	FillEmpty   = "empty"   // render unknown fields as ""
	FillUnknown = "unknown" // render unknown fields as the string "Unknown"
)

var listDelimiterRun = regexp.MustCompile(`[;,]+`)

// ParseResult validates and decodes a raw generative response. Anything
// that is not a JSON object is a malformed model output, which the caller
// escalates to a fatal run error.
func ParseResult(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var result map[string]json.RawMessage
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedModelOutput, err)
	}
	return result, nil
}

// ObjectResult gates raw model text before it reaches the cache: only
// output that parses as a JSON object is returned as a result, so a
// malformed response surfaces as a compute error and is never stored.
// A poisoned cache entry would otherwise replay the garbage on every
// re-run with the unchanged payload.
func ObjectResult(text string) (json.RawMessage, error) {
	raw := json.RawMessage(text)
	if _, err := ParseResult(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Apply merges a parsed model result into a copy of the song under the
// present-key-wins policy, then re-normalizes the title and singer list
// so model output obeys the same invariants as heuristic output.
func Apply(song *model.Song, result map[string]json.RawMessage, stripFeatured bool) *model.Song {
	out := song.Clone()
	for key, value := range result {
		switch key {
		case "title":
			out.Title = decodeString(value)
		case "movie":
			out.Movie = decodeOptString(value)
		case "album":
			out.Album = decodeOptString(value)
		case "music_director":
			out.MusicDirector = decodeOptString(value)
		case "hero":
			out.Hero = decodeOptString(value)
		case "heroine":
			out.Heroine = decodeOptString(value)
		case "key":
			out.Key = decodeOptString(value)
		case "singers":
			out.Singers = NormalizeSingers(value)
		}
		// Unknown keys in the response are ignored; the model was asked
		// for the input's field set and anything extra is noise.
	}
	out.Title = textutil.NormalizeTitle(out.Title, stripFeatured)
	out.Singers = normalizeSingerList(out.Singers)
	return out
}

// Normalize applies the deterministic cleanup pass that runs whether or
// not the model is consulted: title normalization plus singer-list
// splitting.
func Normalize(song *model.Song, stripFeatured bool) *model.Song {
	out := song.Clone()
	out.Title = textutil.NormalizeTitle(out.Title, stripFeatured)
	out.Singers = normalizeSingerList(out.Singers)
	return out
}

// NormalizeSingers decodes a singers value that may arrive as a JSON
// array, a single delimited string, or null, and returns a clean list.
func NormalizeSingers(raw json.RawMessage) []string {
	if raw == nil || string(raw) == "null" {
		return nil
	}
	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		return normalizeSingerList(asList)
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return normalizeSingerList([]string{asString})
	}
	return nil
}

// FillUnknownFields rewrites nil optional fields per the configured mode.
// FillNull is the identity.
func FillUnknownFields(song *model.Song, mode string) {
	if mode == FillNull || mode == "" {
		return
	}
	value := ""
	if mode == FillUnknown {
		value = "Unknown"
	}
	for _, field := range []**string{&song.Movie, &song.Album, &song.MusicDirector, &song.Hero, &song.Heroine, &song.Key} {
		if *field == nil {
			v := value
			*field = &v
		}
	}
}

// normalizeSingerList splits entries that still embed delimiters, trims,
// and drops empties, preserving order.
func normalizeSingerList(entries []string) []string {
	var out []string
	for _, entry := range entries {
		if textutil.HasEmbeddedDelimiter(entry) {
			for _, part := range listDelimiterRun.Split(entry, -1) {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
			continue
		}
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeOptString(raw json.RawMessage) *string {
	if string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
