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

// Person-name handling. Credit fields arrive as delimiter soup
// ("A. R. Rahman; Shreya Ghoshal, Hariharan & Chinmayi") and the curated
// lookup tables key on a canonical form of each name, so splitting and
// canonicalization live together here.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	brMarker     = regexp.MustCompile(`(?i)<br\s*/?>`)
	delimiterRun = regexp.MustCompile(`\s*[,/;|]\s*`)
	// Semicolons and commas inside a single list entry mean the entry is
	// itself an unsplit list. Used by the enrichment gate.
	embeddedDelimiter = regexp.MustCompile(`[;,]`)
)

// accentFolder decomposes to NFD, drops combining marks, and recomposes,
// so "Ilaiyaraaja" typed with combining diacritics keys the same table row
// as the plain-ASCII spelling.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SplitPeople splits a raw credit string into individual person names.
// Recognized delimiters are commas, semicolons, slashes, pipes,
// ampersands, the word "and", and HTML line-break markers. Parts are
// trimmed, empty parts dropped, and first-seen order preserved.
func SplitPeople(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	text := brMarker.ReplaceAllString(raw, "|")
	text = strings.ReplaceAll(text, " and ", "|")
	text = strings.ReplaceAll(text, "&", "|")
	text = delimiterRun.ReplaceAllString(text, "|")

	var parts []string
	for _, p := range strings.Split(text, "|") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// SplitPeopleSimple splits only on comma, semicolon, pipe, and slash runs.
// This is the conservative split used for spreadsheet artist columns,
// where "&" and "and" are usually part of a single act's name.
func SplitPeopleSimple(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var parts []string
	for _, p := range regexp.MustCompile(`[;,|/]+`).Split(raw, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// HasEmbeddedDelimiter reports whether a single list entry still contains
// a semicolon or comma, meaning it was never properly split.
func HasEmbeddedDelimiter(entry string) bool {
	return embeddedDelimiter.MatchString(entry)
}

// CanonicalPersonKey reduces a person's name to the form used as a lookup
// key in the curated tables: lowercase, periods stripped, underscores
// turned into spaces, accents folded, whitespace collapsed. The result is
// only ever used for matching and is never surfaced to output.
func CanonicalPersonKey(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.ReplaceAll(value, ".", "")
	value = strings.ReplaceAll(value, "_", " ")
	if folded, _, err := transform.String(accentFolder, value); err == nil {
		value = folded
	}
	return CollapseWhitespace(value)
}
