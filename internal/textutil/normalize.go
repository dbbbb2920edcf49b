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

// Package textutil contains the pure string transforms that every other
// part of the catalog pipeline builds on. Spreadsheet exports carry titles
// like `Song Name (From "Big Movie") - feat. Somebody`, and the same song
// reaches us in several such spellings, so before anything can be matched,
// identified, or deduplicated the text has to be pushed through a small set
// of deterministic normalizers.
//
// Every function in this package is a pure function of its input. In
// particular NormalizeTitle is idempotent: applying it twice yields the
// same string as applying it once. The rest of the pipeline relies on that
// property to safely re-run over partially processed pools.
package textutil

import (
	"regexp"
	"strings"
)

// Fallback tokens returned when a normalizer would otherwise produce an
// empty string. Identifiers and filenames must never be empty.
const (
	SlugFallback     = "song"
	FilenameFallback = "audio_preview"
)

// Length bounds applied after character substitution. The limits match the
// longest names the asset store has historically accepted.
const (
	maxSlugLen     = 80
	maxFilenameLen = 160
)

// The "(From ...)" qualifier shows up in three shapes: bracketed, as a
// trailing dash suffix, and as a bare trailing "from ..." clause. They are
// tried in this order and all occurrences are removed.
var fromTitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[(\[]\s*from\b[^)\]]*[)\]]`),
	regexp.MustCompile(`(?i)\s*-\s*from\b.*$`),
	regexp.MustCompile(`(?i)\s+from\b\s+"?.+"?$`),
}

// Featured-artist credits are only embedded in titles for catalogs that
// follow western labeling conventions, so these are applied per language.
var featuredPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[(\[]\s*(?:feat\.?|ft\.?|featuring)\s+[^)\]]*[)\]]`),
	regexp.MustCompile(`(?i)\s*-\s*(?:feat\.?|ft\.?|featuring)\s+.*$`),
	regexp.MustCompile(`(?i)\s+(?:feat\.?|ft\.?|featuring)\s+.*$`),
}

var (
	whitespaceRun    = regexp.MustCompile(`\s+`)
	nonAlphanumRun   = regexp.MustCompile(`[^a-z0-9]+`)
	illegalFileChars = regexp.MustCompile(`[^A-Za-z0-9 _.-]+`)
)

// CollapseWhitespace trims the input and squeezes every internal run of
// whitespace down to a single space. This is the light normalization the
// builder applies to every raw spreadsheet field before further work.
func CollapseWhitespace(raw string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
}

// NormalizeTitle produces the display form of a song title. It removes the
// "(From ...)" qualifier families and, when stripFeatured is set for the
// language profile, the "feat./ft./featuring" credit families. Whitespace
// is collapsed and leading or trailing separators are trimmed.
//
// Inputs:
//   - raw: The title exactly as it appeared in the source row or pool.
//   - stripFeatured: Whether the language embeds featured-artist credits
//     in titles (true for english catalogs).
//
// Outputs:
//   - string: The normalized title. May be empty if the input carried no
//     usable text; callers decide whether that is fatal for the record.
func NormalizeTitle(raw string, stripFeatured bool) string {
	title := strings.TrimSpace(raw)
	if title == "" {
		return title
	}
	for _, pat := range fromTitlePatterns {
		title = pat.ReplaceAllString(title, "")
	}
	if stripFeatured {
		for _, pat := range featuredPatterns {
			title = pat.ReplaceAllString(title, "")
		}
	}
	title = CollapseWhitespace(title)
	return strings.Trim(title, " -")
}

// HasFromQualifier reports whether the title still carries one of the
// "(From ...)" qualifier shapes. The enrichment gate uses this to decide
// that a record needs another cleaning pass.
func HasFromQualifier(title string) bool {
	for _, pat := range fromTitlePatterns {
		if pat.MatchString(title) {
			return true
		}
	}
	return false
}

// Slugify derives a lowercase, hyphen-delimited identifier from free text,
// safe for use as a filesystem or URL path segment. Runs of anything that
// is not a lowercase letter or digit collapse to a single hyphen and the
// result is bounded in length. The empty input maps to SlugFallback so an
// identifier can never be the empty string.
func Slugify(raw string) string {
	value := strings.TrimSpace(strings.ToLower(raw))
	value = strings.Trim(nonAlphanumRun.ReplaceAllString(value, "-"), "-")
	if value == "" {
		return SlugFallback
	}
	if len(value) > maxSlugLen {
		value = strings.Trim(value[:maxSlugLen], "-")
	}
	return value
}

// SanitizeFilename converts free text into a name the asset store accepts.
// Unlike Slugify it preserves case and spacing, replacing only illegal
// characters with underscores. The result is trimmed of leading and
// trailing separator noise and bounded to maxFilenameLen bytes.
func SanitizeFilename(raw string) string {
	value := CollapseWhitespace(raw)
	value = illegalFileChars.ReplaceAllString(value, "_")
	value = strings.Trim(value, " ._-")
	if value == "" {
		return FilenameFallback
	}
	if len(value) > maxFilenameLen {
		value = value[:maxFilenameLen]
	}
	return value
}
