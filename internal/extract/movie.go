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

// Movie-name extraction. The cascade order is deliberate: a quoted
// "(From "X")" in the title is the strongest signal, the unquoted form is
// next, the album field is weaker still, and cleaning the album string
// itself is the last resort that a compilation hint can veto outright.
package extract

import (
	"regexp"
	"strings"

	"github.com/paattu/songcatalog/internal/textutil"
)

// Straight and curly quote characters accepted around a quoted movie name.
const quoteChars = `"'` + "“”"

var fromMoviePatterns = []*regexp.Regexp{
	// (From "Movie") with any accepted quote character pair.
	regexp.MustCompile(`(?i)\(From\s+[` + quoteChars + `](.+?)[` + quoteChars + `]\)`),
	// (From Movie) without quotes.
	regexp.MustCompile(`(?i)\(From\s+([^)]+)\)`),
}

var soundtrackStripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*\(Original Motion Picture Soundtrack\)\s*-\s*Tamil\s*$`),
	regexp.MustCompile(`(?i)\s*\(Original Motion Picture Soundtrack\)\s*`),
	regexp.MustCompile(`(?i)\s*-\s*Original Motion Picture Soundtrack\s*$`),
}

// MovieExtractor infers the movie a song belongs to from its title and
// album fields. CompilationHints is the curated lowercase substring list
// that marks an album as a compilation rather than a film soundtrack.
type MovieExtractor struct {
	CompilationHints []string
}

// FromRecord runs the full cascade over a record's title and album and
// returns the inferred movie name, or "" when nothing could be inferred.
// First successful step wins; later steps are never attempted.
func (m *MovieExtractor) FromRecord(title, album string) string {
	if movie, ok := Cascade(title, []Rule{matchFromPattern}); ok {
		return movie
	}
	if movie, ok := Cascade(album, []Rule{matchFromPattern, m.cleanAlbum}); ok {
		return movie
	}
	return ""
}

// IsCompilation reports whether the album text trips one of the curated
// compilation hints. Matching is a case-insensitive substring test; the
// hint list is short and curated, so no anchoring is needed.
func (m *MovieExtractor) IsCompilation(album string) bool {
	lowered := strings.ToLower(album)
	for _, hint := range m.CompilationHints {
		if strings.Contains(lowered, hint) {
			return true
		}
	}
	return false
}

// matchFromPattern extracts the movie from a "(From ...)" qualifier,
// preferring the quoted form.
func matchFromPattern(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	for _, pat := range fromMoviePatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			if movie := textutil.CollapseWhitespace(m[1]); movie != "" {
				return movie, true
			}
		}
	}
	return "", false
}

// cleanAlbum treats the album string itself as the movie name once the
// soundtrack boilerplate suffixes are stripped. A compilation hint vetoes
// this rule and, because it ends the cascade with an empty fact, every
// later rule too: "Tamil Hits Vol. 3" must never surface as a movie.
func (m *MovieExtractor) cleanAlbum(album string) (string, bool) {
	album = textutil.CollapseWhitespace(album)
	if album == "" {
		return "", false
	}
	if m.IsCompilation(album) {
		return "", true
	}
	for _, pat := range soundtrackStripPatterns {
		album = pat.ReplaceAllString(album, " ")
	}
	album = textutil.CollapseWhitespace(album)
	return album, album != ""
}
