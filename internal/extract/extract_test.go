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

package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paattu/songcatalog/internal/extract"
)

var hints = []string{"hits", "best of", "vol.", "love", "melodies"}

func newMovies() *extract.MovieExtractor {
	return &extract.MovieExtractor{CompilationHints: hints}
}

func newPeople() *extract.PeopleExtractor {
	return extract.NewPeopleExtractor(
		map[string]string{
			"a r rahman":     "A. R. Rahman",
			"ar rahman":      "A. R. Rahman",
			"harris jayaraj": "Harris Jayaraj",
		},
		[]string{"Vairamuthu", "Thamarai"},
	)
}

func TestCascadeFirstMatchWins(t *testing.T) {
	second := func(string) (string, bool) { return "second", true }
	never := func(string) (string, bool) { t.Fatal("rule after a match must not run"); return "", false }

	fact, ok := extract.Cascade("x", []extract.Rule{
		func(string) (string, bool) { return "", false },
		second,
		never,
	})
	assert.True(t, ok)
	assert.Equal(t, "second", fact)

	_, ok = extract.Cascade("x", nil)
	assert.False(t, ok)
}

func TestFromRecordTitleQualifier(t *testing.T) {
	m := newMovies()
	assert.Equal(t, "Alaipayuthey",
		m.FromRecord(`Kadhal Sadugudu (From "Alaipayuthey")`, "whatever"))
	assert.Equal(t, "Master",
		m.FromRecord(`Vaathi Coming (From Master)`, ""))
	// Curly quotes are accepted around the movie name.
	assert.Equal(t, "Jeans",
		m.FromRecord("Anbe Anbe (From “Jeans”)", ""))
}

func TestFromRecordAlbumFallback(t *testing.T) {
	m := newMovies()
	assert.Equal(t, "Kaithi",
		m.FromRecord("Kutti Story", `Theme (From "Kaithi")`))
	assert.Equal(t, "Master",
		m.FromRecord("Vaathi Coming", "Master (Original Motion Picture Soundtrack)"))
	assert.Equal(t, "Sita Ramam",
		m.FromRecord("Oh Sita Hey Rama", "Sita Ramam (Original Motion Picture Soundtrack) - Tamil"))
	assert.Equal(t, "Leo", m.FromRecord("Badass", "Leo"))
}

// A compilation hint vetoes the album rule outright; the cascade must
// return nothing rather than surface the compilation as a movie.
func TestFromRecordCompilationVeto(t *testing.T) {
	m := newMovies()
	assert.Equal(t, "", m.FromRecord("Ilamai Thirumbudhe", "Tamil Hits Vol. 3"))
	assert.Equal(t, "", m.FromRecord("Some Song", "Best of 90s Melodies"))
	assert.Equal(t, "", m.FromRecord("Some Song", ""))
}

func TestIsCompilation(t *testing.T) {
	m := newMovies()
	assert.True(t, m.IsCompilation("Tamil HITS vol. 3"))
	assert.False(t, m.IsCompilation("Alaipayuthey"))
}

func TestGuessMusicDirector(t *testing.T) {
	p := newPeople()
	assert.Equal(t, "A. R. Rahman",
		p.GuessMusicDirector([]string{"Hariharan", "AR Rahman", "Harris Jayaraj"}))
	assert.Equal(t, "", p.GuessMusicDirector([]string{"Hariharan", "Chinmayi"}))
	assert.Equal(t, "", p.GuessMusicDirector(nil))
}

func TestCanonicalize(t *testing.T) {
	p := newPeople()
	assert.Equal(t, "A. R. Rahman", p.Canonicalize("ar rahman"))
	assert.Equal(t, "Unknown Person", p.Canonicalize("Unknown Person"))
}

func TestGuessSingers(t *testing.T) {
	p := newPeople()

	// Lyricists and the inferred director drop out.
	got := p.GuessSingers([]string{"A. R. Rahman", "Hariharan", "Vairamuthu"}, "A. R. Rahman")
	assert.Equal(t, []string{"Hariharan"}, got)

	// Removing the director would empty the list, so the director stays.
	got = p.GuessSingers([]string{"A. R. Rahman", "Vairamuthu"}, "A. R. Rahman")
	assert.Equal(t, []string{"A. R. Rahman"}, got)

	// No director inferred: only lyricists are removed.
	got = p.GuessSingers([]string{"Shreya Ghoshal", "Thamarai"}, "")
	assert.Equal(t, []string{"Shreya Ghoshal"}, got)

	assert.Nil(t, p.GuessSingers([]string{"Vairamuthu"}, ""))
	assert.Nil(t, p.GuessSingers(nil, ""))
}
