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

package commands

import (
	"github.com/paattu/songcatalog/internal/conf"
	"github.com/paattu/songcatalog/internal/core/cor"
	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/extract"
	"github.com/paattu/songcatalog/internal/pool"
)

// FactExtract runs the heuristic extraction pass: movie from the title
// and album columns, music director and singers from the artist list,
// and the musical key from the numeric key/mode columns. Heuristics only
// produce facts they are confident in; everything else stays nil for the
// enrichment pass to resolve.
type FactExtract struct {
	cor.BaseCommand
	language conf.Language
	movies   *extract.MovieExtractor
	people   *extract.PeopleExtractor
}

// NewFactExtract creates the extraction command for one language.
//
// Inputs:
//   - name: the command's name.
//   - language: the language profile; non-narrative languages skip
//     the movie and crew heuristics entirely.
//   - movies: the movie extractor with the compilation hint table.
//   - people: the people extractor with the curated director and
//     lyricist tables.
func NewFactExtract(name string, language conf.Language, movies *extract.MovieExtractor, people *extract.PeopleExtractor) *FactExtract {
	return &FactExtract{
		BaseCommand: *cor.NewBaseCommand(name),
		language:    language,
		movies:      movies,
		people:      people,
	}
}

// Execute fills the draft song's extracted fields in place.
func (t *FactExtract) Execute(context cor.Context) {
	draft := context.Get(t.GetInputParam()).(*model.Draft)
	song := &draft.Song

	if t.language.Narrative {
		if movie := t.movies.FromRecord(song.Title, model.Deref(song.Album)); movie != "" {
			song.Movie = model.Ptr(movie)
			// The movie supersedes the album for narrative catalogs;
			// keeping both would duplicate the same fact under two names.
			song.Album = nil
		}
		if director := t.people.GuessMusicDirector(draft.Artists); director != "" {
			song.MusicDirector = model.Ptr(director)
		}
		song.Singers = t.people.GuessSingers(draft.Artists, model.Deref(song.MusicDirector))
	} else {
		song.Singers = t.people.GuessSingers(draft.Artists, "")
	}
	if len(song.Singers) == 0 {
		// A record admitted this far always lists at least one artist.
		song.Singers = append([]string(nil), draft.Artists...)
	}

	song.Key = pool.FormatKey(draft.KeyRaw, draft.ModeRaw)

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), draft)
}
