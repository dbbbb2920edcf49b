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

// Package commands provides the concrete Command implementations that the
// build and enrich chains are assembled from. Each command does one step
// of the pipeline and pipes its result to the next through the chain
// context.
//
// This file defines the first step of the build chain: turning one
// spreadsheet row into a Draft. A row without both a title and an artist
// column carries too little signal to catalog, so it is skipped rather
// than admitted half-empty.
package commands

import (
	"github.com/paattu/songcatalog/internal/core/cor"
	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/pool"
	"github.com/paattu/songcatalog/internal/textutil"
)

// RowToDraft converts a spreadsheet row into the draft record the rest of
// the build chain works on.
type RowToDraft struct {
	cor.BaseCommand
}

// NewRowToDraft creates the row parsing command.
func NewRowToDraft(name string) *RowToDraft {
	return &RowToDraft{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute reads the row from the context and emits a Draft carrying the
// raw column values.
func (t *RowToDraft) Execute(context cor.Context) {
	row := context.Get(t.GetInputParam()).(*pool.Row)

	title := row.Get(pool.ColTitle)
	artists := row.Get(pool.ColArtists)
	if title == "" || artists == "" {
		context.AddError(t.GetName(), &model.Skip{Reason: model.SkipMissingFields})
		return
	}

	trackURI := row.Get(pool.ColTrackURI)
	draft := &model.Draft{
		Song: model.Song{
			Title:    title,
			Album:    model.Ptr(row.Get(pool.ColAlbum)),
			TrackURI: trackURI,
		},
		ArtistsRaw: artists,
		KeyRaw:     row.Get(pool.ColKey),
		ModeRaw:    row.Get(pool.ColMode),
		TrackID:    pool.ParseTrackID(trackURI),
		// Older downloader generations named preview files after the raw
		// "<artists> - <title>" columns, before any normalization.
		LegacyBase: textutil.SanitizeFilename(artists + " - " + title),
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), draft)
}
