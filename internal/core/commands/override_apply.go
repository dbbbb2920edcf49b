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
	"github.com/paattu/songcatalog/internal/core/cor"
	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/identity"
	"github.com/paattu/songcatalog/internal/pool"
	"github.com/paattu/songcatalog/internal/textutil"
)

// OverrideApply is the last word on a record: the curated side-file either
// drops it outright or replaces individual heuristic values with
// hand-verified ones. Only non-empty override fields apply; an empty cell
// means the curator had no opinion.
type OverrideApply struct {
	cor.BaseCommand
	overrides map[string]pool.Override
	assigner  *identity.Assigner
}

// NewOverrideApply creates the override command. The assigner is the same
// one identity assignment uses, so curated ids join the collision space.
func NewOverrideApply(name string, overrides map[string]pool.Override, assigner *identity.Assigner) *OverrideApply {
	return &OverrideApply{
		BaseCommand: *cor.NewBaseCommand(name),
		overrides:   overrides,
		assigner:    assigner,
	}
}

// Execute applies the override matching the draft's track URI, if any.
func (t *OverrideApply) Execute(context cor.Context) {
	draft := context.Get(t.GetInputParam()).(*model.Draft)

	override, ok := t.overrides[draft.Song.TrackURI]
	if !ok {
		t.GetSuccessCounter().Add(context.GetContext(), 1)
		context.Add(t.GetOutputParam(), draft)
		return
	}
	if override.Skip {
		context.AddError(t.GetName(), &model.Skip{Reason: model.SkipOverride})
		return
	}

	song := &draft.Song
	if override.ID != "" {
		song.ID = override.ID
		t.assigner.Reserve(override.ID)
	}
	if override.Title != "" {
		song.Title = override.Title
	}
	if override.Movie != "" {
		song.Movie = model.Ptr(override.Movie)
	}
	if override.Album != "" {
		song.Album = model.Ptr(override.Album)
	}
	if override.MusicDirector != "" {
		song.MusicDirector = model.Ptr(override.MusicDirector)
	}
	if override.Singers != "" {
		song.Singers = textutil.SplitPeople(override.Singers)
	}
	if override.Hero != "" {
		song.Hero = model.Ptr(override.Hero)
	}
	if override.Heroine != "" {
		song.Heroine = model.Ptr(override.Heroine)
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), draft)
}
