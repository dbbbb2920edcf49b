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
	"github.com/paattu/songcatalog/internal/textutil"
)

// DraftNormalize cleans the raw title and splits the artist column. The
// raw values stay on the draft; later steps (legacy preview naming) need
// them verbatim.
type DraftNormalize struct {
	cor.BaseCommand
	language conf.Language
}

// NewDraftNormalize creates the normalization command for one language
// profile. StripFeatured is a per-language decision because narrative
// catalogs carry "(From ...)" qualifiers instead of feature credits.
func NewDraftNormalize(name string, language conf.Language) *DraftNormalize {
	return &DraftNormalize{
		BaseCommand: *cor.NewBaseCommand(name),
		language:    language,
	}
}

// Execute normalizes the in-flight draft in place and pipes it forward.
func (t *DraftNormalize) Execute(context cor.Context) {
	draft := context.Get(t.GetInputParam()).(*model.Draft)

	draft.Song.Title = textutil.NormalizeTitle(draft.Song.Title, t.language.StripFeatured)
	draft.Artists = textutil.SplitPeople(draft.ArtistsRaw)
	if draft.Song.Title == "" || len(draft.Artists) == 0 {
		context.AddError(t.GetName(), &model.Skip{Reason: model.SkipMissingFields})
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), draft)
}
