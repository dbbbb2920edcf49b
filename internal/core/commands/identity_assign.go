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
	"github.com/paattu/songcatalog/internal/identity"
	"github.com/paattu/songcatalog/internal/textutil"
)

// trackIDDisambiguatorLen is how much of the external track id is
// appended to a colliding slug before falling back to counters.
const trackIDDisambiguatorLen = 8

// IdentityAssign derives the stable song id from the normalized record.
// The id source is a per-language choice: title-only catalogs produce
// readable ids, while flat catalogs fold the artist in to keep cover
// versions apart. Collisions are resolved by the shared Assigner.
type IdentityAssign struct {
	cor.BaseCommand
	language conf.Language
	assigner *identity.Assigner
}

// NewIdentityAssign creates the identity command. The assigner is shared
// across the whole run so ids stay unique pool-wide.
func NewIdentityAssign(name string, language conf.Language, assigner *identity.Assigner) *IdentityAssign {
	return &IdentityAssign{
		BaseCommand: *cor.NewBaseCommand(name),
		language:    language,
		assigner:    assigner,
	}
}

// Execute assigns the id and records the uncollided base slug, which the
// asset step needs to decide whether legacy preview names are safe to try.
func (t *IdentityAssign) Execute(context cor.Context) {
	draft := context.Get(t.GetInputParam()).(*model.Draft)

	primary := draft.Song.Title
	if t.language.IDSource == conf.IDSourceArtistTitle {
		primary = draft.ArtistsRaw + " " + draft.Song.Title
	}

	disambiguator := draft.TrackID
	if len(disambiguator) > trackIDDisambiguatorLen {
		disambiguator = disambiguator[:trackIDDisambiguatorLen]
	}
	if disambiguator == "" {
		disambiguator = model.Deref(draft.Song.Album)
	}
	if disambiguator == "" {
		disambiguator = "dup"
	}

	draft.BaseID = textutil.Slugify(primary)
	draft.Song.ID = t.assigner.Assign(primary, disambiguator)

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), draft)
}
