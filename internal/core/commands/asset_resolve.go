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
	"github.com/paattu/songcatalog/internal/assets"
	"github.com/paattu/songcatalog/internal/core/cor"
	"github.com/paattu/songcatalog/internal/core/model"
)

// AssetResolveOptions tunes how strictly a record's audio must exist
// before the record is admitted.
type AssetResolveOptions struct {
	Durations           []int  // Clip durations expected per preview, in seconds.
	RequireAllDurations bool   // Skip unless every duration has a clip.
	KeepWithoutClips    bool   // Admit records whose preview exists but has no clips yet.
	PublicAudioPrefix   string // Public URL prefix the audio root is served under.
	LanguageDir         string // Language folder name used in public paths.
}

// AssetResolve matches the draft to its on-disk preview audio and fills
// the song's audio map with the public clip paths. Preview naming drifted
// across downloader generations, so resolution tries the assigned id, the
// raw track id, and the legacy sanitized name, strictly in that order.
// The legacy name is only safe when the id needed no collision suffix;
// with a suffix, two records would resolve the same legacy file.
type AssetResolve struct {
	cor.BaseCommand
	resolver *assets.Resolver
	opts     AssetResolveOptions
}

// NewAssetResolve creates the asset resolution command.
func NewAssetResolve(name string, resolver *assets.Resolver, opts AssetResolveOptions) *AssetResolve {
	return &AssetResolve{
		BaseCommand: *cor.NewBaseCommand(name),
		resolver:    resolver,
		opts:        opts,
	}
}

// Execute resolves the preview, enumerates clips, and skips the record
// when the audio requirements are not met.
func (t *AssetResolve) Execute(context cor.Context) {
	draft := context.Get(t.GetInputParam()).(*model.Draft)

	candidates := []string{draft.Song.ID, draft.TrackID}
	if draft.Song.ID == draft.BaseID {
		candidates = append(candidates, draft.LegacyBase)
	}

	preview := t.resolver.ResolvePreview(candidates)
	if preview == "" {
		context.AddError(t.GetName(), &model.Skip{Reason: model.SkipNoAudio})
		return
	}
	draft.PreviewBase = preview

	clips := t.resolver.EnumerateClips(preview, t.opts.Durations)
	if len(clips) == 0 && !t.opts.KeepWithoutClips {
		context.AddError(t.GetName(), &model.Skip{Reason: model.SkipNoClips})
		return
	}
	if t.opts.RequireAllDurations && len(clips) < len(t.opts.Durations) {
		context.AddError(t.GetName(), &model.Skip{Reason: model.SkipNoClips})
		return
	}

	draft.Song.Audio = make(map[string]string, len(clips))
	for duration, rel := range clips {
		draft.Song.Audio[duration] = assets.PublicURL(t.opts.PublicAudioPrefix, t.opts.LanguageDir, rel)
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), draft)
}
