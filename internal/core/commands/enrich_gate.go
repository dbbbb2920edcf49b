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

// The enrich chain runs once per pool item. This file defines the shared
// context keys the chain's commands communicate through, plus the two
// cheap leading steps: a deterministic normalization pass and the gate
// that decides whether the record needs external lookups at all.
package commands

import (
	"github.com/paattu/songcatalog/internal/core/cor"
	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/enrich"
)

// Context keys the enrich chain shares between commands, alongside the
// standard CtxIn/CtxOut piping of the song itself.
const (
	// CtxEnrichSettled marks a record the gate found complete; the
	// external-lookup commands skip it.
	CtxEnrichSettled = "enrich_settled"
	// CtxWikiResult carries the raw reference-text findings, when any.
	CtxWikiResult = "wiki_result"
	// CtxModelResult carries the raw model output for the apply step.
	CtxModelResult = "model_result"
)

// EnrichNormalize applies the deterministic cleanup pass to the song
// before anything external is consulted. Many records settle here.
type EnrichNormalize struct {
	cor.BaseCommand
	stripFeatured bool
}

// NewEnrichNormalize creates the normalization command.
func NewEnrichNormalize(name string, stripFeatured bool) *EnrichNormalize {
	return &EnrichNormalize{BaseCommand: *cor.NewBaseCommand(name), stripFeatured: stripFeatured}
}

// Execute normalizes the song in place and pipes it forward.
func (t *EnrichNormalize) Execute(context cor.Context) {
	song := context.Get(t.GetInputParam()).(*model.Song)
	song = enrich.Normalize(song, t.stripFeatured)
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), song)
}

// EnrichGate decides whether the record still needs external enrichment.
// A complete record is marked settled so the lookup and model commands
// pass it through untouched, keeping cache and quota usage down.
type EnrichGate struct {
	cor.BaseCommand
	force bool
}

// NewEnrichGate creates the gate. With force set every record goes to
// the model regardless of completeness.
func NewEnrichGate(name string, force bool) *EnrichGate {
	return &EnrichGate{BaseCommand: *cor.NewBaseCommand(name), force: force}
}

// Execute marks complete records settled and pipes the song forward.
func (t *EnrichGate) Execute(context cor.Context) {
	song := context.Get(t.GetInputParam()).(*model.Song)
	if !t.force && !enrich.NeedsEnrichment(song) {
		context.Add(CtxEnrichSettled, true)
	}
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), song)
}

// gateOpen reports whether the external-lookup commands should run for
// the current record.
func gateOpen(context cor.Context) bool {
	return context.Get(CtxEnrichSettled) == nil
}
