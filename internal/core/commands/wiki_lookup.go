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
	"encoding/json"
	"log/slog"

	"github.com/paattu/songcatalog/internal/core/cor"
	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/enrich"
	"github.com/paattu/songcatalog/internal/lookup"
)

// WikiLookup fetches reference text for the record's movie and attaches
// the findings to the chain context for the model call. Lookups are
// cached by normalized movie name, including negative results; transport
// failures are logged and counted but never fail the record, because the
// model can still work from the catalog fields alone.
type WikiLookup struct {
	cor.BaseCommand
	client  *lookup.WikiClient
	cache   *enrich.Cache
	queries []string
	report  *model.RunReport
}

// NewWikiLookup creates the reference-lookup command. A nil client
// disables lookups entirely (the --wiki flag off).
func NewWikiLookup(name string, client *lookup.WikiClient, cache *enrich.Cache, queries []string, report *model.RunReport) *WikiLookup {
	return &WikiLookup{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
		cache:       cache,
		queries:     queries,
		report:      report,
	}
}

// Execute looks up the movie, serving from the cache when possible.
func (t *WikiLookup) Execute(context cor.Context) {
	song := context.Get(t.GetInputParam()).(*model.Song)
	defer context.Add(t.GetOutputParam(), song)

	if !gateOpen(context) || t.client == nil || song.Movie == nil {
		t.GetSuccessCounter().Add(context.GetContext(), 1)
		return
	}

	query := enrich.NormalizeQuery(*song.Movie)
	if raw, ok := t.cache.WikiGet(query); ok {
		context.Add(CtxWikiResult, raw)
		t.GetSuccessCounter().Add(context.GetContext(), 1)
		return
	}

	t.report.WikiLookups++
	result, err := t.client.Lookup(context.GetContext(), *song.Movie, t.queries)
	if err != nil {
		t.report.WikiFailures++
		t.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Warn("reference lookup failed", "song", song.ID, "movie", *song.Movie, "error", err)
		return
	}

	var raw json.RawMessage
	if result != nil {
		raw, err = json.Marshal(result)
		if err != nil {
			t.report.WikiFailures++
			t.GetErrorCounter().Add(context.GetContext(), 1)
			slog.Warn("reference result not serializable", "song", song.ID, "error", err)
			return
		}
	}
	t.cache.WikiPut(query, raw)
	if raw != nil {
		context.Add(CtxWikiResult, raw)
	}
	t.GetSuccessCounter().Add(context.GetContext(), 1)
}
