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

// This file defines the enrich workflow: it replays one or more song
// pools through the per-item enrichment chain (normalize, gate,
// reference lookup, model call, result apply) and writes the updated
// pools back. Long runs resume through the --start-at/--limit window;
// items outside the window pass through untouched.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/paattu/songcatalog/internal/conf"
	"github.com/paattu/songcatalog/internal/core/commands"
	"github.com/paattu/songcatalog/internal/core/cor"
	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/enrich"
	"github.com/paattu/songcatalog/internal/lookup"
	"github.com/paattu/songcatalog/internal/pool"
)

// EnrichOptions carries the per-run settings of the enrich workflow.
type EnrichOptions struct {
	Force       bool   // Send every record to the model, complete or not.
	StartAt     int    // Index of the first item to enrich (resume window).
	Limit       int    // Number of items to enrich; 0 means all remaining.
	FillUnknown string // How unresolved fields are rendered on output.
	InPlace     bool   // Rewrite each pool file where it stands.
	OutputDir   string // Alternative output directory when not in place.
}

// EnrichWorkflow replays song pools through the enrichment chain.
type EnrichWorkflow struct {
	language   conf.Language
	wikiClient *lookup.WikiClient
	model      *lookup.QuotaAwareModel
	cache      *enrich.Cache
	opts       EnrichOptions
	report     *model.RunReport
}

// NewEnrichWorkflow creates the workflow. A nil wikiClient disables
// reference lookups; the model and cache are required.
func NewEnrichWorkflow(
	language conf.Language,
	wikiClient *lookup.WikiClient,
	generativeModel *lookup.QuotaAwareModel,
	cache *enrich.Cache,
	opts EnrichOptions) *EnrichWorkflow {

	return &EnrichWorkflow{
		language:   language,
		wikiClient: wikiClient,
		model:      generativeModel,
		cache:      cache,
		opts:       opts,
		report:     model.NewRunReport(uuid.NewString()),
	}
}

// Run enriches every pool in order. The cache is saved after each pool
// so an aborted run keeps the results it already paid for. Malformed
// model output aborts the run; everything milder skips the item.
func (w *EnrichWorkflow) Run(ctx context.Context, poolPaths []string) (*model.RunReport, error) {
	for _, path := range poolPaths {
		if err := w.runPool(ctx, path); err != nil {
			// Keep paid-for results even when a pool fails.
			if saveErr := w.cache.Save(); saveErr != nil {
				slog.Warn("failed to save enrichment cache", "error", saveErr)
			}
			return w.report, err
		}
		if err := w.cache.Save(); err != nil {
			return w.report, fmt.Errorf("save enrichment cache: %w", err)
		}
	}

	stats := w.cache.Stats()
	w.report.ExternalCalls = stats.ExternalCalls
	w.report.CacheHits = stats.Hits
	slog.Info("enrichment complete", "report", w.report.String())
	return w.report, nil
}

func (w *EnrichWorkflow) runPool(ctx context.Context, path string) error {
	items, err := pool.Read(path)
	if err != nil {
		return err
	}

	chain := w.newChain(filepath.Base(path))
	tracer := otel.Tracer("enrich-workflow")

	end := len(items)
	if w.opts.Limit > 0 && w.opts.StartAt+w.opts.Limit < end {
		end = w.opts.StartAt + w.opts.Limit
	}

	for i := range items {
		if i < w.opts.StartAt || i >= end {
			continue
		}
		w.report.Read++

		itemCtx, span := tracer.Start(ctx, "enrich-record")
		chainCtx := cor.NewBaseContext()
		chainCtx.SetContext(itemCtx)
		chainCtx.Add(cor.CtxIn, items[i].Clone())

		chain.Execute(chainCtx)

		if chainCtx.HasErrors() {
			span.SetStatus(codes.Error, "item not enriched")
			span.End()
			if err := w.tallyErrors(chainCtx); err != nil {
				return fmt.Errorf("pool %s item %d (%s): %w", path, i, items[i].ID, err)
			}
			continue
		}
		span.SetStatus(codes.Ok, "item enriched")
		span.End()

		song, ok := chainCtx.Get(cor.CtxIn).(*model.Song)
		if !ok {
			return fmt.Errorf("enrich chain produced no song for item %d of %s", i, path)
		}
		enrich.FillUnknownFields(song, w.opts.FillUnknown)
		items[i] = *song
		w.report.Updated++
	}

	outPath := path
	if !w.opts.InPlace && w.opts.OutputDir != "" {
		outPath = filepath.Join(w.opts.OutputDir, filepath.Base(path))
	}
	return pool.Write(outPath, items)
}

// newChain wires the per-item chain for one pool file. The pool name
// scopes the cache keys, so the chain is rebuilt per pool.
func (w *EnrichWorkflow) newChain(poolName string) cor.Chain {
	return cor.NewBaseChain("song-enrich").
		AddCommand(commands.NewEnrichNormalize("enrich-normalize", w.language.StripFeatured)).
		AddCommand(commands.NewEnrichGate("enrich-gate", w.opts.Force)).
		AddCommand(commands.NewWikiLookup("wiki-lookup", w.wikiClient, w.cache, w.language.SearchQueries, w.report)).
		AddCommand(commands.NewModelEnrich("model-enrich", w.model, w.cache, poolName, w.language.Name, w.language.QueryHint)).
		AddCommand(commands.NewResultApply("result-apply", w.language))
}

// tallyErrors converts chain errors into skip tallies. Malformed model
// output is the one error class that must stop the run: the model is
// misconfigured and every further call would burn quota for garbage.
func (w *EnrichWorkflow) tallyErrors(chainCtx cor.Context) error {
	for _, err := range chainCtx.GetErrors() {
		if errors.Is(err, model.ErrMalformedModelOutput) {
			return err
		}
		if skip := model.AsSkip(err); skip != nil {
			w.report.Skip(skip.Reason)
			continue
		}
		w.report.Skip(model.SkipEnrichFailed)
		slog.Warn("enrichment item failed", "error", err)
	}
	return nil
}
