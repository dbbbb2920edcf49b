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

// Package workflow assembles the command chains into the runnable
// pipelines behind the CLI verbs. A workflow owns the chain wiring, the
// per-record execution loop, and the run report; the commands own the
// individual steps.
//
// This file defines the build workflow: spreadsheet export in, song pool
// out. Each row runs through its own chain context, so one bad row can
// only ever skip itself.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/paattu/songcatalog/internal/assets"
	"github.com/paattu/songcatalog/internal/conf"
	"github.com/paattu/songcatalog/internal/core/commands"
	"github.com/paattu/songcatalog/internal/core/cor"
	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/extract"
	"github.com/paattu/songcatalog/internal/identity"
	"github.com/paattu/songcatalog/internal/pool"
)

// BuildWorkflow turns one spreadsheet export into one song pool.
type BuildWorkflow struct {
	language conf.Language
	chain    cor.Chain
	report   *model.RunReport
}

// NewBuildWorkflow wires the per-record build chain for one language.
//
// Inputs:
//   - language: the language profile driving normalization and identity.
//   - tables: the curated extraction tables.
//   - resolver: the asset resolver rooted at the language's audio folder.
//   - assetOpts: clip requirements and public path settings.
//   - overrides: the curated overrides keyed by track URI.
func NewBuildWorkflow(
	language conf.Language,
	tables conf.Tables,
	resolver *assets.Resolver,
	assetOpts commands.AssetResolveOptions,
	overrides map[string]pool.Override) *BuildWorkflow {

	assigner := identity.NewAssigner()
	// Curated ids claim their slugs before any row is processed, so a
	// heuristic id can never collide with an override.
	for _, o := range overrides {
		if o.ID != "" {
			assigner.Reserve(o.ID)
		}
	}

	movies := &extract.MovieExtractor{CompilationHints: tables.CompilationHints}
	people := extract.NewPeopleExtractor(tables.MusicDirectors, tables.Lyricists)

	chain := cor.NewBaseChain("song-build").
		AddCommand(commands.NewRowToDraft("row-to-draft")).
		AddCommand(commands.NewDraftNormalize("draft-normalize", language)).
		AddCommand(commands.NewIdentityAssign("identity-assign", language, assigner)).
		AddCommand(commands.NewAssetResolve("asset-resolve", resolver, assetOpts)).
		AddCommand(commands.NewFactExtract("fact-extract", language, movies, people)).
		AddCommand(commands.NewOverrideApply("override-apply", overrides, assigner))

	return &BuildWorkflow{
		language: language,
		chain:    chain,
		report:   model.NewRunReport(uuid.NewString()),
	}
}

// Run streams the export through the chain and writes the admitted songs
// as a pool. Per-record problems skip the record and are tallied; only
// malformed inputs and write failures abort the run.
func (w *BuildWorkflow) Run(ctx context.Context, csvPath, outPath string) (*model.RunReport, error) {
	rows, err := pool.ReadRows(csvPath)
	if err != nil {
		return w.report, err
	}
	if err := pool.RequireColumns(rows, pool.ColTitle, pool.ColArtists); err != nil {
		return w.report, fmt.Errorf("csv %s: %w", csvPath, err)
	}

	tracer := otel.Tracer("build-workflow")
	songs := make([]model.Song, 0, len(rows))

	for _, row := range rows {
		w.report.Read++

		rowCtx, span := tracer.Start(ctx, "build-record")
		chainCtx := cor.NewBaseContext()
		chainCtx.SetContext(rowCtx)
		chainCtx.Add(cor.CtxIn, row)

		w.chain.Execute(chainCtx)

		if chainCtx.HasErrors() {
			span.SetStatus(codes.Error, "record not admitted")
			span.End()
			if err := w.tallyErrors(chainCtx); err != nil {
				return w.report, err
			}
			continue
		}
		span.SetStatus(codes.Ok, "record admitted")
		span.End()

		draft, ok := chainCtx.Get(cor.CtxIn).(*model.Draft)
		if !ok {
			return w.report, fmt.Errorf("build chain produced no draft for row %d", w.report.Read)
		}
		songs = append(songs, draft.Song)
		w.report.Admitted++
	}

	if err := pool.Write(outPath, songs); err != nil {
		return w.report, err
	}
	slog.Info("build complete", "csv", csvPath, "out", outPath, "report", w.report.String())
	return w.report, nil
}

// tallyErrors folds chain errors into the skip tally. A non-skip error is
// a pipeline defect and aborts the run.
func (w *BuildWorkflow) tallyErrors(chainCtx cor.Context) error {
	for command, err := range chainCtx.GetErrors() {
		if skip := model.AsSkip(err); skip != nil {
			w.report.Skip(skip.Reason)
			continue
		}
		return fmt.Errorf("command %s: %w", command, err)
	}
	return nil
}
