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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paattu/songcatalog/internal/core/workflow"
	"github.com/paattu/songcatalog/internal/enrich"
	"github.com/paattu/songcatalog/internal/lookup"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var (
		language    string
		useWiki     bool
		cachePath   string
		modelKey    string
		force       bool
		startAt     int
		limit       int
		fillUnknown string
		inPlace     bool
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "enrich <pool.json> [<pool.json>...]",
		Short: "Enrich song pools through the cached model and reference lookups",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := ctx.cfg.MustLanguage(language)
			if err != nil {
				return err
			}
			if inPlace && outputDir != "" {
				return fmt.Errorf("--in-place and --output-dir are mutually exclusive")
			}
			if !inPlace && outputDir == "" {
				return fmt.Errorf("pass --in-place or --output-dir to say where enriched pools go")
			}

			modelKey = orDefault(modelKey, ctx.cfg.Enrichment.Model)
			mc, ok := ctx.cfg.AgentModels[modelKey]
			if !ok {
				return fmt.Errorf("model %q not configured under [agent_models]", modelKey)
			}
			if ctx.cfg.Application.GeminiAPIKey == "" {
				return fmt.Errorf("no gemini_api_key configured; set it in the runtime override file")
			}

			client, err := lookup.NewGenAIClient(cmd.Context(), ctx.cfg.Application.GeminiAPIKey)
			if err != nil {
				return err
			}
			generativeModel := lookup.NewQuotaAwareModel(client, &mc)

			var wikiClient *lookup.WikiClient
			if useWiki {
				wikiClient = lookup.NewWikiClient(ctx.cfg.Wikipedia)
			}

			cache := enrich.LoadCache(orDefault(cachePath, ctx.cfg.Enrichment.CachePath))

			wf := workflow.NewEnrichWorkflow(lang, wikiClient, generativeModel, cache, workflow.EnrichOptions{
				Force:       force,
				StartAt:     startAt,
				Limit:       limit,
				FillUnknown: orDefault(fillUnknown, ctx.cfg.Enrichment.FillUnknown),
				InPlace:     inPlace,
				OutputDir:   outputDir,
			})

			report, err := wf.Run(cmd.Context(), args)
			if report != nil {
				fmt.Fprintln(cmd.OutOrStdout(), report.String())
			}
			return err
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "language profile driving normalization and queries (required)")
	cmd.Flags().BoolVar(&useWiki, "wiki", false, "look up reference text for narrative records")
	cmd.Flags().StringVar(&cachePath, "cache", "", "enrichment cache file (default from config)")
	cmd.Flags().StringVar(&modelKey, "model", "", "agent model key (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "re-enrich records that already look complete")
	cmd.Flags().IntVar(&startAt, "start-at", 0, "index of the first item to enrich")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of items to enrich; 0 means all remaining")
	cmd.Flags().StringVar(&fillUnknown, "fill-unknown", "", "render unresolved fields as null, empty, or unknown")
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "rewrite each pool file where it stands")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for enriched copies of the pools")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}
