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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paattu/songcatalog/internal/assets"
	"github.com/paattu/songcatalog/internal/core/commands"
	"github.com/paattu/songcatalog/internal/core/workflow"
	"github.com/paattu/songcatalog/internal/pool"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var (
		language            string
		csvPath             string
		outPath             string
		overridesPath       string
		audioRoot           string
		publicAudioPrefix   string
		durations           []int
		requireAllDurations bool
		keepWithoutClips    bool
		strict              bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a song pool from a spreadsheet export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lang, err := ctx.cfg.MustLanguage(language)
			if err != nil {
				return err
			}
			csvPath = orDefault(csvPath, lang.DefaultCSVPath)
			outPath = orDefault(outPath, lang.DefaultOutPath)
			if csvPath == "" || outPath == "" {
				return fmt.Errorf("language %q has no default paths; pass --csv and --out", language)
			}
			overridesPath = orDefault(overridesPath, lang.OverridesPath)
			audioRoot = orDefault(audioRoot, ctx.cfg.Assets.Root)
			publicAudioPrefix = orDefault(publicAudioPrefix, ctx.cfg.Assets.PublicAudioPrefix)
			if len(durations) == 0 {
				durations = ctx.cfg.Assets.Durations
			}

			overrides, err := pool.ReadOverrides(overridesPath)
			if err != nil {
				return err
			}

			resolver := assets.NewResolver(filepath.Join(audioRoot, language))
			resolver.Strict = strict || ctx.cfg.Assets.Strict

			wf := workflow.NewBuildWorkflow(lang, ctx.cfg.Tables, resolver, commands.AssetResolveOptions{
				Durations:           durations,
				RequireAllDurations: requireAllDurations,
				KeepWithoutClips:    keepWithoutClips,
				PublicAudioPrefix:   publicAudioPrefix,
				LanguageDir:         language,
			}, overrides)

			report, err := wf.Run(cmd.Context(), csvPath, outPath)
			if report != nil {
				fmt.Fprintln(cmd.OutOrStdout(), report.String())
			}
			return err
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "language profile to build (required)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "spreadsheet export to read (default from language profile)")
	cmd.Flags().StringVar(&outPath, "out", "", "pool JSON to write (default from language profile)")
	cmd.Flags().StringVar(&overridesPath, "overrides", "", "overrides CSV (default from language profile)")
	cmd.Flags().StringVar(&audioRoot, "audio-root", "", "asset root directory (default from config)")
	cmd.Flags().StringVar(&publicAudioPrefix, "public-audio-prefix", "", "public URL prefix for audio paths")
	cmd.Flags().IntSliceVar(&durations, "durations", nil, "clip durations in seconds (default from config)")
	cmd.Flags().BoolVar(&requireAllDurations, "require-all-durations", false, "skip records missing any duration clip")
	cmd.Flags().BoolVar(&keepWithoutClips, "keep-without-clips", false, "admit records whose preview has no clips yet")
	cmd.Flags().BoolVar(&strict, "strict", false, "sniff preview file content before accepting a match")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}
