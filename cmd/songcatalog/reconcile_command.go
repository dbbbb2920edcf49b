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
	"github.com/paattu/songcatalog/internal/pool"
	"github.com/paattu/songcatalog/internal/reconcile"
)

func newReconcileCommand(_ *commandContext) *cobra.Command {
	var (
		basePath      string
		incomingPath  string
		outPath       string
		mode          string
		clipsRoot     string
		duplicatesDir string
		dryRun        bool
		csvMode       bool
		keyColumns    []string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Split an incoming pool into new songs and duplicates of a base pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if csvMode {
				result, err := pool.FilterCSV(basePath, incomingPath, outPath, keyColumns)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "kept %d of %d incoming rows (%d base rows)\n",
					result.Unique, result.IncomingRows, result.BaseRows)
				return nil
			}

			result, err := workflow.Reconcile(basePath, incomingPath, outPath, workflow.ReconcileOptions{
				Mode:          mode,
				ClipsRoot:     clipsRoot,
				DuplicatesDir: duplicatesDir,
				DryRun:        dryRun,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "new %d, duplicates %d\n", result.New, result.Duplicates)
			if duplicatesDir != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "clips moved %d, already gone %d, missing %d\n",
					result.ClipsMoved, result.ClipsAlready, result.ClipsMissing)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base", "", "base pool the incoming one is compared against (required)")
	cmd.Flags().StringVar(&incomingPath, "incoming", "", "incoming pool to classify (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "where the new songs are written (required)")
	cmd.Flags().StringVar(&mode, "mode", reconcile.ModeBoth, "duplicate keying: id, title_singers, or both")
	cmd.Flags().StringVar(&clipsRoot, "clips-root", "", "language audio directory holding the clips folder")
	cmd.Flags().StringVar(&duplicatesDir, "duplicates-dir", "", "quarantine directory for duplicate clip folders")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without writing or moving anything")
	cmd.Flags().BoolVar(&csvMode, "csv", false, "treat base and incoming as spreadsheet exports")
	cmd.Flags().StringSliceVar(&keyColumns, "key-columns", nil, "columns forming the row key in csv mode")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("incoming")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
