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
)

func newMergeCommand(_ *commandContext) *cobra.Command {
	var (
		basePath     string
		incomingPath string
		outPath      string
		preferSecond bool
		show         int
		similarity   float32
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge two song pools and report suspect duplicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := workflow.Merge(basePath, incomingPath, outPath, workflow.MergeOptions{
				PreferSecond: preferSecond,
				Show:         show,
				NearSim:      similarity,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kept %d, replaced %d, added %d\n",
				stats.Kept, stats.Replaced, stats.Added)
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base", "", "first pool; its order and records win by default (required)")
	cmd.Flags().StringVar(&incomingPath, "incoming", "", "second pool merged into the first (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "merged pool to write (required)")
	cmd.Flags().BoolVar(&preferSecond, "prefer-second", false, "on key collision keep the incoming record")
	cmd.Flags().IntVar(&show, "show", 10, "how many duplicate clusters and near pairs to log")
	cmd.Flags().Float32Var(&similarity, "similarity", 0.9, "title similarity threshold for the near-duplicate report")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("incoming")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
