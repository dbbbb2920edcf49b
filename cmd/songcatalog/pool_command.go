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

	"github.com/paattu/songcatalog/internal/pool"
)

func newPoolCommand(_ *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Tabular helpers around the pool files",
	}
	cmd.AddCommand(newPoolExportCommand(), newPoolGenreCommand())
	return cmd
}

func newPoolExportCommand() *cobra.Command {
	var (
		language string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "export <pool.json>",
		Short: "Export the song_id,language CSV the game backend imports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := pool.Read(args[0])
			if err != nil {
				return err
			}
			n, err := pool.WriteSongPoolCSV(outPath, items, language)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d song ids to %s\n", n, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "language value written on every row (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "CSV path to write (required)")
	_ = cmd.MarkFlagRequired("language")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func newPoolGenreCommand() *cobra.Command {
	var (
		genreTag string
		setPath  string
	)

	cmd := &cobra.Command{
		Use:   "genre <export.csv> [<export.csv>...]",
		Short: "Merge rows matching a genre tag into a language set CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			added, size, err := pool.MergeGenreSet(setPath, args, genreTag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d rows, set now holds %d\n", added, size)
			return nil
		},
	}

	cmd.Flags().StringVar(&genreTag, "genre", "", "genre substring to match, case-insensitive (required)")
	cmd.Flags().StringVar(&setPath, "set", "", "language set CSV to grow (required)")
	_ = cmd.MarkFlagRequired("genre")
	_ = cmd.MarkFlagRequired("set")

	return cmd
}
