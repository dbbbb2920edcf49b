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
	"context"
	"time"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/paattu/songcatalog/internal/conf"
	"github.com/paattu/songcatalog/internal/telemetry"
)

// commandContext carries the state every subcommand needs: the loaded
// configuration and the telemetry handles set up before the run.
type commandContext struct {
	cfg      *conf.Config
	reader   *sdkmetric.ManualReader
	shutdown func(context.Context) error
	verbose  bool
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	root := &cobra.Command{
		Use:           "songcatalog",
		Short:         "Build, enrich, and publish song catalog pools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			telemetry.SetupLogging(ctx.verbose)
			ctx.reader, ctx.shutdown = telemetry.Setup()

			ctx.cfg = conf.NewConfig()
			if err := conf.Load(ctx.cfg); err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			telemetry.DumpCounters(flushCtx, ctx.reader)
			_ = ctx.shutdown(flushCtx)
		},
	}
	root.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newBuildCommand(ctx),
		newEnrichCommand(ctx),
		newReconcileCommand(ctx),
		newMergeCommand(ctx),
		newPoolCommand(ctx),
		newServeCommand(ctx),
	)
	return root
}

// orDefault returns the flag value when set, otherwise the configured
// fallback. Flags always win over configuration.
func orDefault(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
