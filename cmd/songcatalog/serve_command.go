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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/paattu/songcatalog/internal/api"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		catalogDir string
		audioRoot  string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the published catalogs and audio over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			serverCfg := ctx.cfg.Server
			serverCfg.CatalogDir = orDefault(catalogDir, serverCfg.CatalogDir)
			if port != 0 {
				serverCfg.Port = port
			}
			if serverCfg.Port == 0 {
				serverCfg.Port = 8080
			}
			if serverCfg.CatalogDir == "" {
				return fmt.Errorf("no catalog directory configured; pass --catalog-dir")
			}
			audioRoot = orDefault(audioRoot, ctx.cfg.Assets.Root)

			router := api.NewRouter(serverCfg, audioRoot)
			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", serverCfg.Port),
				Handler:      router,
				ReadTimeout:  20 * time.Second,
				WriteTimeout: 20 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("catalog server listening", "addr", srv.Addr, "catalog_dir", serverCfg.CatalogDir)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			case sig := <-quit:
				slog.Info("shutting down", "signal", sig.String())
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&catalogDir, "catalog-dir", "", "directory of published pool JSON files (default from config)")
	cmd.Flags().StringVar(&audioRoot, "audio-root", "", "asset root to serve under /audio (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "TCP port to listen on (default from config)")

	return cmd
}
