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

// Package api serves the produced catalog over HTTP, read-only. The
// server is not part of the batch pipeline; it exists so a finished pool
// and its clip files are immediately usable by a frontend without any
// further packaging step.
//
// Routes:
//   - GET /api/languages            lists the published catalogs.
//   - GET /api/catalog/:language    serves one pool JSON verbatim.
//   - GET /api/stats                per-catalog song counts.
//   - GET /audio/*                  static clip and preview files.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/paattu/songcatalog/internal/conf"
)

// NewRouter builds the gin engine for the catalog server.
//
// Inputs:
//   - cfg: the server section of the configuration.
//   - audioRoot: the asset root served under /audio.
//
// Outputs:
//   - *gin.Engine: the configured router, ready for an http.Server.
func NewRouter(cfg conf.Server, audioRoot string) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware("songcatalog-server"))

	if cfg.AllowOrigin != "" {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = []string{cfg.AllowOrigin}
		r.Use(cors.New(corsConfig))
	} else {
		// Permissive CORS is fine for a local, read-only catalog.
		r.Use(cors.Default())
	}

	apiGroup := r.Group("/api")
	{
		CatalogRouter(apiGroup, cfg.CatalogDir)
		StatsRouter(apiGroup, cfg.CatalogDir)
	}
	if audioRoot != "" {
		r.Static("/audio", audioRoot)
	}
	return r
}

// CatalogRouter registers the catalog read endpoints on a route group.
func CatalogRouter(r *gin.RouterGroup, catalogDir string) {
	r.GET("/languages", func(c *gin.Context) {
		entries, err := os.ReadDir(catalogDir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog directory unreadable"})
			return
		}
		languages := make([]string, 0, len(entries))
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".json") {
				continue
			}
			languages = append(languages, strings.TrimSuffix(name, ".json"))
		}
		c.JSON(http.StatusOK, gin.H{"languages": languages})
	})

	r.GET("/catalog/:language", func(c *gin.Context) {
		language := c.Param("language")
		// The parameter names a file; anything path-like is rejected.
		if language == "" || strings.ContainsAny(language, `/\.`) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid language name"})
			return
		}
		path := filepath.Join(catalogDir, language+".json")
		if _, err := os.Stat(path); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no catalog for language"})
			return
		}
		c.Header("Content-Type", "application/json")
		c.File(path)
	})
}
