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

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paattu/songcatalog/internal/pool"
)

// CatalogStats summarizes one published pool for the stats endpoint.
type CatalogStats struct {
	Language  string `json:"language"`
	Songs     int    `json:"songs"`
	WithAudio int    `json:"with_audio"`
}

// StatsRouter registers the catalog statistics endpoint on a route group.
// The counts are computed per request; catalogs are small and the
// endpoint exists for dashboards, not hot paths.
func StatsRouter(r *gin.RouterGroup, catalogDir string) {
	r.GET("/stats", func(c *gin.Context) {
		entries, err := os.ReadDir(catalogDir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog directory unreadable"})
			return
		}
		catalogs := make([]CatalogStats, 0, len(entries))
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".json") {
				continue
			}
			songs, err := pool.Read(filepath.Join(catalogDir, name))
			if err != nil {
				// A malformed pool is reported, not hidden; -1 marks it.
				catalogs = append(catalogs, CatalogStats{Language: strings.TrimSuffix(name, ".json"), Songs: -1})
				continue
			}
			stats := CatalogStats{Language: strings.TrimSuffix(name, ".json"), Songs: len(songs)}
			for _, s := range songs {
				if len(s.Audio) > 0 {
					stats.WithAudio++
				}
			}
			catalogs = append(catalogs, stats)
		}
		c.JSON(http.StatusOK, gin.H{"catalogs": catalogs})
	})
}
