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

// This file defines the pool reconciliation and merge runs. Neither is
// chain shaped: both operate on whole pools at once, so they are plain
// functions over the reconcile package.
package workflow

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/paattu/songcatalog/internal/assets"
	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/pool"
	"github.com/paattu/songcatalog/internal/reconcile"
)

// ReconcileOptions carries the settings of one reconcile run.
type ReconcileOptions struct {
	Mode          string // reconcile.ModeID, ModeTitleSingers, or ModeBoth.
	ClipsRoot     string // Language audio directory whose clips folder holds duplicate clip folders.
	DuplicatesDir string // Where duplicate clip folders are quarantined; empty disables the move.
	DryRun        bool   // Report what would happen without writing or moving anything.
}

// ReconcileResult summarizes a reconcile run.
type ReconcileResult struct {
	New          int
	Duplicates   int
	ClipsMoved   int
	ClipsAlready int // Duplicate clip folders already absent from the clips root.
	ClipsMissing int
}

// Reconcile classifies an incoming pool against a base pool, writes the
// genuinely new songs to outPath, and quarantines the clip folders of
// duplicates so they are not served twice.
func Reconcile(basePath, incomingPath, outPath string, opts ReconcileOptions) (*ReconcileResult, error) {
	base, err := pool.Read(basePath)
	if err != nil {
		return nil, err
	}
	incoming, err := pool.Read(incomingPath)
	if err != nil {
		return nil, err
	}

	classified, err := reconcile.Classify(songPtrs(incoming), songPtrs(base), opts.Mode)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{
		New:        len(classified.New),
		Duplicates: len(classified.Duplicates),
	}

	if !opts.DryRun {
		out := make([]model.Song, 0, len(classified.New))
		for _, s := range classified.New {
			out = append(out, *s)
		}
		if err := pool.Write(outPath, out); err != nil {
			return nil, err
		}
	}

	if opts.DuplicatesDir != "" && opts.ClipsRoot != "" {
		for _, dup := range classified.Duplicates {
			quarantineClips(dup, opts, result)
		}
	}

	slog.Info("reconcile complete",
		"new", result.New,
		"duplicates", result.Duplicates,
		"clips_moved", result.ClipsMoved,
		"clips_missing", result.ClipsMissing,
		"dry_run", opts.DryRun)
	return result, nil
}

// quarantineClips moves one duplicate's clip folder out of the clips
// root. The folder name is recovered from the song's published audio
// paths, falling back to the song id for clipless records.
func quarantineClips(song *model.Song, opts ReconcileOptions, result *ReconcileResult) {
	folder := clipFolderName(song)
	src := filepath.Join(opts.ClipsRoot, assets.ClipsDirName, folder)
	if _, err := os.Stat(src); err != nil {
		result.ClipsAlready++
		return
	}
	if opts.DryRun {
		result.ClipsMoved++
		return
	}
	if _, err := assets.Quarantine(src, opts.DuplicatesDir); err != nil {
		result.ClipsMissing++
		slog.Warn("failed to quarantine duplicate clips", "song", song.ID, "error", err)
		return
	}
	result.ClipsMoved++
}

// clipFolderName extracts the clip folder segment from a published audio
// path ("<prefix>/<lang>/clips/<folder>/clip_5s.mp3").
func clipFolderName(song *model.Song) string {
	for _, audioPath := range song.Audio {
		parts := strings.Split(audioPath, "/")
		for i, part := range parts {
			if part == assets.ClipsDirName && i+1 < len(parts) {
				return parts[i+1]
			}
		}
	}
	return song.ID
}

// MergeOptions carries the settings of one merge run.
type MergeOptions struct {
	PreferSecond bool    // Incoming records replace base records on key collision.
	Show         int     // How many duplicate clusters and near-duplicate pairs to log.
	NearSim      float32 // Similarity threshold for the near-duplicate report.
}

// Merge combines two pools into outPath and logs the duplicate cluster
// and near-duplicate reports. The reports are advisory; only exact key
// collisions affect the merged output.
func Merge(basePath, incomingPath, outPath string, opts MergeOptions) (reconcile.MergeStats, error) {
	base, err := pool.Read(basePath)
	if err != nil {
		return reconcile.MergeStats{}, err
	}
	incoming, err := pool.Read(incomingPath)
	if err != nil {
		return reconcile.MergeStats{}, err
	}

	basePtrs := songPtrs(base)
	incomingPtrs := songPtrs(incoming)

	clusters := reconcile.FindDuplicateClusters(basePtrs, incomingPtrs)
	for i, cluster := range clusters {
		if opts.Show > 0 && i >= opts.Show {
			slog.Info("duplicate clusters truncated", "shown", opts.Show, "total", len(clusters))
			break
		}
		ids := make([]string, 0, len(cluster.Songs))
		for _, s := range cluster.Songs {
			ids = append(ids, s.ID)
		}
		slog.Info("duplicate cluster", "kind", cluster.Kind, "key_by", cluster.KeyBy, "key", cluster.Key, "songs", strings.Join(ids, ", "))
	}

	merged, stats := reconcile.Merge(basePtrs, incomingPtrs, opts.PreferSecond)

	near := reconcile.NearDuplicates(merged, opts.NearSim)
	for i, pair := range near {
		if opts.Show > 0 && i >= opts.Show {
			slog.Info("near-duplicate pairs truncated", "shown", opts.Show, "total", len(near))
			break
		}
		slog.Info("near-duplicate titles",
			"first", pair.First.ID,
			"second", pair.Second.ID,
			"similarity", fmt.Sprintf("%.3f", pair.Similarity))
	}

	out := make([]model.Song, 0, len(merged))
	for _, s := range merged {
		out = append(out, *s)
	}
	if err := pool.Write(outPath, out); err != nil {
		return stats, err
	}
	slog.Info("merge complete", "kept", stats.Kept, "replaced", stats.Replaced, "added", stats.Added, "out", outPath)
	return stats, nil
}

func songPtrs(items []model.Song) []*model.Song {
	out := make([]*model.Song, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
