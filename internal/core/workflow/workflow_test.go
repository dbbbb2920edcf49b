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

package workflow_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paattu/songcatalog/internal/assets"
	"github.com/paattu/songcatalog/internal/conf"
	"github.com/paattu/songcatalog/internal/core/commands"
	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/core/workflow"
	"github.com/paattu/songcatalog/internal/enrich"
	"github.com/paattu/songcatalog/internal/pool"
	"github.com/paattu/songcatalog/internal/reconcile"
)

var tamil = conf.Language{
	Name:      "Tamil",
	IDSource:  conf.IDSourceTitle,
	Narrative: true,
}

// seedAudio lays out a language audio directory with one preview and its
// clip folder, returning the language directory.
func seedAudio(t *testing.T, base string, durations ...int) string {
	t.Helper()
	langDir := filepath.Join(t.TempDir(), "audio", "tamil")
	require.NoError(t, os.MkdirAll(filepath.Join(langDir, assets.ClipsDirName, base), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(langDir, base+".mp3"), []byte("audio"), 0o644))
	for _, d := range durations {
		clip := filepath.Join(langDir, assets.ClipsDirName, base, fmt.Sprintf(assets.ClipFilePattern, d))
		require.NoError(t, os.WriteFile(clip, []byte("clip"), 0o644))
	}
	return langDir
}

func writePool(t *testing.T, path string, songs []model.Song) {
	t.Helper()
	require.NoError(t, pool.Write(path, songs))
}

func TestBuildWorkflow(t *testing.T) {
	langDir := seedAudio(t, "uyire", 5)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "tamil.csv")
	outPath := filepath.Join(dir, "tamil_pool.json")
	csv := "Track URI,Track Name,Artist Name(s),Album Name\n" +
		"spotify:track:4uLU6hMCjMI7,Uyire,\"Hariharan, K. S. Chithra\",Bombay\n" +
		"spotify:track:5vMV7nNDkNJ8,Vennilave,Hariharan,Minsara Kanavu\n" + // no preview on disk
		"spotify:track:6wNW8oOElOK9,Anjali Anjali,,Duet\n" // no artists
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))

	wf := workflow.NewBuildWorkflow(tamil, conf.Tables{},
		assets.NewResolver(langDir),
		commands.AssetResolveOptions{
			Durations:         []int{5},
			PublicAudioPrefix: "/audio",
			LanguageDir:       "tamil",
		}, nil)

	report, err := wf.Run(context.Background(), csvPath, outPath)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Read)
	assert.Equal(t, 1, report.Admitted)
	assert.Equal(t, 1, report.Skipped[model.SkipNoAudio])
	assert.Equal(t, 1, report.Skipped[model.SkipMissingFields])

	songs, err := pool.Read(outPath)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "uyire", songs[0].ID)
	assert.Equal(t, "Bombay", model.Deref(songs[0].Movie))
	assert.Nil(t, songs[0].Album, "narrative catalogs publish the movie, not the album")
	assert.Equal(t,
		map[string]string{"5": "/audio/tamil/clips/uyire/clip_5s.mp3"},
		songs[0].Audio)
}

func TestBuildWorkflowRejectsBadHeader(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Track Name\nUyire\n"), 0o644))

	wf := workflow.NewBuildWorkflow(tamil, conf.Tables{},
		assets.NewResolver(dir), commands.AssetResolveOptions{}, nil)
	_, err := wf.Run(context.Background(), csvPath, filepath.Join(dir, "out.json"))
	assert.Error(t, err)
}

// The enrich workflow over a fully settled pool needs neither the model
// nor the wiki client; every record passes through the closed gate.
func TestEnrichWorkflowSettledPool(t *testing.T) {
	dir := t.TempDir()
	poolPath := filepath.Join(dir, "tamil_pool.json")
	song := model.Song{
		ID:            "uyire",
		Title:         "Uyire",
		Movie:         model.Ptr("Bombay"),
		Album:         model.Ptr("Bombay"),
		MusicDirector: model.Ptr("A. R. Rahman"),
		Singers:       []string{"Hariharan"},
		Hero:          model.Ptr("Arvind Swamy"),
		Heroine:       model.Ptr("Manisha Koirala"),
		Key:           model.Ptr("D major"),
	}
	writePool(t, poolPath, []model.Song{song})

	cache := enrich.LoadCache(filepath.Join(dir, "cache.json"))
	wf := workflow.NewEnrichWorkflow(tamil, nil, nil, cache,
		workflow.EnrichOptions{InPlace: true})
	report, err := wf.Run(context.Background(), []string{poolPath})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Read)
	assert.Equal(t, 1, report.Updated)
	assert.Zero(t, report.ExternalCalls)

	out, err := pool.Read(poolPath)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, song, out[0])
}

// A pre-seeded cache stands in for the model: the workflow serves the
// stored result and folds it into the record without an API call.
func TestEnrichWorkflowAppliesCachedResult(t *testing.T) {
	dir := t.TempDir()
	poolPath := filepath.Join(dir, "tamil_pool.json")
	song := model.Song{
		ID:            "uyire",
		Title:         "Uyire",
		Movie:         model.Ptr("Bombay"),
		Album:         model.Ptr("Bombay"),
		MusicDirector: model.Ptr("A. R. Rahman"),
		Singers:       []string{"Hariharan"},
		Heroine:       model.Ptr("Manisha Koirala"),
		Key:           model.Ptr("D major"),
	}
	writePool(t, poolPath, []model.Song{song})

	cache := enrich.LoadCache(filepath.Join(dir, "cache.json"))
	payload := enrich.BuildPayload(enrich.Normalize(&song, false), tamil.Name, tamil.QueryHint, nil)
	key := enrich.ItemCacheKey(filepath.Base(poolPath), song.ID)
	_, err := cache.GetOrCompute(key, payload, func() (json.RawMessage, error) {
		return json.RawMessage(`{"hero": "Arvind Swamy"}`), nil
	})
	require.NoError(t, err)

	outDir := filepath.Join(dir, "enriched")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	wf := workflow.NewEnrichWorkflow(tamil, nil, nil, cache,
		workflow.EnrichOptions{OutputDir: outDir})
	report, err := wf.Run(context.Background(), []string{poolPath})
	require.NoError(t, err)
	assert.Equal(t, 1, report.CacheHits)

	out, err := pool.Read(filepath.Join(outDir, "tamil_pool.json"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Arvind Swamy", model.Deref(out[0].Hero))

	// The source pool is untouched when writing elsewhere.
	src, err := pool.Read(poolPath)
	require.NoError(t, err)
	assert.Nil(t, src[0].Hero)
}

func TestEnrichWorkflowWindow(t *testing.T) {
	dir := t.TempDir()
	poolPath := filepath.Join(dir, "pool.json")
	songs := make([]model.Song, 4)
	for i, id := range []string{"a", "b", "c", "d"} {
		songs[i] = model.Song{
			ID: id, Title: id,
			Movie:         model.Ptr("m"),
			Album:         model.Ptr("m"),
			MusicDirector: model.Ptr("x"),
			Hero:          model.Ptr("h"),
			Heroine:       model.Ptr("h"),
			Key:           model.Ptr("C major"),
		}
	}
	writePool(t, poolPath, songs)

	cache := enrich.LoadCache(filepath.Join(dir, "cache.json"))
	wf := workflow.NewEnrichWorkflow(tamil, nil, nil, cache,
		workflow.EnrichOptions{InPlace: true, StartAt: 1, Limit: 2})
	report, err := wf.Run(context.Background(), []string{poolPath})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Read)
	out, err := pool.Read(poolPath)
	require.NoError(t, err)
	assert.Len(t, out, 4, "items outside the window pass through")
}

func TestReconcile(t *testing.T) {
	dir := t.TempDir()
	langDir := seedAudio(t, "uyire", 5)
	duplicatesDir := filepath.Join(dir, "duplicates")

	basePath := filepath.Join(dir, "base.json")
	incomingPath := filepath.Join(dir, "incoming.json")
	outPath := filepath.Join(dir, "new.json")
	writePool(t, basePath, []model.Song{{ID: "uyire", Title: "Uyire"}})
	writePool(t, incomingPath, []model.Song{
		{ID: "uyire", Title: "Uyire",
			Audio: map[string]string{"5": "/audio/tamil/clips/uyire/clip_5s.mp3"}},
		{ID: "vennilave", Title: "Vennilave"},
	})

	result, err := workflow.Reconcile(basePath, incomingPath, outPath, workflow.ReconcileOptions{
		Mode:          reconcile.ModeID,
		ClipsRoot:     langDir,
		DuplicatesDir: duplicatesDir,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.New)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 1, result.ClipsMoved)

	songs, err := pool.Read(outPath)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "vennilave", songs[0].ID)

	assert.NoDirExists(t, filepath.Join(langDir, assets.ClipsDirName, "uyire"))
	assert.DirExists(t, filepath.Join(duplicatesDir, "uyire"))
}

func TestReconcileDryRun(t *testing.T) {
	dir := t.TempDir()
	langDir := seedAudio(t, "uyire", 5)

	basePath := filepath.Join(dir, "base.json")
	incomingPath := filepath.Join(dir, "incoming.json")
	outPath := filepath.Join(dir, "new.json")
	writePool(t, basePath, []model.Song{{ID: "uyire", Title: "Uyire"}})
	writePool(t, incomingPath, []model.Song{{ID: "uyire", Title: "Uyire"}})

	result, err := workflow.Reconcile(basePath, incomingPath, outPath, workflow.ReconcileOptions{
		Mode:          reconcile.ModeID,
		ClipsRoot:     langDir,
		DuplicatesDir: filepath.Join(dir, "duplicates"),
		DryRun:        true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ClipsMoved)
	assert.NoFileExists(t, outPath)
	assert.DirExists(t, filepath.Join(langDir, assets.ClipsDirName, "uyire"))
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.json")
	incomingPath := filepath.Join(dir, "incoming.json")
	outPath := filepath.Join(dir, "merged.json")
	writePool(t, basePath, []model.Song{
		{ID: "uyire", Title: "Uyire", Album: model.Ptr("Bombay")},
		{ID: "vennilave", Title: "Vennilave"},
	})
	writePool(t, incomingPath, []model.Song{
		{ID: "uyire", Title: "Uyire", Album: model.Ptr("Bombay Deluxe")},
		{ID: "kadhal-rojave", Title: "Kadhal Rojave"},
	})

	stats, err := workflow.Merge(basePath, incomingPath, outPath, workflow.MergeOptions{Show: 5, NearSim: 0.9})
	require.NoError(t, err)
	assert.Equal(t, reconcile.MergeStats{Kept: 2, Added: 1}, stats)

	songs, err := pool.Read(outPath)
	require.NoError(t, err)
	require.Len(t, songs, 3)
	assert.Equal(t, "Bombay", model.Deref(songs[0].Album), "first record wins by default")

	stats, err = workflow.Merge(basePath, incomingPath, outPath, workflow.MergeOptions{PreferSecond: true})
	require.NoError(t, err)
	assert.Equal(t, reconcile.MergeStats{Kept: 1, Replaced: 1, Added: 1}, stats)

	songs, err = pool.Read(outPath)
	require.NoError(t, err)
	assert.Equal(t, "Bombay Deluxe", model.Deref(songs[0].Album))
}
