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

package pool_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/pool"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "tamil.json")
	items := []model.Song{
		{ID: "uyire", Title: "Uyire", Movie: model.Ptr("Bombay"), Singers: []string{"Hariharan"}},
		{ID: "vennilave", Title: "Vennilave"},
	}
	require.NoError(t, pool.Write(path, items))

	got, err := pool.Read(path)
	require.NoError(t, err)
	assert.Equal(t, items, got)

	// The file ends with a newline and a nil pool writes an empty array.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	require.NoError(t, pool.Write(path, nil))
	got, err = pool.Read(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadRejectsNonArray(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", `{"id":"x"}`)
	_, err := pool.Read(path)
	assert.Error(t, err)
}

func TestReadRowsHeaderVariants(t *testing.T) {
	csv := "\uFEFFTrack URI,TrackName,artist name(s),Album Name\n" +
		"spotify:track:abc, Uyire ,Hariharan,Bombay\n"
	path := writeFile(t, t.TempDir(), "export.csv", csv)

	rows, err := pool.ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// BOM and header spelling drift are absorbed; values are trimmed.
	assert.Equal(t, "spotify:track:abc", rows[0].Get(pool.ColTrackURI))
	assert.Equal(t, "Uyire", rows[0].Get(pool.ColTitle))
	assert.Equal(t, "Hariharan", rows[0].Get(pool.ColArtists))
	assert.Equal(t, "", rows[0].Get(pool.ColKey))

	require.NoError(t, pool.RequireColumns(rows, pool.ColTrackURI, pool.ColTitle))
	assert.Error(t, pool.RequireColumns(rows, pool.ColGenres))
}

func TestReadRowsEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.csv", "")
	_, err := pool.ReadRows(path)
	assert.Error(t, err)
}

func TestParseTrackID(t *testing.T) {
	assert.Equal(t, "4uLU6hMC", pool.ParseTrackID("spotify:track:4uLU6hMC"))
	assert.Equal(t, "", pool.ParseTrackID("http://example.com/track/1"))
	assert.Equal(t, "", pool.ParseTrackID(""))
}

func TestFormatKey(t *testing.T) {
	major := pool.FormatKey("0", "1")
	require.NotNil(t, major)
	assert.Equal(t, "C major", *major)

	minor := pool.FormatKey("11.0", "0")
	require.NotNil(t, minor)
	assert.Equal(t, "B minor", *minor)

	bare := pool.FormatKey("7", "5")
	require.NotNil(t, bare)
	assert.Equal(t, "G", *bare)

	assert.Nil(t, pool.FormatKey("-1", "1"))
	assert.Nil(t, pool.FormatKey("12", "1"))
	assert.Nil(t, pool.FormatKey("", "1"))
	assert.Nil(t, pool.FormatKey("x", "1"))
}

func TestReadOverrides(t *testing.T) {
	csv := "track_uri,skip,id,title,singers\n" +
		"spotify:track:aaa,,uyire-fixed,Uyire,\n" +
		"spotify:track:bbb,yes,,,\n" +
		",,ignored-no-uri,,\n"
	path := writeFile(t, t.TempDir(), "overrides.csv", csv)

	overrides, err := pool.ReadOverrides(path)
	require.NoError(t, err)
	require.Len(t, overrides, 2)

	fix := overrides["spotify:track:aaa"]
	assert.Equal(t, "uyire-fixed", fix.ID)
	assert.Equal(t, "Uyire", fix.Title)
	assert.False(t, fix.Skip)

	assert.True(t, overrides["spotify:track:bbb"].Skip)
}

func TestReadOverridesMissingFile(t *testing.T) {
	overrides, err := pool.ReadOverrides(filepath.Join(t.TempDir(), "none.csv"))
	require.NoError(t, err)
	assert.Empty(t, overrides)

	overrides, err = pool.ReadOverrides("")
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestWriteSongPoolCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "export", "pool.csv")
	items := []model.Song{
		{ID: "uyire"}, {ID: "vennilave"}, {ID: "uyire"}, {ID: ""},
	}
	n, err := pool.WriteSongPoolCSV(out, items, "tamil")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "song_id,language\nuyire,tamil\nvennilave,tamil\n", string(data))
}

func TestFilterCSV(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.csv",
		"Track URI,Track Name\nspotify:track:aaa,Uyire\n")
	incoming := writeFile(t, dir, "incoming.csv",
		"Track URI,Track Name\nspotify:track:aaa,Uyire\nspotify:track:bbb,Vennilave\n")
	out := filepath.Join(dir, "new.csv")

	result, err := pool.FilterCSV(base, incoming, out, []string{"Track URI"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.BaseRows)
	assert.Equal(t, 2, result.IncomingRows)
	assert.Equal(t, 1, result.Unique)

	rows, err := pool.ReadRows(out)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "spotify:track:bbb", rows[0].Get(pool.ColTrackURI))

	_, err = pool.FilterCSV(base, incoming, out, nil)
	assert.Error(t, err)
}

func TestMergeGenreSet(t *testing.T) {
	dir := t.TempDir()
	setPath := filepath.Join(dir, "tamil-set.csv")
	inputA := writeFile(t, dir, "a.csv",
		"Track URI,Track Name,Genres\n"+
			"spotify:track:aaa,Uyire,Tamil Pop; Filmi\n"+
			"spotify:track:bbb,English Song,Rock\n")
	inputB := writeFile(t, dir, "b.csv",
		"Track URI,Track Name,Genres\n"+
			"spotify:track:aaa,Uyire,tamil pop\n"+ // duplicate of A's row
			"spotify:track:ccc,Vennilave,Tamil Filmi\n")

	added, size, err := pool.MergeGenreSet(setPath, []string{inputA, inputB}, "tamil")
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, size)

	// Re-running against the persisted set adds nothing.
	added, size, err = pool.MergeGenreSet(setPath, []string{inputA, inputB}, "tamil")
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 2, size)
}
