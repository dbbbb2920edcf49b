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

// Tabular exports and CSV-level reconciliation helpers that sit around
// the JSON pools: the song-pool CSV consumed by the game backend, the
// genre-tag set builder that merges raw exports into a language set, and
// the base-vs-incoming CSV filter.
package pool

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paattu/songcatalog/internal/core/model"
)

// WriteSongPoolCSV exports the "song_id,language" CSV the game backend
// imports. Duplicate and empty ids are dropped, first occurrence wins,
// source order is otherwise preserved.
func WriteSongPoolCSV(path string, items []model.Song, language string) (int, error) {
	seen := make(map[string]struct{}, len(items))
	var ids []string
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	f, err := createWithDir(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"song_id", "language"}); err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := w.Write([]string{id, language}); err != nil {
			return 0, err
		}
	}
	w.Flush()
	return len(ids), w.Error()
}

// FilterResult reports a CSV-level filter run.
type FilterResult struct {
	BaseRows     int
	IncomingRows int
	Unique       int
}

// FilterCSV writes the incoming rows whose composite key (built from the
// named key columns) does not appear in the base file. This is the
// CSV-side twin of reconcile.Classify, used when the pools only exist as
// spreadsheets.
func FilterCSV(basePath, incomingPath, outPath string, keyColumns []string) (*FilterResult, error) {
	if len(keyColumns) == 0 {
		return nil, fmt.Errorf("at least one key column is required")
	}
	baseRows, err := ReadRows(basePath)
	if err != nil {
		return nil, err
	}
	incomingRows, err := ReadRows(incomingPath)
	if err != nil {
		return nil, err
	}

	baseKeys := make(map[string]struct{}, len(baseRows))
	for _, row := range baseRows {
		baseKeys[compositeKey(row, keyColumns)] = struct{}{}
	}

	var unique []*Row
	for _, row := range incomingRows {
		if _, dup := baseKeys[compositeKey(row, keyColumns)]; dup {
			continue
		}
		unique = append(unique, row)
	}

	if len(incomingRows) == 0 {
		return nil, fmt.Errorf("incoming csv %s has no rows", incomingPath)
	}
	columns := columnOrder(incomingRows[0])
	if err := writeRows(outPath, columns, unique); err != nil {
		return nil, err
	}
	return &FilterResult{BaseRows: len(baseRows), IncomingRows: len(incomingRows), Unique: len(unique)}, nil
}

// MergeGenreSet unions rows from the input exports whose Genres column
// contains the language tag (case-insensitive substring) into the set
// file, keyed by Track URI. Existing set rows are preserved; the output
// is sorted by Track URI so re-runs produce deterministic files. Returns
// the number of newly added rows and the final set size.
func MergeGenreSet(setPath string, inputPaths []string, genreTag string) (added, size int, err error) {
	existing := make(map[string]map[string]string)
	var header []string
	if fileExists(setPath) {
		setRows, err := ReadRows(setPath)
		if err != nil {
			return 0, 0, err
		}
		if len(setRows) > 0 {
			header = columnOrder(setRows[0])
		}
		for _, row := range setRows {
			key := row.Get(ColTrackURI)
			if key != "" {
				existing[key] = materialize(row, header)
			}
		}
	}

	tag := strings.ToLower(genreTag)
	seenInRun := make(map[string]struct{})
	for _, inPath := range inputPaths {
		rows, err := ReadRows(inPath)
		if err != nil {
			return 0, 0, err
		}
		if len(rows) == 0 {
			continue
		}
		if err := RequireColumns(rows, ColTrackURI, ColGenres); err != nil {
			return 0, 0, fmt.Errorf("%s: %w", inPath, err)
		}
		if header == nil {
			header = columnOrder(rows[0])
		}
		for _, row := range rows {
			if !strings.Contains(strings.ToLower(row.Get(ColGenres)), tag) {
				continue
			}
			key := row.Get(ColTrackURI)
			if key == "" {
				continue
			}
			if _, seen := seenInRun[key]; seen {
				continue
			}
			seenInRun[key] = struct{}{}
			if _, known := existing[key]; known {
				continue
			}
			existing[key] = materialize(row, header)
			added++
		}
	}
	if header == nil {
		return 0, 0, fmt.Errorf("no inputs provided a usable header")
	}

	keys := make([]string, 0, len(existing))
	for k := range existing {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := createWithDir(setPath)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return 0, 0, err
	}
	for _, k := range keys {
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = existing[k][col]
		}
		if err := w.Write(record); err != nil {
			return 0, 0, err
		}
	}
	w.Flush()
	return added, len(existing), w.Error()
}

func compositeKey(row *Row, columns []string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = row.Get(col)
	}
	return strings.Join(parts, "\x1f")
}

// columnOrder recovers a stable column order from a row's header map.
func columnOrder(row *Row) []string {
	columns := make([]string, 0, len(row.header))
	for _, actual := range row.header {
		columns = append(columns, actual)
	}
	sort.Strings(columns)
	return columns
}

func materialize(row *Row, columns []string) map[string]string {
	out := make(map[string]string, len(columns))
	for _, col := range columns {
		out[col] = row.Get(col)
	}
	return out
}

func writeRows(path string, columns []string, rows []*Row) error {
	f, err := createWithDir(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = row.Get(col)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func createWithDir(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.Create(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
