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

// Spreadsheet-export ingestion. Exports vary in header spelling
// ("Track URI" vs "TrackUri", "Genres" vs "generes") and the first header
// cell often carries a UTF-8 BOM, so column resolution goes through a
// normalized-name lookup instead of exact matching.
package pool

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Canonical column names the pipeline reads from an export row.
const (
	ColTrackURI = "Track URI"
	ColTitle    = "Track Name"
	ColAlbum    = "Album Name"
	ColArtists  = "Artist Name(s)"
	ColKey      = "Key"
	ColMode     = "Mode"
	ColGenres   = "Genres"
)

// TrackURIPrefix marks an external catalog reference this pipeline knows
// how to parse a track id out of.
const TrackURIPrefix = "spotify:track:"

// Row is one spreadsheet row with header-resolved access.
type Row struct {
	header map[string]string // normalized name -> actual column name
	values map[string]string
}

// Get returns the trimmed value of the column matching the canonical
// name, tolerating header spelling variants. Missing columns yield "".
func (r *Row) Get(name string) string {
	if actual, ok := r.header[normalizeHeader(name)]; ok {
		return strings.TrimSpace(r.values[actual])
	}
	return ""
}

// ReadRows loads all rows of a CSV export. A missing file or a file
// without a header row is an input malformation returned as an error.
func ReadRows(path string) ([]*Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()
	return parseRows(f, path)
}

func parseRows(r io.Reader, name string) ([]*Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no header found in csv %s", name)
	}

	fields := records[0]
	// Strip the BOM some exporters prepend to the first header cell.
	if len(fields) > 0 {
		fields[0] = strings.TrimPrefix(fields[0], "\uFEFF")
	}
	header := make(map[string]string, len(fields))
	for _, col := range fields {
		if col != "" {
			header[normalizeHeader(col)] = col
		}
	}

	rows := make([]*Row, 0, len(records)-1)
	for _, record := range records[1:] {
		values := make(map[string]string, len(fields))
		for i, col := range fields {
			if col == "" || i >= len(record) {
				continue
			}
			values[col] = record[i]
		}
		rows = append(rows, &Row{header: header, values: values})
	}
	return rows, nil
}

// RequireColumns verifies that every named column resolves in the header
// of at least one row set. Used to fail fast on malformed sources.
func RequireColumns(rows []*Row, names ...string) error {
	if len(rows) == 0 {
		return nil
	}
	for _, name := range names {
		if _, ok := rows[0].header[normalizeHeader(name)]; !ok {
			return fmt.Errorf("required column %q not found", name)
		}
	}
	return nil
}

// ParseTrackID extracts the bare track id from an external catalog URI,
// or "" when the URI is absent or in an unknown scheme.
func ParseTrackID(trackURI string) string {
	trackURI = strings.TrimSpace(trackURI)
	if !strings.HasPrefix(trackURI, TrackURIPrefix) {
		return ""
	}
	parts := strings.Split(trackURI, ":")
	return parts[len(parts)-1]
}

// normalizeHeader lowercases and drops everything that is not a letter or
// digit, so "Track URI", "TrackUri", and " track_uri" all collide.
func normalizeHeader(name string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
