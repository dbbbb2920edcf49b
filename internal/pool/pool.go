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

// Package pool reads and writes the persisted record sets and the tabular
// side files around them. A pool is an ordered sequence of song records
// stored as a JSON array; it is mutated only by producing a new sequence
// and replacing the file wholesale.
package pool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/paattu/songcatalog/internal/core/model"
)

// Read loads a pool file. The file must contain a JSON array of song
// records; anything else is an input malformation and is returned as an
// error for the caller to treat as fatal.
func Read(path string) ([]model.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool %s: %w", path, err)
	}
	var items []model.Song
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("pool %s is not a JSON array of songs: %w", path, err)
	}
	return items, nil
}

// Write persists a pool as a 2-space-indented, newline-terminated JSON
// array with the record field order fixed by the Song struct. The file is
// written to a temporary sibling first and renamed into place so a failed
// run never leaves a truncated pool behind.
func Write(path string, items []model.Song) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create pool dir: %w", err)
	}
	if items == nil {
		items = []model.Song{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pool: %w", err)
	}
	data = append(data, '\n')

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write pool temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace pool %s: %w", path, err)
	}
	return nil
}
