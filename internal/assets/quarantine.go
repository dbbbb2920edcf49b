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

package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// Quarantine moves a clip folder (or file) belonging to a duplicate record
// into the quarantine directory. The move is safe to re-run: when the
// destination name is already taken, the source is renamed with a
// "__dupN" suffix instead of overwriting or failing. The chosen
// destination path is returned.
func Quarantine(src, dstDir string) (string, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("create quarantine dir: %w", err)
	}
	dst := filepath.Join(dstDir, filepath.Base(src))
	if !fileExists(dst) {
		return dst, os.Rename(src, dst)
	}
	for counter := 2; ; counter++ {
		candidate := filepath.Join(dstDir, fmt.Sprintf("%s__dup%d", filepath.Base(src), counter))
		if !fileExists(candidate) {
			return candidate, os.Rename(src, candidate)
		}
	}
}
