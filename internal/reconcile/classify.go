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

package reconcile

import (
	"fmt"

	"github.com/paattu/songcatalog/internal/core/model"
)

// Classification is the outcome of comparing an incoming pool against a
// base pool. Order within each slice follows the incoming pool.
type Classification struct {
	New        []*model.Song
	Duplicates []*model.Song
}

// Classify splits incoming songs into new entries and duplicates of the
// base pool. The id key is checked before the content key; in mode
// ModeBoth a hit on either marks the song as a duplicate.
func Classify(incoming, base []*model.Song, mode string) (Classification, error) {
	checkID := mode == ModeID || mode == ModeBoth
	checkContent := mode == ModeTitleSingers || mode == ModeBoth
	if !checkID && !checkContent {
		return Classification{}, fmt.Errorf("unknown reconcile mode %q", mode)
	}

	baseIDs := make(map[string]struct{}, len(base))
	baseContent := make(map[string]struct{}, len(base))
	for _, s := range base {
		if key := IDKey(s); key != "" {
			baseIDs[key] = struct{}{}
		}
		if key := TitleSingersKey(s); key != "" {
			baseContent[key] = struct{}{}
		}
	}

	var out Classification
	for _, s := range incoming {
		if isKnown(s, baseIDs, baseContent, checkID, checkContent) {
			out.Duplicates = append(out.Duplicates, s)
		} else {
			out.New = append(out.New, s)
		}
	}
	return out, nil
}

func isKnown(s *model.Song, ids, content map[string]struct{}, checkID, checkContent bool) bool {
	if checkID {
		if key := IDKey(s); key != "" {
			if _, ok := ids[key]; ok {
				return true
			}
		}
	}
	if checkContent {
		if key := TitleSingersKey(s); key != "" {
			if _, ok := content[key]; ok {
				return true
			}
		}
	}
	return false
}
