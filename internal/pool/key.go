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

// Musical key mapping. Exports encode the key as a pitch class number
// (0 = C through 11 = B, -1 = unknown) and the mode as a binary flag.
// Invalid or sentinel values map to "unknown", never to a guessed value.
package pool

import (
	"strconv"
	"strings"
)

// PitchClassNames is the fixed 12-entry pitch class table, with dual
// sharp/flat names for the accidentals.
var PitchClassNames = [12]string{
	"C", "C#/Db", "D", "D#/Eb", "E", "F", "F#/Gb", "G", "G#/Ab", "A", "A#/Bb", "B",
}

// FormatKey maps the raw numeric key and mode columns to a display key
// name such as "C major" or "B minor". The numeric parse is
// float-tolerant ("5.0" means 5). A key of -1, out of range, or
// unparseable yields nil. A mode of 1 appends " major", 0 appends
// " minor", anything else leaves the bare pitch name.
func FormatKey(keyRaw, modeRaw string) *string {
	keyNum, ok := parseNumeric(keyRaw)
	if !ok || keyNum < 0 || keyNum >= len(PitchClassNames) {
		return nil
	}

	name := PitchClassNames[keyNum]
	if modeNum, ok := parseNumeric(modeRaw); ok {
		switch modeNum {
		case 1:
			name += " major"
		case 0:
			name += " minor"
		}
	}
	return &name
}

// parseNumeric parses an integer that may be spelled as a float,
// truncating toward zero.
func parseNumeric(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
