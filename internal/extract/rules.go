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

// Package extract derives structured facts (movie title, music director,
// singer list) from the free-text fields of a record. No single signal is
// reliable alone: titles sometimes name the movie, album strings are
// polluted with soundtrack boilerplate, compilations masquerade as movie
// albums, and credit lists mix composers, singers, and lyricists. The
// extractor therefore runs an ordered cascade of narrow rules where the
// first successful rule wins, narrowing ambiguity layer by layer, with
// human overrides as the designed escape hatch applied elsewhere as the
// final pass.
package extract

// Rule is one step of a first-match-wins cascade: a pure function from an
// input text to an optional fact. Returning ok=false passes control to
// the next rule; returning ok=true ends the cascade even when the fact is
// the explicit "nothing" (empty string), which lets a rule veto all later
// rules.
type Rule func(text string) (fact string, ok bool)

// Cascade runs rules in order against the input and returns the first
// fact produced. The boolean reports whether any rule matched.
func Cascade(text string, rules []Rule) (string, bool) {
	for _, rule := range rules {
		if fact, ok := rule(text); ok {
			return fact, true
		}
	}
	return "", false
}
