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

// Package identity assigns the stable, URL- and filesystem-safe identifier
// every song record carries. Identifier collisions are common in practice
// (remixes, reprises, the same title from two movies), so collision
// handling is deterministic and never drops a record: a disambiguating
// fragment is tried first, then an incrementing numeric suffix.
//
// The Assigner owns the "used identifiers" set for one run. It is an
// explicit value rather than process state so that the component can be
// tested in isolation and, if the pipeline is ever parallelized, the set
// has a single owner that can guard it.
package identity

import (
	"fmt"

	"github.com/paattu/songcatalog/internal/textutil"
)

// Assigner tracks the identifiers already handed out in the current run.
// It is not safe for concurrent use; the pipeline is single threaded and
// a later parallel version must serialize access per update.
type Assigner struct {
	used map[string]struct{}
}

// NewAssigner returns an Assigner with an empty used-identifier set.
func NewAssigner() *Assigner {
	return &Assigner{used: make(map[string]struct{})}
}

// Assign produces a unique identifier for the given primary text.
//
// The base candidate is the slug of the primary text. On collision the
// slug of "base-<disambiguator>" is tried (when a disambiguator is
// available), and if that also collides, numeric suffixes "-2", "-3", ...
// are appended until an unused candidate is found. The chosen identifier
// is registered into the used set before returning, so no later call in
// the same run can select it again.
//
// Inputs:
//   - primary: The text the identifier derives from. Which text that is
//     (title alone, or an artist+title composite) is a language-profile
//     decision made by the caller.
//   - disambiguator: An optional stable fragment, typically the first
//     eight characters of an external track id. Empty means unavailable.
//
// Outputs:
//   - string: The assigned identifier. Never empty, never a duplicate of
//     a previously assigned or reserved identifier.
func (a *Assigner) Assign(primary, disambiguator string) string {
	base := textutil.Slugify(primary)
	id := base
	if a.taken(id) && disambiguator != "" {
		id = textutil.Slugify(base + "-" + disambiguator)
	}
	for counter := 2; a.taken(id); counter++ {
		id = textutil.Slugify(fmt.Sprintf("%s-%d", base, counter))
	}
	a.used[id] = struct{}{}
	return id
}

// Reserve registers an identifier chosen outside the assigner, such as an
// id supplied by a human override row. Reserving an identifier twice is
// harmless.
func (a *Assigner) Reserve(id string) {
	if id != "" {
		a.used[id] = struct{}{}
	}
}

// Used reports whether an identifier has been assigned or reserved.
func (a *Assigner) Used(id string) bool {
	return a.taken(id)
}

// Len returns the number of identifiers handed out so far.
func (a *Assigner) Len() int {
	return len(a.used)
}

func (a *Assigner) taken(id string) bool {
	_, ok := a.used[id]
	return ok
}
