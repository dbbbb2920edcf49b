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

package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paattu/songcatalog/internal/identity"
)

func TestAssignUnique(t *testing.T) {
	a := identity.NewAssigner()
	assert.Equal(t, "kadhal-sadugudu", a.Assign("Kadhal Sadugudu", "4uLU6hMC"))
	assert.True(t, a.Used("kadhal-sadugudu"))
	assert.Equal(t, 1, a.Len())
}

func TestAssignCollisionUsesDisambiguator(t *testing.T) {
	a := identity.NewAssigner()
	first := a.Assign("Uyire", "aaaa1111")
	second := a.Assign("Uyire", "bbbb2222")
	assert.Equal(t, "uyire", first)
	assert.Equal(t, "uyire-bbbb2222", second)
}

func TestAssignCollisionFallsBackToCounter(t *testing.T) {
	a := identity.NewAssigner()
	assert.Equal(t, "uyire", a.Assign("Uyire", ""))
	assert.Equal(t, "uyire-2", a.Assign("Uyire", ""))
	assert.Equal(t, "uyire-3", a.Assign("Uyire", ""))
}

// When both the base and the disambiguated candidate are taken, the
// numeric suffix still resolves off the base slug.
func TestAssignDisambiguatorCollision(t *testing.T) {
	a := identity.NewAssigner()
	a.Reserve("uyire")
	a.Reserve("uyire-abcd")
	assert.Equal(t, "uyire-2", a.Assign("Uyire", "abcd"))
}

func TestReserveBlocksHeuristicIDs(t *testing.T) {
	a := identity.NewAssigner()
	a.Reserve("rowdy-baby")
	a.Reserve("rowdy-baby") // idempotent
	assert.Equal(t, "rowdy-baby-2", a.Assign("Rowdy Baby", ""))
	assert.Equal(t, 2, a.Len())
}

func TestAssignEmptyPrimary(t *testing.T) {
	a := identity.NewAssigner()
	assert.Equal(t, "song", a.Assign("", ""))
	assert.Equal(t, "song-2", a.Assign("???", ""))
}
