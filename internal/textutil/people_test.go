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

package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paattu/songcatalog/internal/textutil"
)

func TestSplitPeople(t *testing.T) {
	got := textutil.SplitPeople("A. R. Rahman; Shreya Ghoshal, Hariharan & Chinmayi")
	assert.Equal(t, []string{"A. R. Rahman", "Shreya Ghoshal", "Hariharan", "Chinmayi"}, got)

	got = textutil.SplitPeople("Anirudh Ravichander and Dhanush<br/>Shruti Haasan")
	assert.Equal(t, []string{"Anirudh Ravichander", "Dhanush", "Shruti Haasan"}, got)

	assert.Nil(t, textutil.SplitPeople("  "))
	assert.Equal(t, []string{"Solo Artist"}, textutil.SplitPeople("Solo Artist"))
}

func TestSplitPeopleSimple(t *testing.T) {
	// "&" stays inside a single act's name on the conservative split.
	got := textutil.SplitPeopleSimple("Salim & Sulaiman, Shreya Ghoshal")
	assert.Equal(t, []string{"Salim & Sulaiman", "Shreya Ghoshal"}, got)

	assert.Nil(t, textutil.SplitPeopleSimple(""))
}

func TestHasEmbeddedDelimiter(t *testing.T) {
	assert.True(t, textutil.HasEmbeddedDelimiter("Hariharan, Chinmayi"))
	assert.False(t, textutil.HasEmbeddedDelimiter("Hariharan"))
}

func TestCanonicalPersonKey(t *testing.T) {
	assert.Equal(t, "a r rahman", textutil.CanonicalPersonKey("A. R. Rahman"))
	assert.Equal(t, "a r rahman", textutil.CanonicalPersonKey("a_r_rahman"))
	assert.Equal(t, "ilaiyaraaja", textutil.CanonicalPersonKey("Ilaiyaraāja"))
	assert.Equal(t, "", textutil.CanonicalPersonKey("   "))
}
