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

package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/reconcile"
)

func song(id, title string, singers ...string) *model.Song {
	return &model.Song{ID: id, Title: title, Singers: singers}
}

func ids(songs []*model.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.ID
	}
	return out
}

func TestTitleSingersKey(t *testing.T) {
	// Singer order and case do not change the key.
	a := song("a", "Uyire", "Hariharan", "K. S. Chithra")
	b := song("b", "UYIRE", "k. s. chithra", "HARIHARAN")
	assert.Equal(t, reconcile.TitleSingersKey(a), reconcile.TitleSingersKey(b))
	assert.Equal(t, "uyire::hariharan,k. s. chithra", reconcile.TitleSingersKey(a))

	// Empty records never match each other.
	assert.Equal(t, "", reconcile.TitleSingersKey(&model.Song{}))
	assert.Equal(t, "uyire::", reconcile.TitleSingersKey(song("x", "Uyire")))
}

func TestMergeKey(t *testing.T) {
	assert.Equal(t, "uyire", reconcile.MergeKey(song("uyire", "Other Title")))
	assert.Equal(t, "uyire::", reconcile.MergeKey(song("", "Uyire")))
	assert.Equal(t, "", reconcile.MergeKey(&model.Song{}))
}

func TestClassifyModes(t *testing.T) {
	base := []*model.Song{
		song("uyire", "Uyire", "Hariharan"),
		song("vennilave", "Vennilave", "Hariharan", "Sadhana Sargam"),
	}
	incoming := []*model.Song{
		song("uyire", "Completely Different", "Nobody"),  // id hit only
		song("other-id", "Vennilave", "Sadhana Sargam", "Hariharan"), // content hit only
		song("new-song", "New Song", "Somebody"),
	}

	byID, err := reconcile.Classify(incoming, base, reconcile.ModeID)
	require.NoError(t, err)
	assert.Equal(t, []string{"other-id", "new-song"}, ids(byID.New))

	byContent, err := reconcile.Classify(incoming, base, reconcile.ModeTitleSingers)
	require.NoError(t, err)
	assert.Equal(t, []string{"uyire", "new-song"}, ids(byContent.New))

	byBoth, err := reconcile.Classify(incoming, base, reconcile.ModeBoth)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-song"}, ids(byBoth.New))
	assert.Equal(t, []string{"uyire", "other-id"}, ids(byBoth.Duplicates))

	_, err = reconcile.Classify(incoming, base, "nonsense")
	assert.Error(t, err)
}

func TestMergeFirstWins(t *testing.T) {
	base := []*model.Song{
		song("uyire", "Uyire Base"),
		song("vennilave", "Vennilave"),
	}
	incoming := []*model.Song{
		song("uyire", "Uyire Incoming"),
		song("new-one", "New One"),
	}

	merged, stats := reconcile.Merge(base, incoming, false)
	assert.Equal(t, reconcile.MergeStats{Kept: 2, Replaced: 0, Added: 1}, stats)
	assert.Equal(t, []string{"uyire", "vennilave", "new-one"}, ids(merged))
	assert.Equal(t, "Uyire Base", merged[0].Title)
}

func TestMergePreferSecond(t *testing.T) {
	base := []*model.Song{song("uyire", "Uyire Base"), song("vennilave", "Vennilave")}
	incoming := []*model.Song{song("uyire", "Uyire Incoming")}

	merged, stats := reconcile.Merge(base, incoming, true)
	assert.Equal(t, reconcile.MergeStats{Kept: 1, Replaced: 1, Added: 0}, stats)
	// The replacement lands in the base record's position.
	assert.Equal(t, []string{"uyire", "vennilave"}, ids(merged))
	assert.Equal(t, "Uyire Incoming", merged[0].Title)
}

// Records with no key at all can never collide and are always appended.
func TestMergeKeylessAlwaysAppended(t *testing.T) {
	base := []*model.Song{{}, song("a", "A")}
	incoming := []*model.Song{{}}

	merged, stats := reconcile.Merge(base, incoming, false)
	assert.Len(t, merged, 3)
	assert.Equal(t, 1, stats.Added)
}

func TestFindDuplicateClusters(t *testing.T) {
	base := []*model.Song{
		song("uyire", "Uyire", "Hariharan"),
		song("uyire", "Uyire Again", "Someone"), // within-base id collision
	}
	incoming := []*model.Song{
		song("fresh", "Uyire", "Hariharan"), // across content collision
	}

	clusters := reconcile.FindDuplicateClusters(base, incoming)

	var kinds []string
	for _, c := range clusters {
		kinds = append(kinds, c.Kind+"/"+c.KeyBy)
	}
	assert.Equal(t, []string{"across/title_singers", "within/id"}, kinds)

	assert.Len(t, clusters[0].Songs, 2)
	assert.Equal(t, "uyire::hariharan", clusters[0].Key)
	assert.Len(t, clusters[1].Songs, 2)
	assert.Equal(t, "uyire", clusters[1].Key)
}

func TestNearDuplicates(t *testing.T) {
	pool := []*model.Song{
		song("a", "Munbe Vaa", "Shreya"),
		song("b", "Munbe Vaaa", "Naresh"), // spelling drift
		song("c", "Totally Different Song", "X"),
	}

	pairs := reconcile.NearDuplicates(pool, 0.9)
	require.Len(t, pairs, 1)
	assert.Equal(t, "a", pairs[0].First.ID)
	assert.Equal(t, "b", pairs[0].Second.ID)
	assert.GreaterOrEqual(t, pairs[0].Similarity, float32(0.9))

	// Pairs sharing an exact content key are exact duplicates, not near
	// ones, and are excluded from the report.
	exact := []*model.Song{
		song("a", "Uyire", "Hariharan"),
		song("b", "Uyire", "Hariharan"),
	}
	assert.Empty(t, reconcile.NearDuplicates(exact, 0.5))
}
