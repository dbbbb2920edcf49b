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
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/paattu/songcatalog/internal/core/model"
)

// Cluster kinds. A within cluster fell out of a single pool; a cross
// cluster spans the base and incoming pools.
const (
	ClusterWithin = "within"
	ClusterAcross = "across"
)

// Cluster groups songs that collide on one key.
type Cluster struct {
	Kind  string // ClusterWithin or ClusterAcross
	KeyBy string // ModeID or ModeTitleSingers
	Key   string
	Songs []*model.Song
}

// FindDuplicateClusters reports every key collision inside each pool and
// across the two pools, on both the id key and the content key. Clusters
// are sorted by key for stable report output.
func FindDuplicateClusters(base, incoming []*model.Song) []Cluster {
	var clusters []Cluster
	for _, keyed := range []struct {
		name string
		fn   func(*model.Song) string
	}{
		{ModeID, IDKey},
		{ModeTitleSingers, TitleSingersKey},
	} {
		clusters = append(clusters, withinClusters(base, keyed.name, keyed.fn)...)
		clusters = append(clusters, withinClusters(incoming, keyed.name, keyed.fn)...)
		clusters = append(clusters, acrossClusters(base, incoming, keyed.name, keyed.fn)...)
	}
	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].Kind != clusters[j].Kind {
			return clusters[i].Kind < clusters[j].Kind
		}
		if clusters[i].KeyBy != clusters[j].KeyBy {
			return clusters[i].KeyBy < clusters[j].KeyBy
		}
		return clusters[i].Key < clusters[j].Key
	})
	return clusters
}

func withinClusters(pool []*model.Song, keyBy string, fn func(*model.Song) string) []Cluster {
	groups := groupByKey(pool, fn)
	var clusters []Cluster
	for key, songs := range groups {
		if len(songs) > 1 {
			clusters = append(clusters, Cluster{Kind: ClusterWithin, KeyBy: keyBy, Key: key, Songs: songs})
		}
	}
	return clusters
}

func acrossClusters(base, incoming []*model.Song, keyBy string, fn func(*model.Song) string) []Cluster {
	baseGroups := groupByKey(base, fn)
	incomingGroups := groupByKey(incoming, fn)
	var clusters []Cluster
	for key, fromBase := range baseGroups {
		fromIncoming, ok := incomingGroups[key]
		if !ok {
			continue
		}
		songs := append(append([]*model.Song{}, fromBase...), fromIncoming...)
		clusters = append(clusters, Cluster{Kind: ClusterAcross, KeyBy: keyBy, Key: key, Songs: songs})
	}
	return clusters
}

func groupByKey(pool []*model.Song, fn func(*model.Song) string) map[string][]*model.Song {
	groups := make(map[string][]*model.Song)
	for _, s := range pool {
		if key := fn(s); key != "" {
			groups[key] = append(groups[key], s)
		}
	}
	return groups
}

// NearDuplicate is a pair of songs whose titles read alike even though
// their exact keys differ. Report material only; nothing acts on it.
type NearDuplicate struct {
	First      *model.Song
	Second     *model.Song
	Similarity float32
}

// NearDuplicates scans a pool for title pairs at or above the similarity
// threshold whose content keys differ. Titles are compared lowercased
// with Jaro-Winkler, which tolerates the spelling drift common in
// transliterated names. Pairs sort by descending similarity.
func NearDuplicates(pool []*model.Song, threshold float32) []NearDuplicate {
	type entry struct {
		song  *model.Song
		title string
		key   string
	}
	entries := make([]entry, 0, len(pool))
	for _, s := range pool {
		title := strings.ToLower(strings.TrimSpace(s.Title))
		if title == "" {
			continue
		}
		entries = append(entries, entry{song: s, title: title, key: TitleSingersKey(s)})
	}

	var pairs []NearDuplicate
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[i].key != "" && entries[i].key == entries[j].key {
				continue
			}
			sim, err := edlib.StringsSimilarity(entries[i].title, entries[j].title, edlib.JaroWinkler)
			if err != nil || sim < threshold {
				continue
			}
			pairs = append(pairs, NearDuplicate{
				First:      entries[i].song,
				Second:     entries[j].song,
				Similarity: sim,
			})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Similarity > pairs[j].Similarity })
	return pairs
}
