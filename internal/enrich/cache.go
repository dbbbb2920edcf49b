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

// Package enrich implements the cache-backed memoization layer wrapping
// the external lookups. External calls are the slow and costly part of a
// run, so the contract is strict: an enrichment call is never repeated for
// unchanged input, across process restarts, because the cache persists to
// disk between runs. Entries are addressed by item key and validated by a
// content hash of the exact request payload, so a payload change
// invalidates the entry even when the key is unchanged.
//
// Failures are never cached. A failed lookup surfaces to the caller for
// per-item handling and the item stays unenriched rather than poisoned
// with a null entry. Entries are never auto-evicted; unbounded growth is
// an accepted operating cost, and deleting the cache file simply forces a
// full re-fetch without touching the catalog.
package enrich

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// wikiNamespace is the reserved top-level cache key under which
// reference-text lookups memoize by query instead of by item identity,
// since many records ask about the same movie.
const wikiNamespace = "_wiki"

// Entry is one memoized lookup: the content hash of the request payload
// it answers, and the raw result.
type Entry struct {
	InputHash string          `json:"input_hash"`
	Result    json.RawMessage `json:"result"`
}

// Stats counts cache behavior for the end-of-run report.
type Stats struct {
	ExternalCalls int // compute functions actually invoked
	Hits          int // lookups answered from the cache
}

// Cache is the persisted memoization store. Not safe for concurrent use;
// the pipeline is single threaded.
type Cache struct {
	path    string
	entries map[string]*Entry
	wiki    map[string]json.RawMessage
	stats   Stats
	dirty   bool
}

// LoadCache reads the cache file at path. A missing, unreadable, or
// invalid file is treated as an empty cache, never as a fatal condition:
// the worst outcome is a full re-fetch.
func LoadCache(path string) *Cache {
	c := &Cache{
		path:    path,
		entries: make(map[string]*Entry),
		wiki:    make(map[string]json.RawMessage),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return c
	}
	for key, value := range raw {
		if key == wikiNamespace {
			var wiki map[string]json.RawMessage
			if err := json.Unmarshal(value, &wiki); err == nil {
				c.wiki = wiki
			}
			continue
		}
		var entry Entry
		if err := json.Unmarshal(value, &entry); err == nil && entry.InputHash != "" {
			c.entries[key] = &entry
		}
	}
	return c
}

// ContentHash returns the deterministic digest of a request payload: the
// SHA-1 of its canonical JSON serialization. encoding/json writes map
// keys in sorted order, which makes the serialization independent of the
// order the payload was assembled in.
func ContentHash(payload map[string]any) (string, error) {
	blob, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("serialize payload: %w", err)
	}
	sum := sha1.Sum(blob)
	return hex.EncodeToString(sum[:]), nil
}

// GetOrCompute returns the cached result for (key, payload) when the
// stored hash matches the payload's content hash, and otherwise invokes
// compute, stores its result under the key, and returns it. Errors from
// compute are passed through uncached.
func (c *Cache) GetOrCompute(key string, payload map[string]any, compute func() (json.RawMessage, error)) (json.RawMessage, error) {
	hash, err := ContentHash(payload)
	if err != nil {
		return nil, err
	}
	if entry, ok := c.entries[key]; ok && entry.InputHash == hash {
		c.stats.Hits++
		return entry.Result, nil
	}

	result, err := compute()
	if err != nil {
		return nil, err
	}
	c.stats.ExternalCalls++
	c.entries[key] = &Entry{InputHash: hash, Result: result}
	c.dirty = true
	return result, nil
}

// WikiGet returns the memoized reference lookup for a normalized query.
// The second return distinguishes "never looked up" from a cached
// negative result (an explicit null, meaning the lookup ran and found
// nothing).
func (c *Cache) WikiGet(query string) (json.RawMessage, bool) {
	result, ok := c.wiki[query]
	if ok {
		c.stats.Hits++
	}
	return result, ok
}

// WikiPut memoizes a reference lookup result. A nil result is stored as
// an explicit null: a completed search that found nothing is itself a
// cacheable answer. Transport failures must not be stored.
func (c *Cache) WikiPut(query string, result json.RawMessage) {
	if result == nil {
		result = json.RawMessage("null")
	}
	c.wiki[query] = result
	c.stats.ExternalCalls++
	c.dirty = true
}

// Stats returns the run's cache statistics so far.
func (c *Cache) Stats() Stats {
	return c.stats
}

// Save persists the cache as a single JSON object, written to a temporary
// sibling and renamed into place. Saving an unchanged cache is a no-op.
func (c *Cache) Save() error {
	if !c.dirty {
		return nil
	}
	raw := make(map[string]any, len(c.entries)+1)
	for key, entry := range c.entries {
		raw[key] = entry
	}
	if len(c.wiki) > 0 {
		raw[wikiNamespace] = c.wiki
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := filepath.Join(filepath.Dir(c.path), "."+filepath.Base(c.path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache temp file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace cache %s: %w", c.path, err)
	}
	c.dirty = false
	return nil
}
