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

package enrich_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/enrich"
)

func TestGetOrComputeMemoizes(t *testing.T) {
	cache := enrich.LoadCache(filepath.Join(t.TempDir(), "cache.json"))
	payload := map[string]any{"title": "Uyire", "movie": "Bombay"}

	calls := 0
	compute := func() (json.RawMessage, error) {
		calls++
		return json.RawMessage(`{"title":"Uyire"}`), nil
	}

	first, err := cache.GetOrCompute("tamil.json:uyire", payload, compute)
	require.NoError(t, err)
	second, err := cache.GetOrCompute("tamil.json:uyire", payload, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, 1, cache.Stats().ExternalCalls)
	assert.Equal(t, 1, cache.Stats().Hits)
}

// A payload change invalidates the entry even though the key is the same.
func TestGetOrComputeHashInvalidation(t *testing.T) {
	cache := enrich.LoadCache(filepath.Join(t.TempDir(), "cache.json"))

	calls := 0
	compute := func() (json.RawMessage, error) {
		calls++
		return json.RawMessage(`{}`), nil
	}

	_, err := cache.GetOrCompute("k", map[string]any{"title": "A"}, compute)
	require.NoError(t, err)
	_, err = cache.GetOrCompute("k", map[string]any{"title": "B"}, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

// Model output that is not a JSON object must fail the compute step, not
// land in the cache: a stored malformed result would be replayed on every
// re-run with the unchanged payload, with no recovery short of deleting
// the cache file.
func TestMalformedModelOutputNotCached(t *testing.T) {
	cache := enrich.LoadCache(filepath.Join(t.TempDir(), "cache.json"))
	payload := map[string]any{"title": "Uyire"}

	calls := 0
	garbage := func() (json.RawMessage, error) {
		calls++
		return enrich.ObjectResult("I am not JSON, sorry")
	}

	_, err := cache.GetOrCompute("tamil.json:uyire", payload, garbage)
	assert.ErrorIs(t, err, model.ErrMalformedModelOutput)

	// The identical payload computes again instead of replaying garbage.
	_, err = cache.GetOrCompute("tamil.json:uyire", payload, garbage)
	assert.ErrorIs(t, err, model.ErrMalformedModelOutput)
	assert.Equal(t, 2, calls)

	// A later well-formed response is cached as usual.
	result, err := cache.GetOrCompute("tamil.json:uyire", payload, func() (json.RawMessage, error) {
		return enrich.ObjectResult(`{"hero": "Arvind Swamy"}`)
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hero": "Arvind Swamy"}`, string(result))
	_, err = cache.GetOrCompute("tamil.json:uyire", payload, garbage)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	cache := enrich.LoadCache(filepath.Join(t.TempDir(), "cache.json"))
	payload := map[string]any{"title": "A"}

	boom := errors.New("model unavailable")
	_, err := cache.GetOrCompute("k", payload, func() (json.RawMessage, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	// The failure left no entry behind; the next call computes again.
	calls := 0
	result, err := cache.GetOrCompute("k", payload, func() (json.RawMessage, error) {
		calls++
		return json.RawMessage(`{}`), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NotNil(t, result)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cache.json")
	cache := enrich.LoadCache(path)
	payload := map[string]any{"title": "Uyire"}

	_, err := cache.GetOrCompute("tamil.json:uyire", payload, func() (json.RawMessage, error) {
		return json.RawMessage(`{"movie":"Bombay"}`), nil
	})
	require.NoError(t, err)
	cache.WikiPut("bombay", json.RawMessage(`{"page_title":"Bombay (film)"}`))
	require.NoError(t, cache.Save())

	reloaded := enrich.LoadCache(path)
	result, err := reloaded.GetOrCompute("tamil.json:uyire", payload, func() (json.RawMessage, error) {
		t.Fatal("reloaded cache must answer without computing")
		return nil, nil
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"movie":"Bombay"}`, string(result))

	wiki, ok := reloaded.WikiGet("bombay")
	assert.True(t, ok)
	assert.JSONEq(t, `{"page_title":"Bombay (film)"}`, string(wiki))
}

// A completed search that found nothing is itself a cacheable answer,
// distinct from a query that was never looked up.
func TestWikiNegativeResult(t *testing.T) {
	cache := enrich.LoadCache(filepath.Join(t.TempDir(), "cache.json"))

	_, ok := cache.WikiGet("never asked")
	assert.False(t, ok)

	cache.WikiPut("obscure movie", nil)
	result, ok := cache.WikiGet("obscure movie")
	assert.True(t, ok)
	assert.Equal(t, "null", string(result))
}

func TestLoadCacheTolerantOfBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	cache := enrich.LoadCache(path)
	_, ok := cache.WikiGet("anything")
	assert.False(t, ok)
}

func TestContentHashDeterministic(t *testing.T) {
	a, err := enrich.ContentHash(map[string]any{"b": 2, "a": 1})
	require.NoError(t, err)
	b, err := enrich.ContentHash(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := enrich.ContentHash(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
