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

package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/paattu/songcatalog/internal/core/cor"
	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/enrich"
	"github.com/paattu/songcatalog/internal/lookup"
)

// ModelEnrich sends the record's payload to the generative model and
// attaches the raw JSON result to the chain context. The call goes
// through the content-hash cache: an unchanged payload is served from
// the cache without touching the API, so re-runs over a mostly-clean
// pool cost almost nothing.
type ModelEnrich struct {
	cor.BaseCommand
	generativeModel    *lookup.QuotaAwareModel
	cache              *enrich.Cache
	poolName           string
	language           string
	queryHint          string
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	retryCounter       metric.Int64Counter
}

// NewModelEnrich creates the model command for one pool file.
//
// Inputs:
//   - name: the command's name.
//   - generativeModel: the rate-limited model wrapper.
//   - cache: the persisted enrichment cache.
//   - poolName: the pool file name, used to scope cache keys.
//   - language: the language folder name, passed in the payload.
//   - queryHint: the language profile's payload hint template.
func NewModelEnrich(
	name string,
	generativeModel *lookup.QuotaAwareModel,
	cache *enrich.Cache,
	poolName string,
	language string,
	queryHint string) *ModelEnrich {

	out := &ModelEnrich{
		BaseCommand:     *cor.NewBaseCommand(name),
		generativeModel: generativeModel,
		cache:           cache,
		poolName:        poolName,
		language:        language,
		queryHint:       queryHint,
	}

	out.inputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.outputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	out.retryCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.retry", out.GetName()))

	return out
}

// Execute builds the payload, consults the cache, and calls the model on
// a miss. A failed call marks the record for the skip tally and the run
// carries on with the next item; output that is not a JSON object is
// recorded as a malformed-output error instead, which the workflow
// escalates, and is never written to the cache.
func (t *ModelEnrich) Execute(context cor.Context) {
	song := context.Get(t.GetInputParam()).(*model.Song)
	defer context.Add(t.GetOutputParam(), song)

	if !gateOpen(context) {
		t.GetSuccessCounter().Add(context.GetContext(), 1)
		return
	}

	var wiki json.RawMessage
	if v := context.Get(CtxWikiResult); v != nil {
		wiki = v.(json.RawMessage)
	}
	payload := enrich.BuildPayload(song, t.language, t.queryHint, wiki)
	key := enrich.ItemCacheKey(t.poolName, song.ID)

	raw, err := t.cache.GetOrCompute(key, payload, func() (json.RawMessage, error) {
		prompt, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, err
		}
		text, err := lookup.GenerateText(
			context.GetContext(),
			t.inputTokenCounter,
			t.outputTokenCounter,
			t.retryCounter,
			t.generativeModel,
			string(prompt),
		)
		if err != nil {
			return nil, err
		}
		return enrich.ObjectResult(text)
	})
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		if errors.Is(err, model.ErrMalformedModelOutput) {
			context.AddError(t.GetName(), fmt.Errorf("song %s: %w", song.ID, err))
			return
		}
		context.AddError(t.GetName(), &model.Skip{Reason: model.SkipEnrichFailed})
		return
	}

	context.Add(CtxModelResult, raw)
	t.GetSuccessCounter().Add(context.GetContext(), 1)
}
