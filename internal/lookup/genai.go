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

// This file implements a decorator around the Generative AI client. The
// wrapper adds rate limiting and a bounded retry loop to the base model
// so that a long enrichment run neither trips API quotas nor dies on a
// single transient failure.
//
// Structs:
//   - QuotaAwareModel: wraps a configured model handle with a rate limiter.
//
// Functions:
//   - NewGenAIClient: builds the API-key authenticated client.
//   - NewQuotaAwareModel: applies a GenerativeModel config section and wraps
//     the result with a limiter.
//   - GenerateText: executes a text prompt with retries and telemetry.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/paattu/songcatalog/internal/conf"
)

// MaxGenerateRetries caps how many times a failed generation call is
// reissued before the error is surfaced to the caller.
const MaxGenerateRetries = 3

// retryBackoff is how long to wait after a failed call before retrying.
// Quota errors in particular need the window to roll over.
var retryBackoff = 30 * time.Second

// DefaultSafetySettings turns off content blocking for every harm
// category. The inputs are song titles and album names from our own
// catalog exports, so nothing in the prompt stream is untrusted.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// QuotaAwareModel is a decorator that bundles a generation config, a
// model name, and the shared model handle together with a rate limiter.
// Callers go through GenerateContent, which blocks until the limiter
// grants a slot, so concurrent commands cannot exceed the quota.
type QuotaAwareModel struct {
	GenerateConfig *genai.GenerateContentConfig
	ModelName      string
	ModelHandle    *genai.Models
	RateLimit      *rate.Limiter
}

// NewGenAIClient creates the Generative AI client authenticated with an
// API key. When apiKey is empty the client library falls back to the
// GEMINI_API_KEY environment variable.
func NewGenAIClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

// NewQuotaAwareModel applies a GenerativeModel configuration section to a
// fresh generation config and wraps it with a per-second rate limiter.
//
// Inputs:
//   - client: the shared Generative AI client.
//   - values: the model section from the configuration file.
//
// Outputs:
//   - *QuotaAwareModel: the wrapped, rate-limited model.
func NewQuotaAwareModel(client *genai.Client, values *conf.GenerativeModel) *QuotaAwareModel {
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](values.Temperature),
		TopP:              genai.Ptr[float32](values.TopP),
		TopK:              genai.Ptr[float32](values.TopK),
		MaxOutputTokens:   values.MaxTokens,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}},
		SafetySettings:    DefaultSafetySettings,
		ResponseMIMEType:  values.OutputFormat,
	}
	requestsPerSecond := values.RateLimit
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &QuotaAwareModel{
		GenerateConfig: config,
		ModelName:      values.Model,
		ModelHandle:    client.Models,
		RateLimit:      rate.NewLimiter(rate.Every(time.Second), requestsPerSecond),
	}
}

// GenerateContent waits for a rate-limiter slot and issues one generation
// call. Retrying is the caller's concern; this method makes exactly one
// attempt so the limiter accounting stays honest.
func (q *QuotaAwareModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerateConfig)
}

// GenerateText executes a plain-text prompt against a quota-aware model,
// retrying transient failures and recording token usage on the supplied
// OpenTelemetry counters. The response text has any markdown code fences
// stripped so JSON output can be unmarshaled directly.
//
// Inputs:
//   - ctx: the context for the request.
//   - inputTokenCounter: counter for prompt tokens consumed.
//   - outputTokenCounter: counter for candidate tokens generated.
//   - retryCounter: counter incremented once per retry attempt.
//   - model: the rate-limited model to call.
//   - prompt: the full prompt text.
//
// Outputs:
//   - string: the concatenated candidate text.
//   - error: the last failure when every retry is exhausted.
func GenerateText(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	retryCounter metric.Int64Counter,
	model *QuotaAwareModel,
	prompt string,
) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxGenerateRetries; attempt++ {
		if attempt > 0 {
			retryCounter.Add(ctx, 1)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retryBackoff):
			}
		}
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = err
			continue
		}
		if resp.UsageMetadata != nil {
			inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
			outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
		}
		return trimCodeFence(collectText(resp)), nil
	}
	if lastErr == nil {
		lastErr = errors.New("generation failed with no recorded cause")
	}
	return "", fmt.Errorf("generation failed after %d retries: %w", MaxGenerateRetries, lastErr)
}

func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func trimCodeFence(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "```json")
	value = strings.TrimPrefix(value, "```")
	value = strings.TrimSuffix(value, "```")
	return strings.TrimSpace(value)
}
