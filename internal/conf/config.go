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

// Package conf defines the data structures for application configuration,
// loaded from TOML files. Besides the usual knobs (paths, model
// parameters, server settings) the configuration carries the curated
// domain-knowledge tables: known music directors, known lyricists, and
// compilation keyword hints. Those tables are data, not code, so the same
// extraction engine serves multiple catalogs and languages and a table
// update never requires a rebuild.
//
// Structs:
//   - Language: Per-language profile controlling identity derivation,
//     title normalization, and narrative-fact extraction.
//   - Tables: The curated lookup tables used by the fact extractor.
//   - GenerativeModel: Parameters for one Gemini model configuration.
//   - Wikipedia: Reference-text lookup settings.
//   - Assets: Audio root layout and clip duration settings.
//   - Server: Read-only catalog API settings.
//   - Config: The top-level aggregate.
package conf

// IDSource selects which text the Identity Assigner derives a song's
// identifier from.
const (
	IDSourceTitle       = "title"        // slug of the title alone
	IDSourceArtistTitle = "artist_title" // slug of "<artists>-<title>"
)

// Language is the per-language catalog profile.
type Language struct {
	Name           string   `toml:"name"`            // Display name of the language (e.g., "Tamil").
	IDSource       string   `toml:"id_source"`       // Identity derivation mode, one of the IDSource constants.
	StripFeatured  bool     `toml:"strip_featured"`  // Whether titles embed "feat./ft." credits that must be stripped.
	Narrative      bool     `toml:"narrative"`       // Whether records carry movie/music-director/hero/heroine context.
	SearchQueries  []string `toml:"search_queries"`  // Reference-lookup query ladder; %s is replaced by the movie name.
	QueryHint      string   `toml:"query_hint"`      // Optional enrichment payload hint; %s is replaced by the movie name.
	OverridesPath  string   `toml:"overrides"`       // Default overrides CSV path for this language.
	DefaultCSVPath string   `toml:"csv"`             // Default spreadsheet-export path for this language.
	DefaultOutPath string   `toml:"out"`             // Default pool output path for this language.
}

// Tables holds the curated lookup tables consumed by the fact extractor.
// Map keys are canonical person keys (see textutil.CanonicalPersonKey);
// values are the canonical display forms.
type Tables struct {
	MusicDirectors   map[string]string `toml:"music_directors"`   // canonical key -> display name
	Lyricists        []string          `toml:"lyricists"`         // canonical keys of known non-performing lyricists
	CompilationHints []string          `toml:"compilation_hints"` // lowercase substrings marking compilation albums
}

// GenerativeModel mirrors the parameters of one configured Gemini model.
type GenerativeModel struct {
	Model              string  `toml:"model"`               // Model name (e.g., "gemini-2.0-flash").
	SystemInstructions string  `toml:"system_instructions"` // System prompt for the cleaning task.
	Temperature        float32 `toml:"temperature"`         // Sampling temperature; 0 for deterministic cleanup.
	TopP               float32 `toml:"top_p"`               // Nucleus sampling parameter.
	TopK               float32 `toml:"top_k"`               // Top-K sampling parameter.
	MaxTokens          int32   `toml:"max_tokens"`          // Output token cap.
	OutputFormat       string  `toml:"output_format"`       // Response MIME type; must be "application/json".
	RateLimit          int     `toml:"rate_limit"`          // Requests per second allowed against the model.
}

// Wikipedia configures the reference-text lookup collaborator.
type Wikipedia struct {
	BaseURL          string `toml:"base_url"`           // MediaWiki instance base URL.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // Per-request timeout.
	UserAgent        string `toml:"user_agent"`         // User-Agent header sent with every request.
}

// Assets configures the on-disk audio layout.
type Assets struct {
	Root              string `toml:"root"`                // Root directory containing one subfolder per language.
	PublicAudioPrefix string `toml:"public_audio_prefix"` // Public URL prefix that serves the audio root.
	Durations         []int  `toml:"durations"`           // Clip durations (seconds) expected per preview.
	Strict            bool   `toml:"strict"`              // Sniff preview file content before accepting a match.
}

// Enrichment configures the cache-backed external enrichment pass.
type Enrichment struct {
	CachePath   string `toml:"cache_path"`   // Path of the persisted enrichment cache JSON file.
	Model       string `toml:"model"`        // Key into Config.AgentModels selecting the model to use.
	FillUnknown string `toml:"fill_unknown"` // How to render unknown fields: "null", "empty", or "unknown".
}

// Server configures the read-only catalog API.
type Server struct {
	Port        int    `toml:"port"`         // TCP port to listen on.
	CatalogDir  string `toml:"catalog_dir"`  // Directory containing the published pool JSON files.
	AllowOrigin string `toml:"allow_origin"` // CORS origin allowed to read the catalog.
}

// Config is the root container for all configuration, loaded from TOML.
type Config struct {
	Application struct {
		Name         string `toml:"name"`           // Application name, used in logging and the meter namespace.
		GeminiAPIKey string `toml:"gemini_api_key"` // API key for the Gemini backend; usually set in the env override file.
	} `toml:"application"`
	Assets      Assets                     `toml:"assets"`
	Enrichment  Enrichment                 `toml:"enrichment"`
	Wikipedia   Wikipedia                  `toml:"wikipedia"`
	Server      Server                     `toml:"server"`
	Tables      Tables                     `toml:"tables"`
	Languages   map[string]Language        `toml:"languages"`    // Profiles keyed by language folder name (e.g., "tamil").
	AgentModels map[string]GenerativeModel `toml:"agent_models"` // Gemini model configurations keyed by a logical name.
}

// NewConfig creates an initialized Config. Maps must be allocated before
// the TOML decoder populates them.
func NewConfig() *Config {
	return &Config{
		Languages:   make(map[string]Language),
		AgentModels: make(map[string]GenerativeModel),
	}
}
