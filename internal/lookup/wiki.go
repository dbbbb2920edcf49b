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

// Package lookup holds the clients for the two external enrichment
// collaborators: the MediaWiki reference-text API and the Gemini
// generative API. This file implements the reference-text side.
//
// A lookup runs a query ladder against the search endpoint (most specific
// phrasing first), fetches the winning page's raw wikitext and plain-text
// intro, and pries a few fields out of the infobox markup. Wikitext is
// noisy (refs, templates, pipe links), so extraction is a cleanup pass
// over the single infobox line per field, not a full parser.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/paattu/songcatalog/internal/conf"
	"github.com/paattu/songcatalog/internal/textutil"
)

// WikiResult is the structured record a completed lookup yields. A nil
// *WikiResult means the search completed and found no page, which is a
// cacheable negative answer, distinct from a transport error.
type WikiResult struct {
	PageTitle string   `json:"page_title"`
	Summary   string   `json:"summary,omitempty"`
	Starring  []string `json:"starring,omitempty"`
	MusicBy   string   `json:"music_by,omitempty"`
}

// Infobox fields queried per lookup. "music" appears under several
// spellings across page generations.
var (
	starringFields = []string{"starring"}
	musicByFields  = []string{"music", "music by", "music_by"}
)

var (
	wikiRefPat      = regexp.MustCompile(`(?is)<ref[^>]*>.*?</ref>`)
	wikiSelfRefPat  = regexp.MustCompile(`(?i)<ref[^/>]*/>`)
	wikiTemplatePat = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	wikiPipeLinkPat = regexp.MustCompile(`\[\[[^|\]]+\|([^\]]+)\]\]`)
	wikiLinkPat     = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
)

// WikiClient talks to one MediaWiki instance.
type WikiClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewWikiClient builds a client from the configured Wikipedia settings.
func NewWikiClient(cfg conf.Wikipedia) *WikiClient {
	timeout := time.Duration(cfg.TimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WikiClient{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// Lookup runs the query ladder for a movie name and returns the
// structured findings from the best-match page, or nil when no query
// produced a result. queries are templates from the language profile;
// %s is replaced with the movie name.
func (w *WikiClient) Lookup(ctx context.Context, movie string, queries []string) (*WikiResult, error) {
	title, err := w.searchTitle(ctx, movie, queries)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, nil
	}

	wikitext, err := w.fetchWikitext(ctx, title)
	if err != nil {
		return nil, err
	}
	summary, err := w.fetchExtract(ctx, title)
	if err != nil {
		return nil, err
	}

	result := &WikiResult{PageTitle: title, Summary: summary}
	if wikitext != "" {
		if starring := extractInfoboxField(wikitext, starringFields); starring != "" {
			result.Starring = textutil.SplitPeople(starring)
		}
		result.MusicBy = extractInfoboxField(wikitext, musicByFields)
	}
	return result, nil
}

// searchTitle tries each query phrasing in order and returns the first
// search hit's page title, or "" when every phrasing comes up empty.
func (w *WikiClient) searchTitle(ctx context.Context, movie string, queries []string) (string, error) {
	if len(queries) == 0 {
		queries = []string{"%s"}
	}
	for _, tmpl := range queries {
		query := fmt.Sprintf(tmpl, movie)
		var data struct {
			Query struct {
				Search []struct {
					Title string `json:"title"`
				} `json:"search"`
			} `json:"query"`
		}
		err := w.apiGet(ctx, url.Values{
			"action":   {"query"},
			"list":     {"search"},
			"srsearch": {query},
			"format":   {"json"},
		}, &data)
		if err != nil {
			return "", err
		}
		if len(data.Query.Search) > 0 {
			return data.Query.Search[0].Title, nil
		}
	}
	return "", nil
}

// fetchWikitext retrieves the raw wikitext of the page's main revision.
func (w *WikiClient) fetchWikitext(ctx context.Context, title string) (string, error) {
	var data struct {
		Query struct {
			Pages map[string]struct {
				Revisions []struct {
					Slots struct {
						Main struct {
							Content string `json:"*"`
						} `json:"main"`
					} `json:"slots"`
				} `json:"revisions"`
			} `json:"pages"`
		} `json:"query"`
	}
	err := w.apiGet(ctx, url.Values{
		"action":  {"query"},
		"prop":    {"revisions"},
		"rvprop":  {"content"},
		"rvslots": {"main"},
		"format":  {"json"},
		"titles":  {title},
	}, &data)
	if err != nil {
		return "", err
	}
	for _, page := range data.Query.Pages {
		if len(page.Revisions) > 0 {
			return page.Revisions[0].Slots.Main.Content, nil
		}
	}
	return "", nil
}

// fetchExtract retrieves the plain-text intro of the page.
func (w *WikiClient) fetchExtract(ctx context.Context, title string) (string, error) {
	var data struct {
		Query struct {
			Pages map[string]struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	err := w.apiGet(ctx, url.Values{
		"action":      {"query"},
		"prop":        {"extracts"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"format":      {"json"},
		"titles":      {title},
	}, &data)
	if err != nil {
		return "", err
	}
	for _, page := range data.Query.Pages {
		return page.Extract, nil
	}
	return "", nil
}

func (w *WikiClient) apiGet(ctx context.Context, params url.Values, target any) error {
	endpoint := fmt.Sprintf("%s/w/api.php?%s", strings.TrimRight(w.baseURL, "/"), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}
	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("wiki request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wiki request: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("wiki response: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("wiki response: %w", err)
	}
	return nil
}

// extractInfoboxField finds the first "| field = value" infobox line for
// any of the field spellings and returns the cleaned value.
func extractInfoboxField(wikitext string, fieldNames []string) string {
	for _, field := range fieldNames {
		pat := regexp.MustCompile(`(?i)\|\s*` + regexp.QuoteMeta(field) + `\s*=\s*(.+)`)
		if m := pat.FindStringSubmatch(wikitext); m != nil {
			value := m[1]
			if idx := strings.IndexByte(value, '\n'); idx >= 0 {
				value = value[:idx]
			}
			return cleanWikiText(value)
		}
	}
	return ""
}

// cleanWikiText strips ref tags, templates (repeatedly, since they nest),
// link markup, and bold/italic quoting from a wikitext fragment.
func cleanWikiText(value string) string {
	text := wikiRefPat.ReplaceAllString(value, "")
	text = wikiSelfRefPat.ReplaceAllString(text, "")
	for {
		next := wikiTemplatePat.ReplaceAllString(text, "")
		if next == text {
			break
		}
		text = next
	}
	text = wikiPipeLinkPat.ReplaceAllString(text, "$1")
	text = wikiLinkPat.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "'''", "")
	text = strings.ReplaceAll(text, "''", "")
	text = textutil.CollapseWhitespace(text)
	return strings.Trim(text, " ,")
}
