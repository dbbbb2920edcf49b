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

package conf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paattu/songcatalog/internal/conf"
)

const baseConfig = `
[application]
name = "songcatalog"

[assets]
root = "data/audio"
durations = [5, 10]

[tables]
lyricists = ["vairamuthu"]

[tables.music_directors]
"a r rahman" = "A. R. Rahman"

[languages.tamil]
name = "Tamil"
id_source = "title"
narrative = true
search_queries = ["%s Tamil film", "%s"]
`

const testOverride = `
[application]
gemini_api_key = "test-key"

[assets]
root = "/tmp/audio"
`

func writeConfigs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(baseConfig), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test.toml"), []byte(testOverride), 0o644))
	return dir
}

func TestLoadBaseAndOverride(t *testing.T) {
	dir := writeConfigs(t)
	t.Setenv(conf.EnvConfigFilePrefix, dir+string(os.PathSeparator))
	t.Setenv(conf.EnvConfigRuntime, "test")

	cfg := conf.NewConfig()
	require.NoError(t, conf.Load(cfg))

	assert.Equal(t, "songcatalog", cfg.Application.Name)
	// The override file wins where it redeclares, and only there.
	assert.Equal(t, "test-key", cfg.Application.GeminiAPIKey)
	assert.Equal(t, "/tmp/audio", cfg.Assets.Root)
	assert.Equal(t, []int{5, 10}, cfg.Assets.Durations)

	assert.Equal(t, "A. R. Rahman", cfg.Tables.MusicDirectors["a r rahman"])
	assert.Equal(t, []string{"vairamuthu"}, cfg.Tables.Lyricists)

	lang, err := cfg.MustLanguage("tamil")
	require.NoError(t, err)
	assert.True(t, lang.Narrative)
	assert.Equal(t, conf.IDSourceTitle, lang.IDSource)
	assert.Len(t, lang.SearchQueries, 2)
}

func TestLoadMissingFilesIsEmpty(t *testing.T) {
	t.Setenv(conf.EnvConfigFilePrefix, t.TempDir()+string(os.PathSeparator))
	t.Setenv(conf.EnvConfigRuntime, "test")

	cfg := conf.NewConfig()
	require.NoError(t, conf.Load(cfg))
	assert.Empty(t, cfg.Application.Name)
}

func TestLoadMalformedFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte("not [valid toml"), 0o644))
	t.Setenv(conf.EnvConfigFilePrefix, dir+string(os.PathSeparator))
	t.Setenv(conf.EnvConfigRuntime, "test")

	assert.Error(t, conf.Load(conf.NewConfig()))
}

func TestMustLanguageUnknown(t *testing.T) {
	cfg := conf.NewConfig()
	cfg.Languages["tamil"] = conf.Language{Name: "Tamil"}
	_, err := cfg.MustLanguage("klingon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tamil")
}
