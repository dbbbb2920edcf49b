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

// Hierarchical configuration loading. A base file (".env.toml") carries
// the shared settings and the curated tables; an environment-specific
// file (".env.<runtime>.toml") overwrites whatever it redeclares, which
// is where API keys and machine-local paths live. The directory prefix
// and runtime name come from environment variables so the same binary
// runs unchanged across checkouts and CI.
package conf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ConfigFileBaseName  = ".env"                   // Base name for configuration files.
	ConfigFileExtension = ".toml"                  // Extension for configuration files.
	ConfigSeparator     = "."                      // Separator in override file names.
	EnvConfigFilePrefix = "SONGCATALOG_CONFIG_DIR" // Environment variable naming the config directory.
	EnvConfigRuntime    = "SONGCATALOG_RUNTIME"    // Environment variable naming the runtime (e.g., "local", "test").
	DefaultRuntime      = "local"
)

// fileExists reports whether a file or directory exists at the path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// Load populates target from the base configuration file and then from
// the runtime override file, if either exists. A file that exists but
// fails to decode is a fatal input malformation and is returned as an
// error; the caller aborts the run rather than proceeding on a partial
// configuration.
func Load(target *Config) error {
	prefix := os.Getenv(EnvConfigFilePrefix)
	if prefix != "" && !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}

	runtime := os.Getenv(EnvConfigRuntime)
	if runtime == "" {
		runtime = DefaultRuntime
	}

	baseFile := prefix + ConfigFileBaseName + ConfigFileExtension
	envFile := prefix + ConfigFileBaseName + ConfigSeparator + runtime + ConfigFileExtension

	if fileExists(baseFile) {
		if _, err := toml.DecodeFile(baseFile, target); err != nil {
			return fmt.Errorf("decode base configuration %s: %w", baseFile, err)
		}
	}
	if fileExists(envFile) {
		if _, err := toml.DecodeFile(envFile, target); err != nil {
			return fmt.Errorf("decode environment configuration %s: %w", envFile, err)
		}
	}
	return nil
}

// MustLanguage returns the profile for a language folder name, or an
// error naming the known languages when it is not configured.
func (c *Config) MustLanguage(name string) (Language, error) {
	lang, ok := c.Languages[name]
	if !ok {
		known := make([]string, 0, len(c.Languages))
		for k := range c.Languages {
			known = append(known, k)
		}
		return Language{}, fmt.Errorf("language %q not configured (known: %s)", name, strings.Join(known, ", "))
	}
	return lang, nil
}
