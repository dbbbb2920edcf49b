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

// Package assets matches catalog entries to on-disk audio. A song's audio
// lives under a per-language directory as a whole preview file plus a
// clips subfolder with one fixed-name file per duration:
//
//	<audio-root>/<language>/<preview>.mp3
//	<audio-root>/<language>/clips/<preview>/clip_<seconds>s.mp3
//
// The preview file name has drifted across generations of the downloader
// (assigned slug id, raw track id, legacy sanitized "<artists> - <title>"
// form), so resolution tries an ordered candidate list and keeps the first
// hit. Earlier candidates represent more canonical naming and must win.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// ClipFilePattern is the fixed naming scheme for duration clips, shared
// with the clip-cutting step that produces them.
const ClipFilePattern = "clip_%ds.mp3"

// ClipsDirName is the subfolder of a language directory that holds the
// per-preview clip folders.
const ClipsDirName = "clips"

const previewExt = ".mp3"

// Resolver locates preview audio and enumerates produced clips for one
// language directory.
type Resolver struct {
	// LangDir is the language directory holding preview files and the
	// clips subfolder.
	LangDir string
	// Strict enables content sniffing of the matched preview file. A file
	// whose leading bytes are not an audio container is treated as no
	// match rather than admitted with garbage audio.
	Strict bool
}

// NewResolver returns a Resolver rooted at the given language directory.
func NewResolver(langDir string) *Resolver {
	return &Resolver{LangDir: langDir}
}

// ResolvePreview returns the first candidate name for which a preview
// audio file exists, or the empty string when none exists. Candidates are
// tried strictly in order and empty candidates are skipped. A missing
// preview is an expected per-record condition, not an error; the caller
// skips the record instead of fabricating an empty audio mapping.
func (r *Resolver) ResolvePreview(candidates []string) string {
	for _, name := range candidates {
		if name == "" {
			continue
		}
		path := filepath.Join(r.LangDir, name+previewExt)
		if !fileExists(path) {
			continue
		}
		if r.Strict && !looksLikeAudio(path) {
			continue
		}
		return name
	}
	return ""
}

// EnumerateClips checks, for each requested duration, whether the fixed
// pattern clip file exists under the preview's clip folder, and maps the
// durations that do to their paths relative to the language directory.
// Missing durations are simply absent from the result.
//
// Inputs:
//   - previewBase: The resolved preview name, also the clip folder name.
//   - durations: The configured duration set, in seconds.
//
// Outputs:
//   - map[string]string: duration (as decimal string) to relative path.
func (r *Resolver) EnumerateClips(previewBase string, durations []int) map[string]string {
	clips := make(map[string]string)
	clipDir := filepath.Join(r.LangDir, ClipsDirName, previewBase)
	for _, d := range durations {
		name := fmt.Sprintf(ClipFilePattern, d)
		if fileExists(filepath.Join(clipDir, name)) {
			clips[strconv.Itoa(d)] = filepath.ToSlash(filepath.Join(ClipsDirName, previewBase, name))
		}
	}
	return clips
}

// PublicURL joins a public prefix with path parts, normalizing slashes.
// Used to turn a relative clip path into the path the catalog publishes.
func PublicURL(prefix string, parts ...string) string {
	out := strings.TrimRight(prefix, "/")
	for _, p := range parts {
		p = strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/")
		if p != "" {
			out += "/" + p
		}
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// looksLikeAudio sniffs the file header. Only the leading bytes are read;
// filetype needs at most 262 for its audio matchers.
func looksLikeAudio(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && n == 0 {
		return false
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return false
	}
	switch kind {
	case matchers.TypeMp3, matchers.TypeM4a, matchers.TypeOgg, matchers.TypeFlac, matchers.TypeWav, matchers.TypeAac:
		return true
	}
	return false
}
