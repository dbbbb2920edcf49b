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
	"fmt"

	"github.com/paattu/songcatalog/internal/conf"
	"github.com/paattu/songcatalog/internal/core/cor"
	"github.com/paattu/songcatalog/internal/core/model"
	"github.com/paattu/songcatalog/internal/enrich"
)

// ResultApply folds the model's JSON result back into the song. Every key
// present in the result wins, including explicit nulls, which the model
// uses to confirm a field is genuinely unknown. Output that does not
// parse as a JSON object is a malformed-output error, which the workflow
// escalates to a fatal run failure rather than quietly keeping garbage.
type ResultApply struct {
	cor.BaseCommand
	language conf.Language
}

// NewResultApply creates the apply command.
func NewResultApply(name string, language conf.Language) *ResultApply {
	return &ResultApply{BaseCommand: *cor.NewBaseCommand(name), language: language}
}

// Execute parses and applies the model result left by ModelEnrich.
func (t *ResultApply) Execute(context cor.Context) {
	song := context.Get(t.GetInputParam()).(*model.Song)

	v := context.Get(CtxModelResult)
	if !gateOpen(context) || v == nil {
		t.GetSuccessCounter().Add(context.GetContext(), 1)
		context.Add(t.GetOutputParam(), song)
		return
	}

	result, err := enrich.ParseResult(v.(json.RawMessage))
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("song %s: %w", song.ID, err))
		return
	}

	song = enrich.Apply(song, result, t.language.StripFeatured)
	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), song)
}
