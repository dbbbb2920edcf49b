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

// Package cor (Chain of Responsibility) provides the building blocks for
// the catalog workflows. A workflow is a chain of small commands, each of
// which reads its input from a shared context, does one job, and writes
// its output back. The build and enrich pipelines are both expressed this
// way, which keeps each rule independently testable and makes the ordered
// first-match-wins execution of the pipeline explicit.
//
// This file defines the interfaces; the Base* files in this package are
// the default implementations every concrete command embeds.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the reserved context keys the chain pipes data
// through: after each command runs, the value under CtxOut becomes the
// value under CtxIn for the next command.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared property bag passed down a chain for one record.
// It carries the data keys, the errors any command recorded, and the
// standard Go context used for cancellation and tracing.
type Context interface {
	// SetContext sets the standard Go context, used for cancellation
	// signals and OpenTelemetry span propagation.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.
	GetContext() context.Context

	// Add stores a key-value pair and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records an error under the name of the failing command.
	AddError(key string, err error)

	// GetErrors returns every error recorded so far, keyed by command.
	GetErrors() map[string]error

	// Get retrieves a stored value, or nil when the key is absent.
	Get(key string) interface{}

	// Remove deletes a key.
	Remove(key string)

	// HasErrors reports whether any command has recorded an error.
	HasErrors() bool
}

// Executable is anything with a core execution step.
type Executable interface {
	// Execute runs the business logic against the shared context.
	Execute(context Context)
}

// Command is an atomic unit of work in a chain.
type Command interface {
	Executable

	// GetName returns the command's name, used in logs, error keys,
	// and telemetry.
	GetName() string

	// GetInputParam returns the context key this command reads its
	// primary input from.
	GetInputParam() string

	// GetOutputParam returns the context key this command writes its
	// primary output to.
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	// GetTracer returns the command's OpenTelemetry tracer.
	GetTracer() trace.Tracer

	// GetMeter returns the command's OpenTelemetry meter.
	GetMeter() metric.Meter

	// GetSuccessCounter counts successful executions.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter counts failed executions.
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command,
// so chains nest.
type Chain interface {
	Command

	// ContinueOnFailure controls whether the chain keeps running
	// commands after one records an error.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
