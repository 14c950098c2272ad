// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracing is a thin span API used around hashing work. It is a
// no-op unless the binary is built with -tags=otel and tracing is
// initialised from the environment.
package tracing

import "context"

// Span is a unit of traced work.
type Span interface {
	// SetAttribute sets a key-value attribute on the span.
	SetAttribute(key string, value any)
	// RecordError marks the span as failed.
	RecordError(err error)
	// End marks the span as finished.
	End()
}

// Tracer starts spans.
type Tracer interface {
	// Start starts a new span. The returned context carries the span and
	// the span must be ended with End.
	Start(ctx context.Context, name string) (context.Context, Span)
}

var globalTracer Tracer = NoopTracer{}

// SetTracer installs t as the process tracer. A nil t restores the no-op
// tracer.
func SetTracer(t Tracer) {
	if t == nil {
		globalTracer = NoopTracer{}
		return
	}
	globalTracer = t
}

// GetTracer returns the process tracer.
func GetTracer() Tracer {
	return globalTracer
}

// Start starts a span on the process tracer.
func Start(ctx context.Context, name string) (context.Context, Span) {
	return globalTracer.Start(ctx, name)
}

// Enabled reports whether a real tracer is installed.
func Enabled() bool {
	_, noop := globalTracer.(NoopTracer)
	return !noop
}

// Run calls fn inside a span named name carrying attrs. An error returned
// by fn is recorded on the span and passed through.
func Run(ctx context.Context, name string, attrs map[string]any, fn func(context.Context) error) error {
	if !Enabled() {
		return fn(ctx)
	}
	ctx, span := globalTracer.Start(ctx, name)
	defer span.End()
	for k, v := range attrs {
		span.SetAttribute(k, v)
	}
	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return err
}
