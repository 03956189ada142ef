// Copyright 2025 The µHTTP Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package uhttp

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option defines functional options for application configuration.
type Option func(*App)

// WithMaxContentLength sets the maximum accepted request body size in bytes.
// Bodies exceeding the limit short-circuit to a 413 response before any hook
// runs. The default is [DefaultMaxContentLength]. Non-positive values are
// ignored.
//
// Example:
//
//	app := uhttp.New(uhttp.WithMaxContentLength(64 << 10))
func WithMaxContentLength(n int64) Option {
	return func(a *App) {
		if n > 0 {
			a.maxContentLength = n
		}
	}
}

// WithLogger sets the structured logger used for lifecycle events and
// unhandled dispatch failures. Without it, a no-op logger is used; dispatch
// behavior is identical either way.
//
// Example:
//
//	app := uhttp.New(uhttp.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithWorkers sets the size of the bounded worker pool that blocking hooks
// and handlers are offloaded to. The default is runtime.NumCPU().
//
// Example:
//
//	app := uhttp.New(uhttp.WithWorkers(32))
func WithWorkers(n int) Option {
	return func(a *App) {
		a.workers = n
	}
}

// WithRecorder sets a dispatch [Recorder] invoked once per call with the
// final status and elapsed time. See [NewPrometheusRecorder] for the
// built-in Prometheus provider.
func WithRecorder(rec Recorder) Option {
	return func(a *App) {
		a.recorder = rec
	}
}

// WithTracer enables an OpenTelemetry span around each dispatched call.
//
// Example:
//
//	tracer := otel.Tracer("uhttp")
//	app := uhttp.New(uhttp.WithTracer(tracer))
func WithTracer(tracer trace.Tracer) Option {
	return func(a *App) {
		a.tracer = tracer
	}
}

// callConfig carries per-registration settings for handlers and hooks.
type callConfig struct {
	blocking bool
}

// CallOption configures a single handler or hook registration.
type CallOption func(*callConfig)

// Blocking marks the registered handler or hook as blocking. Blocking
// callables are offloaded to the bounded worker pool and awaited instead of
// running inline on the dispatching goroutine. Ordering within one call's
// hook sequence is unaffected.
//
// Example:
//
//	app.GET(`/report`, renderReport, uhttp.Blocking())
func Blocking() CallOption {
	return func(c *callConfig) {
		c.blocking = true
	}
}

func newCallConfig(opts []CallOption) callConfig {
	var cfg callConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
