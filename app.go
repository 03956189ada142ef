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
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxContentLength is the default request body limit in bytes.
const DefaultMaxContentLength int64 = 1 << 20

// noopLogger is a singleton no-op logger used when no logger is configured.
// noopLogger discards all log messages.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// App is one web application: an ordered route table, ordered
// startup/shutdown/before/after hook lists, a request body limit, and the
// single process-lifetime lifecycle [State]. Create an App with [New],
// register routes and hooks, optionally [App.Mount] sub-applications, then
// hand it to a host server driving [App.Serve].
//
// Routes, hooks and the body limit are frozen once serving begins;
// registration after that point panics. A frozen App is safe for concurrent
// Serve calls.
type App struct {
	router   *router
	startup  []StartupFunc
	shutdown []ShutdownFunc
	before   []beforeEntry
	after    []afterEntry

	state            *State
	maxContentLength int64

	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer

	workers  int
	pool     *workerPool
	poolOnce sync.Once

	frozen        atomic.Bool
	startupFailed atomic.Bool
}

// StartupFunc runs once at application startup against the live lifecycle
// state. A non-nil error aborts startup; serving must not begin.
type StartupFunc func(ctx context.Context, s *State) error

// ShutdownFunc runs once at application shutdown against the live lifecycle
// state. A non-nil error is reported but does not stop the remaining
// shutdown hooks.
type ShutdownFunc func(ctx context.Context, s *State) error

// BeforeFunc runs before routing. Returning a non-nil [Result]
// short-circuits the call: the result is normalized into the response, the
// remaining before-hooks and the router are skipped, and dispatch jumps to
// the after-hooks. Returning (nil, nil) continues the pipeline. A non-nil
// error is an unhandled failure.
type BeforeFunc func(ctx context.Context, r *Request) (Result, error)

// AfterFunc runs after routing with the request and the response built so
// far, and may mutate the response in place. After-hooks cannot
// short-circuit. A non-nil error is an unhandled failure.
type AfterFunc func(ctx context.Context, r *Request, resp *Response) error

type beforeEntry struct {
	fn       BeforeFunc
	blocking bool
}

type afterEntry struct {
	fn       AfterFunc
	blocking bool
}

// New creates an application with the given options.
//
// Example:
//
//	app := uhttp.New(
//	    uhttp.WithMaxContentLength(4 << 20),
//	    uhttp.WithLogger(slog.Default()),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:           newRouter(),
		state:            newState(),
		maxContentLength: DefaultMaxContentLength,
		logger:           noopLogger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the live lifecycle store. Startup hooks fill it, handlers
// see per-call snapshots of it, shutdown hooks tear it down.
func (a *App) State() *State {
	return a.state
}

// MaxContentLength returns the configured request body limit in bytes.
func (a *App) MaxContentLength() int64 {
	return a.maxContentLength
}

// Frozen reports whether serving has begun and registration is closed.
func (a *App) Frozen() bool {
	return a.frozen.Load()
}

// Routes returns the route table in registration order.
func (a *App) Routes() []*Route {
	out := make([]*Route, len(a.router.routes))
	copy(out, a.router.routes)
	return out
}

// freeze closes the route table, hook lists and limit for mutation and
// starts the worker pool. It runs at most once; both lifespan startup and
// the first dispatched call trigger it.
func (a *App) freeze() {
	a.frozen.Store(true)
	a.poolOnce.Do(func() {
		a.pool = newWorkerPool(a.workers)
	})
}

// checkMutable panics if serving has already begun. Registration and
// mounting are construction-time operations.
func (a *App) checkMutable(op string) {
	if a.frozen.Load() {
		panic("uhttp: " + op + " after serving has begun: " + ErrFrozen.Error())
	}
}

// Route registers a handler for the given pattern and method set.
// The pattern is a regular expression with optional named capture groups and
// must match the whole path; it is compiled here, so syntactically invalid
// patterns fail at registration time, never at request time. Re-registering
// the same pattern overwrites the existing route in place.
//
// Example:
//
//	err := app.Route(`/items/(?P<id>\d+)`, []string{"GET", "DELETE"}, itemHandler)
func (a *App) Route(pattern string, methods []string, handler HandlerFunc, opts ...CallOption) error {
	a.checkMutable("route registration")
	cfg := newCallConfig(opts)
	return a.router.register(pattern, methods, handler, cfg.blocking)
}

// mustRoute backs the per-verb shorthands; a bad pattern is a programming
// error at construction time, so it panics rather than returning an error.
func (a *App) mustRoute(pattern string, method string, handler HandlerFunc, opts []CallOption) {
	if err := a.Route(pattern, []string{method}, handler, opts...); err != nil {
		panic("uhttp: " + err.Error())
	}
}

// GET registers a handler for GET requests on pattern.
// GET panics on an invalid pattern; use [App.Route] for an error return.
//
// Example:
//
//	app.GET(`/users/(?P<id>\d+)`, getUser)
func (a *App) GET(pattern string, handler HandlerFunc, opts ...CallOption) {
	a.mustRoute(pattern, http.MethodGet, handler, opts)
}

// HEAD registers a handler for HEAD requests on pattern.
func (a *App) HEAD(pattern string, handler HandlerFunc, opts ...CallOption) {
	a.mustRoute(pattern, http.MethodHead, handler, opts)
}

// POST registers a handler for POST requests on pattern.
func (a *App) POST(pattern string, handler HandlerFunc, opts ...CallOption) {
	a.mustRoute(pattern, http.MethodPost, handler, opts)
}

// PUT registers a handler for PUT requests on pattern.
func (a *App) PUT(pattern string, handler HandlerFunc, opts ...CallOption) {
	a.mustRoute(pattern, http.MethodPut, handler, opts)
}

// DELETE registers a handler for DELETE requests on pattern.
func (a *App) DELETE(pattern string, handler HandlerFunc, opts ...CallOption) {
	a.mustRoute(pattern, http.MethodDelete, handler, opts)
}

// CONNECT registers a handler for CONNECT requests on pattern.
func (a *App) CONNECT(pattern string, handler HandlerFunc, opts ...CallOption) {
	a.mustRoute(pattern, http.MethodConnect, handler, opts)
}

// OPTIONS registers a handler for OPTIONS requests on pattern.
func (a *App) OPTIONS(pattern string, handler HandlerFunc, opts ...CallOption) {
	a.mustRoute(pattern, http.MethodOptions, handler, opts)
}

// TRACE registers a handler for TRACE requests on pattern.
func (a *App) TRACE(pattern string, handler HandlerFunc, opts ...CallOption) {
	a.mustRoute(pattern, http.MethodTrace, handler, opts)
}

// PATCH registers a handler for PATCH requests on pattern.
func (a *App) PATCH(pattern string, handler HandlerFunc, opts ...CallOption) {
	a.mustRoute(pattern, http.MethodPatch, handler, opts)
}
