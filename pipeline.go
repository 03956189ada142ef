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
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Serve is the single entry point for the host server. The scope selects
// between the process-level lifespan channel and one HTTP call; receive and
// send carry the host-contract events. Serve returns an error only
// for transport failures and contract violations — application-level
// failures are turned into responses or lifespan failure events, never
// returned.
//
// Serve is safe for concurrent use for HTTP scopes once serving has begun.
func (a *App) Serve(ctx context.Context, scope Scope, receive ReceiveFunc, send SendFunc) error {
	switch s := scope.(type) {
	case LifespanScope:
		return a.serveLifespan(ctx, receive, send)
	case *HTTPScope:
		return a.serveHTTP(ctx, s, receive, send)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedScope, scope)
	}
}

// serveLifespan loops over lifespan events. Startup runs the startup hooks
// and freezes the application; a hook failure reports StartupFailed and
// leaves the application refusing calls. Shutdown runs every shutdown hook,
// reports the outcome, drains the worker pool and returns.
func (a *App) serveLifespan(ctx context.Context, receive ReceiveFunc, send SendFunc) error {
	for {
		ev, err := receive(ctx)
		if err != nil {
			return err
		}
		switch ev.(type) {
		case Startup:
			a.freeze()
			if err := a.runStartupHooks(ctx); err != nil {
				a.startupFailed.Store(true)
				a.logger.LogAttrs(ctx, slog.LevelError, "startup failed",
					slog.String("error", err.Error()),
				)
				return send(ctx, StartupFailed{Message: err.Error()})
			}
			a.logger.LogAttrs(ctx, slog.LevelInfo, "startup complete")
			if err := send(ctx, StartupComplete{}); err != nil {
				return err
			}
		case Shutdown:
			hookErr := a.runShutdownHooks(ctx)
			if a.pool != nil {
				a.pool.Close()
			}
			if hookErr != nil {
				return send(ctx, ShutdownFailed{Message: hookErr.Error()})
			}
			a.logger.LogAttrs(ctx, slog.LevelInfo, "shutdown complete")
			return send(ctx, ShutdownComplete{})
		default:
			return fmt.Errorf("%w: %T in lifespan scope", ErrUnexpectedEvent, ev)
		}
	}
}

// serveHTTP handles one call: body collection with the 413 short-circuit,
// request construction, dispatch, and response serialization.
func (a *App) serveHTTP(ctx context.Context, scope *HTTPScope, receive ReceiveFunc, send SendFunc) error {
	if a.startupFailed.Load() {
		return ErrStartupFailed
	}
	// Hosts that skip the lifespan protocol still freeze on first call.
	if !a.frozen.Load() {
		a.freeze()
	}

	body, tooLarge, err := a.readBody(ctx, receive)
	if err != nil {
		return err
	}
	if tooLarge {
		// Short-circuit before any hook runs.
		return a.sendResponse(ctx, send, errorResponse(http.StatusRequestEntityTooLarge))
	}

	req := newRequest(scope, body, a.state.Snapshot())
	resp := a.dispatch(ctx, req)
	return a.sendResponse(ctx, send, resp)
}

// readBody accumulates body chunks until the host signals the end, or until
// the configured maximum is exceeded.
func (a *App) readBody(ctx context.Context, receive ReceiveFunc) (body []byte, tooLarge bool, err error) {
	for {
		ev, err := receive(ctx)
		if err != nil {
			return nil, false, err
		}
		chunk, ok := ev.(BodyChunk)
		if !ok {
			return nil, false, fmt.Errorf("%w: %T in http scope", ErrUnexpectedEvent, ev)
		}
		body = append(body, chunk.Body...)
		if int64(len(body)) > a.maxContentLength {
			return nil, true, nil
		}
		if !chunk.More {
			return body, false, nil
		}
	}
}

// dispatch runs the hook/route pipeline for one request and always produces
// a response. Observability wraps the run: an optional trace span and an
// optional recorder observation around the whole pipeline.
func (a *App) dispatch(ctx context.Context, req *Request) *Response {
	start := time.Now()

	var span trace.Span
	if a.tracer != nil {
		ctx, span = a.tracer.Start(ctx, req.Method+" "+req.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", req.Method),
				attribute.String("url.path", req.Path),
			),
		)
	}

	resp := a.run(ctx, req)

	if span != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", resp.Status))
		span.End()
	}
	if a.recorder != nil {
		a.recorder.Record(ctx, req, resp.Status, time.Since(start))
	}
	return resp
}

// run executes before-hooks, routing, the handler and after-hooks in strict
// order. Any unhandled failure — a hook or handler error, a panic, or a
// result that cannot be normalized — stops the pipeline and yields a
// generic 500 without crashing the dispatch goroutine.
func (a *App) run(ctx context.Context, req *Request) *Response {
	var resp *Response

	for _, entry := range a.before {
		res, err := a.invokeBefore(ctx, entry, req)
		if err != nil {
			return a.unhandled(ctx, req, err)
		}
		if res != nil {
			r, err := normalize(res)
			if err != nil {
				return a.unhandled(ctx, req, err)
			}
			resp = r
			break
		}
	}

	if resp == nil {
		switch out := a.router.resolve(req.Path, req.Method); out.kind {
		case resolveNotFound:
			resp = errorResponse(http.StatusNotFound)
		case resolveMethodNotAllowed:
			resp = errorResponse(http.StatusMethodNotAllowed)
		default:
			req.Params = out.params
			res, err := a.invokeHandler(ctx, out.route, req)
			if err != nil {
				return a.unhandled(ctx, req, err)
			}
			resp, err = normalize(res)
			if err != nil {
				return a.unhandled(ctx, req, err)
			}
		}
	}

	for _, entry := range a.after {
		if err := a.invokeAfter(ctx, entry, req, resp); err != nil {
			return a.unhandled(ctx, req, err)
		}
	}
	return resp
}

// unhandled logs an unhandled failure and synthesizes the generic 500.
// Nothing from the failed call leaks into later calls.
func (a *App) unhandled(ctx context.Context, req *Request, err error) *Response {
	a.logger.LogAttrs(ctx, slog.LevelError, "unhandled failure",
		slog.String("request_id", req.ID),
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.String("error", err.Error()),
	)
	return errorResponse(http.StatusInternalServerError)
}

// invokeBefore runs one before-hook, inline or via the worker pool.
func (a *App) invokeBefore(ctx context.Context, entry beforeEntry, req *Request) (res Result, err error) {
	err = a.invoke(ctx, entry.blocking, func() error {
		var hookErr error
		res, hookErr = entry.fn(ctx, req)
		return hookErr
	})
	return res, err
}

// invokeHandler runs the matched route handler, inline or via the pool.
func (a *App) invokeHandler(ctx context.Context, rt *Route, req *Request) (res Result, err error) {
	err = a.invoke(ctx, rt.blocking, func() error {
		var handlerErr error
		res, handlerErr = rt.handler(ctx, req)
		return handlerErr
	})
	return res, err
}

// invokeAfter runs one after-hook, inline or via the pool.
func (a *App) invokeAfter(ctx context.Context, entry afterEntry, req *Request, resp *Response) error {
	return a.invoke(ctx, entry.blocking, func() error {
		return entry.fn(ctx, req, resp)
	})
}

// invoke is the concurrency bridge. Cooperative callables run inline on the
// dispatching goroutine; blocking ones are offloaded to the bounded worker
// pool and awaited, so one slow call never stalls the others. Panics are
// converted to errors either way.
func (a *App) invoke(ctx context.Context, blocking bool, fn func() error) error {
	call := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
			}
		}()
		return fn()
	}

	if !blocking {
		return call()
	}
	var err error
	if poolErr := a.pool.Do(ctx, func() { err = call() }); poolErr != nil {
		return poolErr
	}
	return err
}

// sendResponse serializes the final response to the transport events the
// host expects: a response-start with status and flattened headers, then
// one body event.
func (a *App) sendResponse(ctx context.Context, send SendFunc, resp *Response) error {
	start := ResponseStart{
		Status:  resp.Status,
		Headers: resp.wireHeaders(),
	}
	if err := send(ctx, start); err != nil {
		return err
	}
	return send(ctx, ResponseBody{Body: resp.Body})
}
