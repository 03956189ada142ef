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
	"errors"
	"fmt"
	"log/slog"
)

// OnStartup registers a hook that runs once when the host signals startup,
// in registration order, against the live lifecycle state. If any hook
// returns an error, startup is aborted and serving must not begin.
//
// Example:
//
//	app.OnStartup(func(ctx context.Context, s *uhttp.State) error {
//	    db, err := sql.Open("postgres", dsn)
//	    if err != nil {
//	        return err
//	    }
//	    s.Set("db", db)
//	    return nil
//	})
func (a *App) OnStartup(fn StartupFunc) {
	a.checkMutable("hook registration")
	a.startup = append(a.startup, fn)
}

// OnShutdown registers a hook that runs once when the host signals shutdown,
// in registration order, against the live lifecycle state. A failing hook is
// reported but does not stop the remaining hooks.
//
// Example:
//
//	app.OnShutdown(func(ctx context.Context, s *uhttp.State) error {
//	    if db, ok := s.Get("db"); ok {
//	        return db.(*sql.DB).Close()
//	    }
//	    return nil
//	})
func (a *App) OnShutdown(fn ShutdownFunc) {
	a.checkMutable("hook registration")
	a.shutdown = append(a.shutdown, fn)
}

// Before registers a hook that runs before routing on every call, in
// registration order. See [BeforeFunc] for the short-circuit protocol.
//
// Example:
//
//	app.Before(func(ctx context.Context, r *uhttp.Request) (uhttp.Result, error) {
//	    if r.Headers.Get("authorization") == "" {
//	        return uhttp.Status(401), nil
//	    }
//	    return nil, nil
//	})
func (a *App) Before(fn BeforeFunc, opts ...CallOption) {
	a.checkMutable("hook registration")
	cfg := newCallConfig(opts)
	a.before = append(a.before, beforeEntry{fn: fn, blocking: cfg.blocking})
}

// After registers a hook that runs after routing on every call with the
// request and the response built so far, in registration order. After-hooks
// run whether the response came from a handler, a before-hook short-circuit,
// or a synthesized 404/405.
//
// Example:
//
//	app.After(func(ctx context.Context, r *uhttp.Request, resp *uhttp.Response) error {
//	    resp.Headers.Set("x-request-id", r.ID)
//	    return nil
//	})
func (a *App) After(fn AfterFunc, opts ...CallOption) {
	a.checkMutable("hook registration")
	cfg := newCallConfig(opts)
	a.after = append(a.after, afterEntry{fn: fn, blocking: cfg.blocking})
}

// runStartupHooks executes the startup hooks in order against the live
// state, stopping at the first failure.
func (a *App) runStartupHooks(ctx context.Context) error {
	for i, hook := range a.startup {
		if err := hook(ctx, a.state); err != nil {
			return fmt.Errorf("startup hook %d: %w", i, err)
		}
	}
	return nil
}

// runShutdownHooks executes every shutdown hook in order, logging failures
// as they happen, and returns the joined errors.
func (a *App) runShutdownHooks(ctx context.Context) error {
	var errs []error
	for i, hook := range a.shutdown {
		if err := hook(ctx, a.state); err != nil {
			a.logger.LogAttrs(ctx, slog.LevelError, "shutdown hook failed",
				slog.Int("hook", i),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("shutdown hook %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
