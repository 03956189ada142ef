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

// Package uhttp is a micro web-application dispatch core.
//
// It receives inbound application-protocol events from a host server,
// routes them to handler functions by path and method, applies ordered
// before/after hooks, manages application lifecycle state, and composes
// independently developed sub-applications into one deployable unit.
// uhttp deliberately ships no network listener; a host server drives an
// [App] through [App.Serve] with typed lifespan and per-call events.
//
// # Key Features
//
//   - Regular-expression route patterns with named capture groups
//   - Strict registration-order matching (path first, then method)
//   - Ordered before/after hooks with an explicit short-circuit protocol
//   - Process-lifetime lifecycle state with per-call shallow snapshots
//   - Application composition via [App.Mount]
//   - Bounded worker pool for blocking handlers alongside cooperative ones
//   - Optional metrics ([Recorder], Prometheus provider) and OpenTelemetry
//     trace spans around dispatch
//
// # Quick Start
//
//	app := uhttp.New()
//
//	app.GET(`/users/(?P<id>\d+)`, func(ctx context.Context, r *uhttp.Request) (uhttp.Result, error) {
//	    return uhttp.JSON(map[string]string{"id": r.Params["id"]}), nil
//	})
//
//	app.Before(func(ctx context.Context, r *uhttp.Request) (uhttp.Result, error) {
//	    if r.Headers.Get("authorization") == "" {
//	        return uhttp.Status(401), nil // short-circuits routing
//	    }
//	    return nil, nil // continue
//	})
//
// The host server then delivers events:
//
//	err := app.Serve(ctx, uhttp.LifespanScope{}, receive, send)
//	err = app.Serve(ctx, &uhttp.HTTPScope{Method: "GET", Path: "/users/42"}, receive, send)
//
// For tests, [App.Test] drives a single call without a host server.
//
// # Handler Results
//
// Handlers and before-hooks return a [Result], a closed set of values with
// a fixed normalization contract: nil becomes an empty 204, [Status] sets a
// bare status, [Text] and [Bytes] become 200 bodies, [JSON] serializes to
// application/json, and a [*Response] passes through unchanged.
//
// # Scope
//
// Sessions, templating, multipart parsing, TLS, storage and listeners are
// left to host servers and extensions built on the same hook points.
package uhttp
