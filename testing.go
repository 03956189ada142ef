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
	"strings"
)

// TestRequest describes one simulated call for [App.Test].
type TestRequest struct {
	// Method is the HTTP method; defaults to GET.
	Method string

	// Target is the request target: a path with an optional query string,
	// e.g. "/users/42?verbose=1".
	Target string

	// Headers are the request headers. May be nil.
	Headers *Values

	// Body is the request body. Delivered as a single chunk.
	Body []byte
}

// TestResponse is the collected reply of a simulated call.
type TestResponse struct {
	// StatusCode is the response status.
	StatusCode int

	// Headers are the flattened wire headers, including the synthesized
	// content-type, content-length and set-cookie entries.
	Headers *Values

	// Body is the full response body.
	Body []byte
}

// Test executes one call against the application without a host server,
// synthesizing the host-contract events. It is meant for handler, hook and
// composition tests. Like real serving, the first Test call freezes the
// application.
//
// Example:
//
//	resp, err := app.Test(ctx, uhttp.TestRequest{Method: "GET", Target: "/users/42"})
//	require.NoError(t, err)
//	assert.Equal(t, 200, resp.StatusCode)
func (a *App) Test(ctx context.Context, req TestRequest) (*TestResponse, error) {
	method := req.Method
	if method == "" {
		method = "GET"
	}
	path, rawQuery, _ := strings.Cut(req.Target, "?")

	scope := &HTTPScope{
		Method:   method,
		Path:     path,
		RawQuery: rawQuery,
		Headers:  req.Headers,
	}

	sent := false
	receive := func(ctx context.Context) (Event, error) {
		if sent {
			return nil, fmt.Errorf("%w: body already delivered", ErrUnexpectedEvent)
		}
		sent = true
		return BodyChunk{Body: req.Body}, nil
	}

	resp := &TestResponse{}
	started := false
	send := func(ctx context.Context, ev Event) error {
		switch e := ev.(type) {
		case ResponseStart:
			if started {
				return fmt.Errorf("%w: duplicate response start", ErrUnexpectedEvent)
			}
			started = true
			resp.StatusCode = e.Status
			resp.Headers = e.Headers
		case ResponseBody:
			if !started {
				return fmt.Errorf("%w: response body before start", ErrUnexpectedEvent)
			}
			resp.Body = append(resp.Body, e.Body...)
		default:
			return fmt.Errorf("%w: %T from http scope", ErrUnexpectedEvent, ev)
		}
		return nil
	}

	if err := a.Serve(ctx, scope, receive, send); err != nil {
		return nil, err
	}
	if !started {
		return nil, fmt.Errorf("%w: no response produced", ErrUnexpectedEvent)
	}
	return resp, nil
}

// TestStartup drives the lifespan startup handshake and returns an error if
// a startup hook failed.
func (a *App) TestStartup(ctx context.Context) error {
	return a.testLifespan(ctx, Startup{})
}

// TestShutdown drives the lifespan shutdown handshake and returns the joined
// shutdown hook errors, if any.
func (a *App) TestShutdown(ctx context.Context) error {
	return a.testLifespan(ctx, Shutdown{})
}

// testLifespan sends one lifespan event and translates the reported outcome
// into an error.
func (a *App) testLifespan(ctx context.Context, ev Event) error {
	delivered := false
	receive := func(ctx context.Context) (Event, error) {
		if delivered {
			return nil, context.Canceled
		}
		delivered = true
		return ev, nil
	}

	var failure error
	done := false
	send := func(ctx context.Context, out Event) error {
		done = true
		switch e := out.(type) {
		case StartupComplete, ShutdownComplete:
		case StartupFailed:
			failure = fmt.Errorf("%w: %s", ErrStartupFailed, e.Message)
		case ShutdownFailed:
			failure = fmt.Errorf("shutdown failed: %s", e.Message)
		default:
			return fmt.Errorf("%w: %T from lifespan scope", ErrUnexpectedEvent, out)
		}
		return nil
	}

	err := a.Serve(ctx, LifespanScope{}, receive, send)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if !done {
		return fmt.Errorf("%w: no lifespan outcome", ErrUnexpectedEvent)
	}
	return failure
}
