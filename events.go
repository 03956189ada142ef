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

import "context"

// Scope identifies what one [App.Serve] invocation is for: the process-level
// lifespan channel or a single HTTP call.
type Scope interface {
	scope()
}

// LifespanScope starts the process-level lifespan channel. The host sends
// [Startup] and [Shutdown] events and receives the matching completion or
// failure events.
type LifespanScope struct{}

func (LifespanScope) scope() {}

// HTTPScope describes one inbound call. The host follows it with
// [BodyChunk] events carrying the request body, and receives a
// [ResponseStart] event followed by [ResponseBody] events.
type HTTPScope struct {
	// Method is the HTTP method.
	Method string

	// Path is the decoded request path.
	Path string

	// RawQuery is the urlencoded query string without the leading "?".
	RawQuery string

	// Headers holds the request headers as received. May be nil.
	Headers *Values
}

func (*HTTPScope) scope() {}

// Event is one message exchanged with the host server over the receive and
// send callbacks of [App.Serve].
type Event interface {
	event()
}

// Startup asks the application to run its startup hooks.
type Startup struct{}

func (Startup) event() {}

// Shutdown asks the application to run its shutdown hooks.
type Shutdown struct{}

func (Shutdown) event() {}

// StartupComplete reports that every startup hook succeeded and serving may
// begin.
type StartupComplete struct{}

func (StartupComplete) event() {}

// StartupFailed reports that a startup hook failed; serving must not begin.
type StartupFailed struct {
	Message string
}

func (StartupFailed) event() {}

// ShutdownComplete reports that every shutdown hook ran without error.
type ShutdownComplete struct{}

func (ShutdownComplete) event() {}

// ShutdownFailed reports that at least one shutdown hook failed. All hooks
// still ran.
type ShutdownFailed struct {
	Message string
}

func (ShutdownFailed) event() {}

// BodyChunk carries part of the request body. More signals that further
// chunks follow.
type BodyChunk struct {
	Body []byte
	More bool
}

func (BodyChunk) event() {}

// ResponseStart opens the response with its status and flattened headers.
type ResponseStart struct {
	Status  int
	Headers *Values
}

func (ResponseStart) event() {}

// ResponseBody carries part of the response body. More signals that further
// chunks follow.
type ResponseBody struct {
	Body []byte
	More bool
}

func (ResponseBody) event() {}

// ReceiveFunc is supplied by the host server to deliver inbound events.
type ReceiveFunc func(ctx context.Context) (Event, error)

// SendFunc is supplied by the host server to accept outbound events.
type SendFunc func(ctx context.Context, ev Event) error
