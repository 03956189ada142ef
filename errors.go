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

import "errors"

var (
	// ErrNilHandler indicates that a nil handler was passed to route registration.
	ErrNilHandler = errors.New("handler must not be nil")

	// ErrNoMethods indicates that a route was registered with an empty method set.
	ErrNoMethods = errors.New("route needs at least one method")

	// ErrInvalidPattern indicates that a route pattern failed to compile.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrFrozen indicates that routes, hooks or mounts were modified after serving began.
	ErrFrozen = errors.New("application is frozen")

	// ErrStartupFailed indicates that a startup hook failed and serving never began.
	ErrStartupFailed = errors.New("startup failed")

	// ErrPoolClosed indicates that work was submitted to a closed worker pool.
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrHandlerPanic indicates that a hook or handler panicked during dispatch.
	ErrHandlerPanic = errors.New("panic in hook or handler")

	// ErrUnsupportedScope indicates that Serve received a scope type it does not implement.
	ErrUnsupportedScope = errors.New("unsupported scope type")

	// ErrUnexpectedEvent indicates that the host sent an event the current scope does not accept.
	ErrUnexpectedEvent = errors.New("unexpected event for scope")

	// ErrNilChild indicates that Mount was called with a nil child application.
	ErrNilChild = errors.New("child application must not be nil")
)
