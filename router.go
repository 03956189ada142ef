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
	"regexp"
	"slices"
	"strings"
)

// HandlerFunc is a route handler. It receives the per-call [Request] and
// returns a [Result] to be normalized into the response. A non-nil error is
// an unhandled failure and yields a generic 500.
type HandlerFunc func(ctx context.Context, r *Request) (Result, error)

// Route is one registered (pattern, methods, handler) triple. Routes are
// immutable once registered; re-registering the same pattern overwrites the
// route in place, keeping its position in registration order.
type Route struct {
	pattern  string
	re       *regexp.Regexp
	methods  map[string]struct{}
	handler  HandlerFunc
	blocking bool
}

// Pattern returns the path-matching expression as registered.
func (rt *Route) Pattern() string { return rt.pattern }

// Methods returns the accepted HTTP methods in sorted order.
func (rt *Route) Methods() []string {
	out := make([]string, 0, len(rt.methods))
	for m := range rt.methods {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// Blocking reports whether the handler is offloaded to the worker pool.
func (rt *Route) Blocking() bool { return rt.blocking }

// router holds the ordered route table. Resolution is strict registration
// order: the first pattern matching the path wins, and a method mismatch on
// that pattern is final even if a later pattern would accept the method.
type router struct {
	routes []*Route
	index  map[string]int // pattern -> position, for overwrite semantics
}

func newRouter() *router {
	return &router{index: make(map[string]int)}
}

// resolveKind tags the outcome of a resolution.
type resolveKind int

const (
	resolveMatched resolveKind = iota
	resolveNotFound
	resolveMethodNotAllowed
)

// resolution is the structured outcome of resolve. route and params are set
// only for resolveMatched.
type resolution struct {
	kind   resolveKind
	route  *Route
	params map[string]string
}

// register compiles pattern and appends (or overwrites) a route.
// Patterns are regular expressions with named capture groups and match the
// whole path; compilation failures — including duplicate capture group
// names, which the regexp package rejects — surface here, never at request
// time.
func (r *router) register(pattern string, methods []string, handler HandlerFunc, blocking bool) error {
	if handler == nil {
		return fmt.Errorf("%w: pattern %q", ErrNilHandler, pattern)
	}
	if len(methods) == 0 {
		return fmt.Errorf("%w: pattern %q", ErrNoMethods, pattern)
	}

	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}

	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[strings.ToUpper(m)] = struct{}{}
	}

	rt := &Route{
		pattern:  pattern,
		re:       re,
		methods:  methodSet,
		handler:  handler,
		blocking: blocking,
	}

	if pos, ok := r.index[pattern]; ok {
		r.routes[pos] = rt
		return nil
	}
	r.index[pattern] = len(r.routes)
	r.routes = append(r.routes, rt)
	return nil
}

// resolve scans routes in registration order and returns the first
// path-matching route's outcome. If some route matches the path but none of
// the scanned route's methods accept the request method, the result is
// method-not-allowed; if no pattern matches the path at all, not-found.
func (r *router) resolve(path, method string) resolution {
	for _, rt := range r.routes {
		m := rt.re.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		if _, ok := rt.methods[method]; !ok {
			return resolution{kind: resolveMethodNotAllowed}
		}
		params := make(map[string]string)
		for i, name := range rt.re.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			params[name] = m[i]
		}
		return resolution{kind: resolveMatched, route: rt, params: params}
	}
	return resolution{kind: resolveNotFound}
}
