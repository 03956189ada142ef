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

import "fmt"

// Mount merges a child application into a, composing independently developed
// sub-applications into one deployable unit:
//
//   - The child's startup, shutdown, before and after hooks are appended
//     after a's own, in mount-call order across children.
//   - Every child route is re-registered into a with pattern = prefix +
//     child pattern, verbatim — no separator is inserted or normalized.
//   - a's body limit becomes the larger of the two.
//
// Nothing is deduplicated: mounting the same child twice duplicates its
// hooks and re-registers its routes exactly as requested. After mounting,
// the child's own lifecycle state is unused; its hooks run against a's
// state.
//
// Mount is callable only before serving begins and panics afterwards. It
// returns an error if a prefixed pattern no longer compiles.
//
// Example:
//
//	api := uhttp.New()
//	api.GET(`/users`, listUsers)
//
//	root := uhttp.New()
//	if err := root.Mount(api, `/api/v1`); err != nil {
//	    log.Fatal(err)
//	}
//	// GET /api/v1/users now resolves on root.
func (a *App) Mount(child *App, prefix string) error {
	a.checkMutable("mount")
	if child == nil {
		return ErrNilChild
	}

	for _, rt := range child.router.routes {
		err := a.router.register(prefix+rt.pattern, rt.Methods(), rt.handler, rt.blocking)
		if err != nil {
			return fmt.Errorf("mounting %q under %q: %w", rt.pattern, prefix, err)
		}
	}

	a.startup = append(a.startup, child.startup...)
	a.shutdown = append(a.shutdown, child.shutdown...)
	a.before = append(a.before, child.before...)
	a.after = append(a.after, child.after...)

	if child.maxContentLength > a.maxContentLength {
		a.maxContentLength = child.maxContentLength
	}
	return nil
}
