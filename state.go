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
	"maps"
	"sync"
)

// State is the process-lifetime lifecycle store of an [App]. Exactly one
// instance exists per running application: it is created empty, filled by
// startup hooks, read through per-call snapshots by handlers, and torn down
// by shutdown hooks.
//
// State is safe for concurrent use. Startup and shutdown hooks receive the
// live store; requests receive a shallow top-level copy taken at request
// construction via [State.Snapshot]. Mutating a snapshot's top-level keys
// never leaks into other calls, but values reachable through the snapshot
// remain shared references whose concurrency-safety is the caller's
// responsibility.
type State struct {
	mu     sync.RWMutex
	values map[string]any
}

// newState creates an empty lifecycle store.
func newState() *State {
	return &State{values: make(map[string]any)}
}

// Get returns the value stored under key and whether it exists.
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key, overwriting any previous value.
func (s *State) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes key from the store.
func (s *State) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Len returns the number of stored keys.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Snapshot returns a shallow copy of the store's top-level keys.
// Nested mutable values are shared between the snapshot and the live store.
func (s *State) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}
