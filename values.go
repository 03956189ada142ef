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

import "iter"

// pair is a single key/value entry in a Values container.
type pair struct {
	key   string
	value string
}

// Values is an ordered multi-value string mapping. It backs request headers,
// query arguments and form fields, where keys may repeat and iteration order
// matters. The zero value is not usable; create instances with [NewValues].
//
// Keys are compared case-sensitively. Request header containers are
// normalized to lowercase keys at construction time, matching the wire
// representation the host-server contract uses.
//
// Values is not safe for concurrent mutation. Each Request and Response owns
// its containers, so no additional synchronization is needed in handlers.
type Values struct {
	pairs []pair
}

// NewValues creates an empty Values container.
// Initial entries can be provided as alternating key/value strings:
//
//	h := uhttp.NewValues("content-type", "application/json", "accept", "*/*")
//
// A trailing key without a value is ignored.
func NewValues(kv ...string) *Values {
	v := &Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Add(kv[i], kv[i+1])
	}
	return v
}

// Add appends a value for key, preserving any existing values.
// Duplicate keys are kept in insertion order.
func (v *Values) Add(key, value string) {
	v.pairs = append(v.pairs, pair{key: key, value: value})
}

// Set replaces all values for key with a single value. The entry keeps the
// position of the first existing occurrence; if the key is absent, the entry
// is appended.
func (v *Values) Set(key, value string) {
	out := v.pairs[:0]
	replaced := false
	for _, p := range v.pairs {
		if p.key != key {
			out = append(out, p)
			continue
		}
		if !replaced {
			out = append(out, pair{key: key, value: value})
			replaced = true
		}
	}
	if !replaced {
		out = append(out, pair{key: key, value: value})
	}
	v.pairs = out
}

// Get returns the first value for key, or the empty string if absent.
// Get never fails; use [Values.Has] to distinguish a missing key from an
// empty value.
func (v *Values) Get(key string) string {
	return v.GetDefault(key, "")
}

// GetDefault returns the first value for key, or def if the key is absent.
func (v *Values) GetDefault(key, def string) string {
	for _, p := range v.pairs {
		if p.key == key {
			return p.value
		}
	}
	return def
}

// GetAll returns all values for key in insertion order.
// It returns nil if the key is absent.
func (v *Values) GetAll(key string) []string {
	var out []string
	for _, p := range v.pairs {
		if p.key == key {
			out = append(out, p.value)
		}
	}
	return out
}

// Has reports whether at least one value exists for key.
func (v *Values) Has(key string) bool {
	for _, p := range v.pairs {
		if p.key == key {
			return true
		}
	}
	return false
}

// Del removes all values for key.
func (v *Values) Del(key string) {
	out := v.pairs[:0]
	for _, p := range v.pairs {
		if p.key != key {
			out = append(out, p)
		}
	}
	v.pairs = out
}

// Len returns the number of entries, counting duplicates.
func (v *Values) Len() int {
	return len(v.pairs)
}

// Keys returns the keys in insertion order, first occurrence only.
func (v *Values) Keys() []string {
	seen := make(map[string]struct{}, len(v.pairs))
	var out []string
	for _, p := range v.pairs {
		if _, ok := seen[p.key]; ok {
			continue
		}
		seen[p.key] = struct{}{}
		out = append(out, p.key)
	}
	return out
}

// All returns an iterator over all entries in insertion order, duplicates
// included.
//
// Example:
//
//	for key, value := range headers.All() {
//	    fmt.Println(key, value)
//	}
func (v *Values) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, p := range v.pairs {
			if !yield(p.key, p.value) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the container.
func (v *Values) Clone() *Values {
	out := &Values{pairs: make([]pair, len(v.pairs))}
	copy(out.pairs, v.pairs)
	return out
}
