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
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// requestIDHeader is the inbound header consulted before generating a new
// correlation ID.
const requestIDHeader = "x-request-id"

// Request is the per-call snapshot handed to hooks and handlers.
// A fresh Request is constructed for every inbound call; nothing in it is
// shared across calls except the values reachable through State.
type Request struct {
	// ID is the request correlation ID: the inbound x-request-id header when
	// present, otherwise a generated random ID.
	ID string

	// Method is the uppercase HTTP method.
	Method string

	// Path is the decoded request path.
	Path string

	// Params holds the named capture groups of the matched route pattern.
	// It is empty until routing succeeds.
	Params map[string]string

	// Args holds the query arguments in wire order, duplicates preserved.
	Args *Values

	// Headers holds the request headers with lowercased keys.
	Headers *Values

	// Cookies holds the parsed cookie header. Malformed cookie headers are
	// ignored rather than failing the request.
	Cookies []*http.Cookie

	// Body is the raw request body.
	Body []byte

	// JSON is the structured body, populated only when the content-type
	// indicates JSON and the body parses. It is nil otherwise.
	JSON any

	// Form holds urlencoded form fields, populated only when the
	// content-type indicates a form body.
	Form *Values

	// State is a shallow top-level copy of the lifecycle state taken at
	// request construction. Top-level mutations do not leak across calls;
	// nested values are shared references.
	State map[string]any
}

// newRequest builds a Request from the inbound scope, the fully-read body and
// a lifecycle-state snapshot.
func newRequest(scope *HTTPScope, body []byte, state map[string]any) *Request {
	headers := NewValues()
	if scope.Headers != nil {
		for k, v := range scope.Headers.All() {
			headers.Add(strings.ToLower(k), v)
		}
	}

	r := &Request{
		Method:  strings.ToUpper(scope.Method),
		Path:    scope.Path,
		Params:  map[string]string{},
		Args:    parseQuery(scope.RawQuery),
		Headers: headers,
		Body:    body,
		State:   state,
	}

	r.ID = headers.Get(requestIDHeader)
	if r.ID == "" {
		r.ID = generateRequestID()
	}

	if cookies, err := http.ParseCookie(headers.Get("cookie")); err == nil {
		r.Cookies = cookies
	}

	switch mediaType(headers.Get("content-type")) {
	case "application/x-www-form-urlencoded":
		r.Form = parseQuery(string(body))
	default:
		if isJSONMediaType(mediaType(headers.Get("content-type"))) {
			var parsed any
			if err := json.Unmarshal(body, &parsed); err == nil {
				r.JSON = parsed
			}
		}
	}
	if r.Form == nil {
		r.Form = NewValues()
	}

	return r
}

// Cookie returns the named request cookie, or nil if absent.
func (r *Request) Cookie(name string) *http.Cookie {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// mediaType extracts the bare media type from a content-type header value.
// It returns the empty string for missing or malformed values.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}

// isJSONMediaType reports whether a media type carries a JSON body,
// accepting application/json and +json suffixed types.
func isJSONMediaType(mt string) bool {
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// parseQuery decodes an urlencoded string into an ordered multi-value
// container. Unlike url.ParseQuery it preserves wire order and keeps
// duplicate keys. Undecodable entries are skipped.
func parseQuery(raw string) *Values {
	out := NewValues()
	for raw != "" {
		var entry string
		entry, raw, _ = strings.Cut(raw, "&")
		if entry == "" {
			continue
		}
		key, value, _ := strings.Cut(entry, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		out.Add(k, v)
	}
	return out
}

// generateRequestID returns a random 32-character hex string.
// On the rare crypto/rand failure it falls back to timestamp plus pid.
func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d-%d", time.Now().UnixNano(), os.Getpid())
	}
	return hex.EncodeToString(b)
}
