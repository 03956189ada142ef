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
	"net/http"
	"strconv"
)

// defaultContentType is applied at serialization time when a response
// carries no content-type of its own.
const defaultContentType = "text/html; charset=utf-8"

// Response is the mutable reply under construction for one call. Handlers
// may build one explicitly, or return any other [Result] value and let the
// pipeline normalize it. A Response stays mutable until the pipeline
// serializes it to the host server; after-hooks mutate it in place.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Headers holds the response headers. Keys are lowercased at
	// serialization time; a content-type and content-length are supplied
	// there when absent.
	Headers *Values

	// Cookies are serialized as set-cookie headers.
	Cookies []*http.Cookie

	// Body is the raw response body.
	Body []byte
}

// NewResponse creates an empty response with the given status.
//
// Example:
//
//	resp := uhttp.NewResponse(201)
//	resp.Headers.Set("location", "/users/42")
//	return resp, nil
func NewResponse(status int) *Response {
	return &Response{
		Status:  status,
		Headers: NewValues(),
	}
}

// SetCookie appends a cookie to the response.
func (r *Response) SetCookie(c *http.Cookie) {
	r.Cookies = append(r.Cookies, c)
}

// result makes *Response a valid handler Result; normalization passes it
// through unchanged.
func (r *Response) result() {}

// errorResponse synthesizes a response for a pipeline-level status such as
// 404, 405, 413 or 500, with the status phrase as body.
func errorResponse(status int) *Response {
	resp := NewResponse(status)
	resp.Body = []byte(http.StatusText(status))
	return resp
}

// wireHeaders flattens the response headers, cookies, and the synthesized
// content-type and content-length into the lowercased header list sent in
// the response-start event.
func (r *Response) wireHeaders() *Values {
	out := NewValues()
	for k, v := range r.Headers.All() {
		out.Add(lowerASCII(k), v)
	}
	if !out.Has("content-type") {
		out.Set("content-type", defaultContentType)
	}
	out.Set("content-length", strconv.Itoa(len(r.Body)))
	for _, c := range r.Cookies {
		if s := c.String(); s != "" {
			out.Add("set-cookie", s)
		}
	}
	return out
}

// lowerASCII lowercases ASCII letters without the locale handling of
// strings.ToLower; header names are ASCII on the wire.
func lowerASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
