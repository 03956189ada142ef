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
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Result is what handlers and before-hooks produce. It is a closed set:
// nil, [Status], [Text], [Bytes], [JSON] and [*Response] are the only
// implementations, making the normalization contract total. The sealed
// interface replaces dynamic return-type dispatch; an unsupported return
// type is a compile error rather than a runtime one.
//
// Normalization:
//   - nil          → 204, empty body
//   - Status(n)    → status n, empty body
//   - Text(s)      → 200, body s
//   - Bytes(b)     → 200, body b verbatim
//   - JSON(v)      → 200, v serialized, content-type application/json
//   - *Response    → passed through unchanged
//
// This mapping is a stable contract for extensions.
type Result interface {
	result()
}

type statusResult int

func (statusResult) result() {}

// Status returns a Result carrying only a status code; the body stays empty.
func Status(code int) Result { return statusResult(code) }

type textResult string

func (textResult) result() {}

// Text returns a 200 Result with the given body.
func Text(body string) Result { return textResult(body) }

type bytesResult []byte

func (bytesResult) result() {}

// Bytes returns a 200 Result with the given body, sent verbatim.
func Bytes(body []byte) Result { return bytesResult(body) }

type jsonResult struct {
	value any
}

func (jsonResult) result() {}

// JSON returns a 200 Result whose value is serialized as application/json.
// Serialization happens during normalization; a value that cannot be encoded
// is an unhandled failure and surfaces as a 500.
func JSON(value any) Result { return jsonResult{value: value} }

// normalize converts a handler or before-hook result into a Response.
// Normalizing an already-built *Response returns it unchanged, so the
// operation is idempotent.
func normalize(res Result) (*Response, error) {
	switch r := res.(type) {
	case nil:
		return NewResponse(http.StatusNoContent), nil
	case statusResult:
		return NewResponse(int(r)), nil
	case textResult:
		resp := NewResponse(http.StatusOK)
		resp.Body = []byte(r)
		return resp, nil
	case bytesResult:
		resp := NewResponse(http.StatusOK)
		resp.Body = bytes.Clone(r)
		return resp, nil
	case jsonResult:
		body, err := json.Marshal(r.value)
		if err != nil {
			return nil, fmt.Errorf("encoding json result: %w", err)
		}
		resp := NewResponse(http.StatusOK)
		resp.Headers.Set("content-type", "application/json")
		resp.Body = body
		return resp, nil
	case *Response:
		if r == nil {
			return NewResponse(http.StatusNoContent), nil
		}
		return r, nil
	default:
		// Unreachable while Result stays sealed.
		return nil, fmt.Errorf("unsupported result type %T", res)
	}
}
