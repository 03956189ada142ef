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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestLowercasesHeaderKeys(t *testing.T) {
	t.Parallel()
	scope := &HTTPScope{
		Method:  "get",
		Path:    "/x",
		Headers: NewValues("Content-Type", "text/plain", "X-Custom", "v"),
	}

	r := newRequest(scope, nil, nil)

	assert.Equal(t, "GET", r.Method)
	assert.Equal(t, "text/plain", r.Headers.Get("content-type"))
	assert.Equal(t, "v", r.Headers.Get("x-custom"))
	assert.False(t, r.Headers.Has("X-Custom"))
}

func TestNewRequestParsesQueryInOrder(t *testing.T) {
	t.Parallel()
	scope := &HTTPScope{Method: "GET", Path: "/x", RawQuery: "b=2&a=1&b=3&flag"}

	r := newRequest(scope, nil, nil)

	assert.Equal(t, []string{"2", "3"}, r.Args.GetAll("b"))
	assert.Equal(t, "1", r.Args.Get("a"))
	assert.Equal(t, "", r.Args.Get("flag"))
	assert.Equal(t, []string{"b", "a", "flag"}, r.Args.Keys())
}

func TestNewRequestDecodesQueryEscapes(t *testing.T) {
	t.Parallel()
	scope := &HTTPScope{Method: "GET", Path: "/x", RawQuery: "q=hello+world&p=a%2Fb"}

	r := newRequest(scope, nil, nil)

	assert.Equal(t, "hello world", r.Args.Get("q"))
	assert.Equal(t, "a/b", r.Args.Get("p"))
}

func TestNewRequestParsesCookies(t *testing.T) {
	t.Parallel()
	scope := &HTTPScope{
		Method:  "GET",
		Path:    "/x",
		Headers: NewValues("Cookie", "session=abc; theme=dark"),
	}

	r := newRequest(scope, nil, nil)

	require.NotNil(t, r.Cookie("session"))
	assert.Equal(t, "abc", r.Cookie("session").Value)
	assert.Equal(t, "dark", r.Cookie("theme").Value)
	assert.Nil(t, r.Cookie("missing"))
}

func TestNewRequestIgnoresMalformedCookies(t *testing.T) {
	t.Parallel()
	scope := &HTTPScope{
		Method:  "GET",
		Path:    "/x",
		Headers: NewValues("cookie", ";;;"),
	}

	r := newRequest(scope, nil, nil)
	assert.Empty(t, r.Cookies)
}

func TestNewRequestParsesJSONBodyOnlyForJSONContentType(t *testing.T) {
	t.Parallel()
	body := []byte(`{"name":"ada"}`)

	withJSON := newRequest(&HTTPScope{
		Method:  "POST",
		Path:    "/x",
		Headers: NewValues("content-type", "application/json; charset=utf-8"),
	}, body, nil)
	require.NotNil(t, withJSON.JSON)
	assert.Equal(t, map[string]any{"name": "ada"}, withJSON.JSON)

	withoutType := newRequest(&HTTPScope{Method: "POST", Path: "/x"}, body, nil)
	assert.Nil(t, withoutType.JSON)
}

func TestNewRequestParsesJSONSuffixMediaTypes(t *testing.T) {
	t.Parallel()
	r := newRequest(&HTTPScope{
		Method:  "POST",
		Path:    "/x",
		Headers: NewValues("content-type", "application/problem+json"),
	}, []byte(`[1,2]`), nil)

	assert.Equal(t, []any{float64(1), float64(2)}, r.JSON)
}

func TestNewRequestLeavesJSONNilOnParseFailure(t *testing.T) {
	t.Parallel()
	r := newRequest(&HTTPScope{
		Method:  "POST",
		Path:    "/x",
		Headers: NewValues("content-type", "application/json"),
	}, []byte(`{broken`), nil)

	assert.Nil(t, r.JSON)
}

func TestNewRequestParsesFormForURLEncodedContentType(t *testing.T) {
	t.Parallel()
	r := newRequest(&HTTPScope{
		Method:  "POST",
		Path:    "/x",
		Headers: NewValues("content-type", "application/x-www-form-urlencoded"),
	}, []byte("name=ada&tag=a&tag=b"), nil)

	assert.Equal(t, "ada", r.Form.Get("name"))
	assert.Equal(t, []string{"a", "b"}, r.Form.GetAll("tag"))
	assert.Nil(t, r.JSON)
}

func TestNewRequestFormEmptyWithoutFormContentType(t *testing.T) {
	t.Parallel()
	r := newRequest(&HTTPScope{Method: "POST", Path: "/x"}, []byte("name=ada"), nil)

	require.NotNil(t, r.Form)
	assert.Equal(t, 0, r.Form.Len())
}

func TestRequestIDHonorsInboundHeader(t *testing.T) {
	t.Parallel()
	r := newRequest(&HTTPScope{
		Method:  "GET",
		Path:    "/x",
		Headers: NewValues("X-Request-Id", "given-id"),
	}, nil, nil)

	assert.Equal(t, "given-id", r.ID)
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	t.Parallel()
	a := newRequest(&HTTPScope{Method: "GET", Path: "/x"}, nil, nil)
	b := newRequest(&HTTPScope{Method: "GET", Path: "/x"}, nil, nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewRequestAttachesStateSnapshot(t *testing.T) {
	t.Parallel()
	snap := map[string]any{"k": "v"}
	r := newRequest(&HTTPScope{Method: "GET", Path: "/x"}, nil, snap)

	assert.Equal(t, "v", r.State["k"])
}
