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
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()
	app := New()

	assert.Equal(t, DefaultMaxContentLength, app.MaxContentLength())
	assert.False(t, app.Frozen())
	assert.Empty(t, app.Routes())
	assert.Equal(t, 0, app.State().Len())
}

func TestWithMaxContentLengthIgnoresNonPositive(t *testing.T) {
	t.Parallel()
	assert.Equal(t, int64(10), New(WithMaxContentLength(10)).MaxContentLength())
	assert.Equal(t, DefaultMaxContentLength, New(WithMaxContentLength(0)).MaxContentLength())
	assert.Equal(t, DefaultMaxContentLength, New(WithMaxContentLength(-5)).MaxContentLength())
}

func TestWithLoggerIsUsed(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	app := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	app.GET(`/boom`, func(ctx context.Context, r *Request) (Result, error) {
		return nil, assert.AnError
	})

	resp, err := app.Test(context.Background(), TestRequest{Target: "/boom"})
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, buf.String(), "unhandled failure")
}

func TestVerbShorthandsFixSingletonMethodSets(t *testing.T) {
	t.Parallel()
	app := New()
	h := okHandler

	app.GET(`/g`, h)
	app.HEAD(`/h`, h)
	app.POST(`/po`, h)
	app.PUT(`/pu`, h)
	app.DELETE(`/d`, h)
	app.CONNECT(`/c`, h)
	app.OPTIONS(`/o`, h)
	app.TRACE(`/t`, h)
	app.PATCH(`/pa`, h)

	routes := app.Routes()
	require.Len(t, routes, 9)
	want := map[string][]string{
		`/g`: {"GET"}, `/h`: {"HEAD"}, `/po`: {"POST"}, `/pu`: {"PUT"},
		`/d`: {"DELETE"}, `/c`: {"CONNECT"}, `/o`: {"OPTIONS"},
		`/t`: {"TRACE"}, `/pa`: {"PATCH"},
	}
	for _, rt := range routes {
		assert.Equal(t, want[rt.Pattern()], rt.Methods(), rt.Pattern())
	}
}

func TestVerbShorthandPanicsOnInvalidPattern(t *testing.T) {
	t.Parallel()
	app := New()

	assert.Panics(t, func() {
		app.GET(`/(unclosed`, okHandler)
	})
}

func TestRouteReturnsErrorOnInvalidPattern(t *testing.T) {
	t.Parallel()
	app := New()

	err := app.Route(`/(unclosed`, []string{"GET"}, okHandler)
	require.ErrorIs(t, err, ErrInvalidPattern)
}

func TestRegistrationPanicsAfterFreeze(t *testing.T) {
	t.Parallel()
	app := New()
	app.GET(`/x`, okHandler)

	_, err := app.Test(context.Background(), TestRequest{Target: "/x"})
	require.NoError(t, err)
	require.True(t, app.Frozen())

	assert.Panics(t, func() { app.GET(`/late`, okHandler) })
	assert.Panics(t, func() { app.Before(func(ctx context.Context, r *Request) (Result, error) { return nil, nil }) })
	assert.Panics(t, func() { app.After(func(ctx context.Context, r *Request, resp *Response) error { return nil }) })
	assert.Panics(t, func() { app.OnStartup(func(ctx context.Context, s *State) error { return nil }) })
	assert.Panics(t, func() { app.OnShutdown(func(ctx context.Context, s *State) error { return nil }) })
	assert.Panics(t, func() { _ = app.Mount(New(), "/sub") })
}

func TestServeRejectsUnknownScope(t *testing.T) {
	t.Parallel()
	app := New()

	err := app.Serve(context.Background(), nil, nil, nil)
	require.ErrorIs(t, err, ErrUnsupportedScope)
}
