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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountPrefixesChildRoutes(t *testing.T) {
	t.Parallel()
	parent := New()
	parent.GET(`/a`, okHandler)

	child := New()
	child.GET(`/b`, okHandler)

	require.NoError(t, parent.Mount(child, `/sub`))

	ctx := context.Background()
	resp, err := parent.Test(ctx, TestRequest{Target: "/sub/b"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// The child route resolves at prefix+pattern and nowhere else.
	resp, err = parent.Test(ctx, TestRequest{Target: "/b"})
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = parent.Test(ctx, TestRequest{Target: "/a"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestMountNoSeparatorNormalization(t *testing.T) {
	t.Parallel()
	parent := New()
	child := New()
	child.GET(`b`, okHandler)

	require.NoError(t, parent.Mount(child, `/sub`))

	// "/sub" + "b" is "/subb", verbatim concatenation.
	resp, err := parent.Test(context.Background(), TestRequest{Target: "/subb"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestMountAppendsHooksAfterParents(t *testing.T) {
	t.Parallel()
	var order []string

	parent := New()
	parent.Before(func(ctx context.Context, r *Request) (Result, error) {
		order = append(order, "parent")
		return nil, nil
	})

	child := New()
	child.Before(func(ctx context.Context, r *Request) (Result, error) {
		order = append(order, "child")
		return nil, nil
	})
	child.GET(`/b`, okHandler)

	require.NoError(t, parent.Mount(child, `/sub`))

	_, err := parent.Test(context.Background(), TestRequest{Target: "/sub/b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"parent", "child"}, order)
}

func TestMountLifecycleHooksRunAgainstParentState(t *testing.T) {
	t.Parallel()
	parent := New()
	child := New()
	child.OnStartup(func(ctx context.Context, s *State) error {
		s.Set("from-child", true)
		return nil
	})

	require.NoError(t, parent.Mount(child, `/sub`))
	require.NoError(t, parent.TestStartup(context.Background()))

	_, ok := parent.State().Get("from-child")
	assert.True(t, ok)
	_, ok = child.State().Get("from-child")
	assert.False(t, ok)
}

func TestMountTakesLargerContentLimit(t *testing.T) {
	t.Parallel()
	parent := New(WithMaxContentLength(10))
	bigger := New(WithMaxContentLength(100))
	smaller := New(WithMaxContentLength(5))

	require.NoError(t, parent.Mount(bigger, `/big`))
	assert.Equal(t, int64(100), parent.MaxContentLength())

	require.NoError(t, parent.Mount(smaller, `/small`))
	assert.Equal(t, int64(100), parent.MaxContentLength())
}

func TestMountDoesNotDeduplicate(t *testing.T) {
	t.Parallel()
	var calls int

	parent := New()
	child := New()
	child.Before(func(ctx context.Context, r *Request) (Result, error) {
		calls++
		return nil, nil
	})
	child.GET(`/b`, okHandler)

	require.NoError(t, parent.Mount(child, `/sub`))
	require.NoError(t, parent.Mount(child, `/sub`))

	require.Len(t, parent.Routes(), 1) // same full pattern overwrites
	_, err := parent.Test(context.Background(), TestRequest{Target: "/sub/b"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls) // hooks duplicated exactly as requested
}

func TestMountNilChild(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, New().Mount(nil, `/sub`), ErrNilChild)
}

func TestMountInvalidCombinedPattern(t *testing.T) {
	t.Parallel()
	parent := New()
	child := New()
	require.NoError(t, child.Route(`\d+`, []string{"GET"}, okHandler))

	// The prefix itself can break the combined expression.
	err := parent.Mount(child, `(`)
	require.ErrorIs(t, err, ErrInvalidPattern)
}
