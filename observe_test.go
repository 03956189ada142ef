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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderSeesFinalStatusOncePerCall(t *testing.T) {
	t.Parallel()

	type observation struct {
		method string
		path   string
		status int
	}
	var seen []observation
	rec := RecorderFunc(func(_ context.Context, r *Request, status int, elapsed time.Duration) {
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
		seen = append(seen, observation{r.Method, r.Path, status})
	})

	app := New(WithRecorder(rec))
	app.GET(`/x`, okHandler)
	// The before-hook override must be what the recorder sees.
	app.Before(func(ctx context.Context, r *Request) (Result, error) {
		if r.Path == "/teapot" {
			return Status(418), nil
		}
		return nil, nil
	})

	ctx := context.Background()
	for _, target := range []string{"/x", "/missing", "/teapot"} {
		_, err := app.Test(ctx, TestRequest{Target: target})
		require.NoError(t, err)
	}

	require.Len(t, seen, 3)
	assert.Equal(t, observation{"GET", "/x", 200}, seen[0])
	assert.Equal(t, observation{"GET", "/missing", 404}, seen[1])
	assert.Equal(t, observation{"GET", "/teapot", 418}, seen[2])
}

func TestPrometheusRecorderCountsByMethodAndStatus(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	app := New(WithRecorder(rec))
	app.GET(`/x`, okHandler)

	ctx := context.Background()
	for range 3 {
		_, err := app.Test(ctx, TestRequest{Target: "/x"})
		require.NoError(t, err)
	}
	_, err = app.Test(ctx, TestRequest{Target: "/missing"})
	require.NoError(t, err)

	assert.InDelta(t, 3, testutil.ToFloat64(rec.requests.WithLabelValues("GET", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.requests.WithLabelValues("GET", "404")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(rec.duration, "uhttp_request_duration_seconds"))
}

func TestPrometheusRecorderDuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	_, err = NewPrometheusRecorder(reg)
	require.Error(t, err)
}
