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
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder observes dispatched calls. It is invoked exactly once per call
// with the final status and elapsed pipeline time, after after-hooks ran.
// The dispatch pipeline behaves identically whether a recorder is installed
// or not.
type Recorder interface {
	Record(ctx context.Context, r *Request, status int, elapsed time.Duration)
}

// RecorderFunc adapts a function to the [Recorder] interface.
type RecorderFunc func(ctx context.Context, r *Request, status int, elapsed time.Duration)

// Record implements [Recorder].
func (f RecorderFunc) Record(ctx context.Context, r *Request, status int, elapsed time.Duration) {
	f(ctx, r, status, elapsed)
}

// PrometheusRecorder is a [Recorder] backed by Prometheus collectors: a
// request counter labeled by method and status and a duration histogram
// labeled by method.
type PrometheusRecorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a PrometheusRecorder and registers its
// collectors with reg. A nil reg falls back to the default registerer.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	rec, err := uhttp.NewPrometheusRecorder(reg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app := uhttp.New(uhttp.WithRecorder(rec))
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &PrometheusRecorder{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uhttp_requests_total",
				Help: "Dispatched calls by method and final status.",
			},
			[]string{"method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "uhttp_request_duration_seconds",
				Help:    "Dispatch pipeline duration by method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	for _, c := range []prometheus.Collector{r.requests, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Record implements [Recorder].
func (p *PrometheusRecorder) Record(_ context.Context, r *Request, status int, elapsed time.Duration) {
	p.requests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
	p.duration.WithLabelValues(r.Method).Observe(elapsed.Seconds())
}
