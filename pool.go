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
	"runtime"
	"sync"
	"sync/atomic"
)

// poolTask is a unit of work plus its completion signal.
type poolTask struct {
	run  func()
	done chan struct{}
}

// workerPool is the bounded pool that blocking hooks and handlers are
// offloaded to, so one slow call never stalls cooperative dispatch. A
// stalled task occupies its slot until it returns; when all slots are busy,
// submission waits for capacity. Pool exhaustion is an operational limit,
// not a protocol error.
type workerPool struct {
	tasks chan poolTask
	wg    sync.WaitGroup

	// mu guards closed and orders submissions against Close: every send on
	// tasks happens under the read lock, so the channel is never closed
	// under a submission parked waiting for capacity.
	mu     sync.RWMutex
	closed bool

	stats struct {
		submitted atomic.Uint64
		completed atomic.Uint64
	}
}

// newWorkerPool starts a pool with the given number of workers.
// Non-positive sizes default to runtime.NumCPU().
func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &workerPool{
		tasks: make(chan poolTask, workers),
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.execute(t)
	}
}

// execute runs one task and always signals completion, even if the task
// panics through its own recovery.
func (p *workerPool) execute(t poolTask) {
	defer func() {
		close(t.done)
		p.stats.completed.Add(1)
	}()
	t.run()
}

// Do submits fn and waits for it to finish. It returns early with the
// context error if ctx is done before a slot frees up or before fn returns;
// in the latter case fn keeps its slot until it completes.
func (p *workerPool) Do(ctx context.Context, fn func()) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	p.stats.submitted.Add(1)

	t := poolTask{run: fn, done: make(chan struct{})}
	select {
	case p.tasks <- t:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work and waits for queued and in-flight tasks to
// drain. Submissions already parked waiting for capacity are accepted and
// run before the pool shuts down. Close is idempotent.
func (p *workerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}

// Completed returns the number of tasks that finished, for tests and
// operational introspection.
func (p *workerPool) Completed() uint64 {
	return p.stats.completed.Load()
}
