// Package scheduler defers work until after the caller has returned.
package scheduler

import "sync"

// Scheduler runs fn after yielding at least once. Defer never calls fn
// before it returns.
type Scheduler interface {
	Defer(fn func())
}

// Runner starts fn on its own goroutine. *recovery.Handler satisfies it.
type Runner interface {
	Go(fn func())
}

// Async runs every deferred task on a fresh goroutine.
type Async struct {
	runner Runner
}

// NewAsync returns an Async scheduler. When runner is nil tasks are started
// with a plain go statement.
func NewAsync(runner Runner) *Async {
	return &Async{runner: runner}
}

func (a *Async) Defer(fn func()) {
	if a.runner == nil {
		go fn()
		return
	}
	a.runner.Go(fn)
}

// Manual queues deferred tasks until the test advances it.
type Manual struct {
	mu    sync.Mutex
	queue []func()
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Defer(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

// Pending reports how many tasks are waiting.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// RunNext runs the oldest queued task. It reports false when the queue is empty.
func (m *Manual) RunNext() bool {
	m.mu.Lock()
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return false
	}
	fn := m.queue[0]
	m.queue = m.queue[1:]
	m.mu.Unlock()

	fn()
	return true
}

// RunAll drains the queue, including tasks deferred by the tasks it runs,
// and returns how many ran.
func (m *Manual) RunAll() int {
	n := 0
	for m.RunNext() {
		n++
	}
	return n
}
