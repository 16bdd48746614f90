package reactive

import (
	"github.com/vango-dev/tether/internal/errors"
)

// Ticker schedules a function to run after the current synchronous work.
type Ticker interface {
	Schedule(fn func())
}

// MicrotaskQueue is a FIFO Ticker drained explicitly. Functions scheduled
// while draining run in the same drain.
type MicrotaskQueue struct {
	tasks []func()
}

// NewMicrotaskQueue returns an empty queue.
func NewMicrotaskQueue() *MicrotaskQueue {
	return &MicrotaskQueue{}
}

// Schedule appends fn.
func (q *MicrotaskQueue) Schedule(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// Len returns the number of queued functions.
func (q *MicrotaskQueue) Len() int {
	return len(q.tasks)
}

// Drain runs queued functions until the queue is empty and returns how many
// ran.
func (q *MicrotaskQueue) Drain() int {
	n := 0
	for len(q.tasks) > 0 {
		fn := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		fn()
		n++
	}
	q.tasks = nil
	return n
}

// NextTick defers fn until after the current flush cycle. Callbacks queued
// within one tick run together, in order. A panic in fn is routed through
// HandleError.
func (rt *Runtime) NextTick(fn func()) {
	rt.callbacks = append(rt.callbacks, fn)
	if !rt.tickPending {
		rt.tickPending = true
		rt.ticker.Schedule(rt.flushCallbacks)
	}
}

func (rt *Runtime) flushCallbacks() {
	rt.tickPending = false
	copies := rt.callbacks
	rt.callbacks = nil
	for _, cb := range copies {
		if err := invoke(errors.CodeNextTick, func() error { cb(); return nil }); err != nil {
			rt.HandleError(err, nil, "nextTick")
		}
	}
}

// Tick drains the runtime's own microtask queue, running every pending
// flush and NextTick callback. It is a no-op when a different Ticker is
// installed.
func (rt *Runtime) Tick() int {
	if rt.ticker != Ticker(rt.microtasks) {
		return 0
	}
	return rt.microtasks.Drain()
}
