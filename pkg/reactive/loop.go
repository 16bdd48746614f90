package reactive

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/tether/internal/errors"
)

// ErrLoopClosed is returned by Dispatch after the loop stopped.
var ErrLoopClosed = errors.New(errors.CodeLoopClosed)

// Loop owns the goroutine a Runtime runs on. Other goroutines hand work to
// it with Dispatch. After every task the loop drains the runtime's
// microtasks, so flushes and NextTick callbacks run before the next task.
type Loop struct {
	rt       *Runtime
	dispatch chan func()
	wake     chan struct{}
	done     chan struct{}
	closed   atomic.Bool
	once     sync.Once

	mu    sync.Mutex
	macro []func()
}

// NewLoop creates a loop for rt with a dispatch buffer of size queue.
func NewLoop(rt *Runtime, queue int) *Loop {
	if queue <= 0 {
		queue = 1
	}
	return &Loop{
		rt:       rt,
		dispatch: make(chan func(), queue),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Dispatch queues fn to run on the loop goroutine. It blocks while the
// buffer is full and fails once the loop is closed.
func (l *Loop) Dispatch(fn func()) error {
	if l.closed.Load() {
		return ErrLoopClosed
	}
	select {
	case l.dispatch <- fn:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

// UseMacrotasks makes the loop the runtime's Ticker, so flushes run as
// separate loop tasks instead of draining right after the task that
// triggered them.
func (l *Loop) UseMacrotasks() {
	l.rt.ticker = l
}

// Schedule implements Ticker by posting fn as a separate loop task.
func (l *Loop) Schedule(fn func()) {
	l.mu.Lock()
	l.macro = append(l.macro, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes tasks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.dispatch:
			l.execute(fn)
		case <-l.wake:
			l.mu.Lock()
			tasks := l.macro
			l.macro = nil
			l.mu.Unlock()
			for _, fn := range tasks {
				l.execute(fn)
			}
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.done:
			return nil
		}
	}
}

// Close stops the loop. Pending tasks are discarded.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} { return l.done }

func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.rt.logger.Error("loop task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
	l.rt.Tick()
}
