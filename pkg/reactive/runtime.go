package reactive

import (
	"context"
	"io"
	"log/slog"

	"github.com/vango-dev/tether/internal/config"
	"github.com/vango-dev/tether/internal/errors"
	"github.com/vango-dev/tether/pkg/tracing"
)

// Diagnostic is the structured warning and error type reported by the
// runtime. Code identifies the condition (see the internal registry).
type Diagnostic = errors.Error

// WarnHandler receives development warnings. owner is the scope the warning
// originated in and may be nil.
type WarnHandler func(d *Diagnostic, owner *Owner)

// ErrorHandler receives errors that no errorCaptured hook stopped. info
// names the phase that failed, e.g. "getter for watcher \"count\"".
type ErrorHandler func(err error, owner *Owner, info string)

// Runtime owns the evaluation stack, the scheduler and the tick queue.
// Everything created from one Runtime must be used on a single goroutine.
type Runtime struct {
	ctx context.Context

	// stack of watchers under evaluation; the last entry is the target.
	// A nil entry suspends tracking.
	stack []*Watcher

	scheduler *Scheduler

	ticker      Ticker
	microtasks  *MicrotaskQueue
	callbacks   []func()
	tickPending bool

	async          bool
	maxUpdateCount int
	devMode        bool
	silent         bool
	shouldObserve  bool

	logger       *slog.Logger
	warnHandler  WarnHandler
	errorHandler ErrorHandler
	metrics      Metrics
	tracer       *tracing.Tracer
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithAsync selects asynchronous (tick-batched) or synchronous flushing.
// Synchronous flushing runs the queue as soon as the first watcher is
// queued and notifies subscribers in id order.
func WithAsync(async bool) Option {
	return func(rt *Runtime) {
		rt.async = async
	}
}

// WithMaxUpdateCount sets how many times one watcher may re-queue itself
// within a single flush before the flush is aborted.
func WithMaxUpdateCount(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxUpdateCount = n
		}
	}
}

// WithDevMode enables development checks and warnings.
func WithDevMode(dev bool) Option {
	return func(rt *Runtime) {
		rt.devMode = dev
	}
}

// WithSilent suppresses warnings.
func WithSilent(silent bool) Option {
	return func(rt *Runtime) {
		rt.silent = silent
	}
}

// WithLogger sets the logger used when no handler is installed.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithWarnHandler installs a warning sink.
func WithWarnHandler(h WarnHandler) Option {
	return func(rt *Runtime) {
		rt.warnHandler = h
	}
}

// WithErrorHandler installs the global error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(rt *Runtime) {
		rt.errorHandler = h
	}
}

// WithTicker sets where flushes are scheduled. The default is the runtime's
// own MicrotaskQueue, drained by Tick.
func WithTicker(t Ticker) Option {
	return func(rt *Runtime) {
		if t != nil {
			rt.ticker = t
		}
	}
}

// WithMetrics installs a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(rt *Runtime) {
		if m != nil {
			rt.metrics = m
		}
	}
}

// WithTracer installs a tracer for flush spans.
func WithTracer(t *tracing.Tracer) Option {
	return func(rt *Runtime) {
		if t != nil {
			rt.tracer = t
		}
	}
}

// WithContext sets the parent context for spans.
func WithContext(ctx context.Context) Option {
	return func(rt *Runtime) {
		if ctx != nil {
			rt.ctx = ctx
		}
	}
}

// FromConfig maps a loaded configuration onto runtime options.
func FromConfig(cfg config.RuntimeConfig) []Option {
	return []Option{
		WithAsync(cfg.Async),
		WithMaxUpdateCount(cfg.MaxUpdateCount),
		WithDevMode(cfg.DevMode),
		WithSilent(cfg.Silent),
	}
}

// New creates a Runtime. Without options it flushes asynchronously on its
// own microtask queue, in development mode, logging to a discarded logger.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		ctx:            context.Background(),
		microtasks:     NewMicrotaskQueue(),
		async:          true,
		maxUpdateCount: config.DefaultMaxUpdateCount,
		devMode:        true,
		shouldObserve:  true,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:        noopMetrics{},
		tracer:         tracing.Noop(),
	}
	rt.ticker = rt.microtasks
	for _, opt := range opts {
		opt(rt)
	}
	rt.scheduler = newScheduler(rt)
	return rt
}

// Scheduler returns the runtime's scheduler.
func (rt *Runtime) Scheduler() *Scheduler { return rt.scheduler }

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *slog.Logger { return rt.logger }

// DevMode reports whether development checks are enabled.
func (rt *Runtime) DevMode() bool { return rt.devMode }

// Async reports whether flushes are tick-batched.
func (rt *Runtime) Async() bool { return rt.async }

// Tracer returns the runtime's tracer.
func (rt *Runtime) Tracer() *tracing.Tracer { return rt.tracer }

// Context returns the parent context for spans.
func (rt *Runtime) Context() context.Context { return rt.ctx }

// Metrics returns the installed metrics sink.
func (rt *Runtime) Metrics() Metrics { return rt.metrics }

// target returns the watcher currently collecting dependencies, or nil.
func (rt *Runtime) target() *Watcher {
	if n := len(rt.stack); n > 0 {
		return rt.stack[n-1]
	}
	return nil
}

// Tracking reports whether a read right now would be recorded.
func (rt *Runtime) Tracking() bool {
	return rt.target() != nil
}

// enter makes w the current target until the returned function is called.
// Calls must nest.
func (rt *Runtime) enter(w *Watcher) (exit func()) {
	rt.stack = append(rt.stack, w)
	depth := len(rt.stack)
	return func() {
		rt.stack = rt.stack[:depth-1]
	}
}

// Untracked runs fn with dependency collection suspended.
func (rt *Runtime) Untracked(fn func()) {
	exit := rt.enter(nil)
	defer exit()
	fn()
}

// ToggleObserving controls whether Observe converts new values. It returns
// the previous setting so callers can restore it.
func (rt *Runtime) ToggleObserving(on bool) (previous bool) {
	previous = rt.shouldObserve
	rt.shouldObserve = on
	return previous
}

// ShouldObserve reports the current observation setting.
func (rt *Runtime) ShouldObserve() bool {
	return rt.shouldObserve
}
