package tether

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/tether/internal/logging"
	"github.com/vango-dev/tether/pkg/component"
	"github.com/vango-dev/tether/pkg/metrics"
	"github.com/vango-dev/tether/pkg/reactive"
	"github.com/vango-dev/tether/pkg/tracing"
	"github.com/vango-dev/tether/pkg/vdom"
)

// =============================================================================
// Engine Type
// =============================================================================

// Engine wires a Runtime, a Patcher and a component App over one host.
//
// Create an Engine with tether.New():
//
//	cfg, _ := tether.LoadConfig(".")
//	eng := tether.New(host, cfg)
//	go eng.Run(ctx)
//
//	eng.Dispatch(func() {
//	    eng.Mount(Counter, target, nil)
//	})
type Engine struct {
	cfg     *Config
	logger  *slog.Logger
	rt      *reactive.Runtime
	patcher *vdom.Patcher
	app     *component.App
	metrics prometheus.Registerer

	loopOnce sync.Once
	loop     *reactive.Loop
}

type options struct {
	logger       *slog.Logger
	registerer   prometheus.Registerer
	patchMetrics []vdom.Metrics
	modules      []vdom.Module
	ctx          context.Context
}

// Option configures an Engine.
type Option func(*options)

// WithLogger replaces the logger built from Config.Log.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer sets the Prometheus registry used when metrics are
// enabled. Default: a fresh registry per engine, see Engine.Gatherer.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}

// WithPatchMetrics adds a sink that receives every patch report alongside
// the Prometheus collector.
func WithPatchMetrics(m vdom.Metrics) Option {
	return func(o *options) {
		o.patchMetrics = append(o.patchMetrics, m)
	}
}

// WithModules replaces the default attribute and listener modules.
func WithModules(mods ...vdom.Module) Option {
	return func(o *options) {
		o.modules = mods
	}
}

// WithContext sets the context spans are started from.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

// New creates an engine patching into host. A nil cfg means DefaultConfig.
// Two engines sharing one registerer through WithRegisterer panic on the
// duplicate registration; the default registry is private to the engine.
func New(host vdom.NodeOps, cfg *Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	o := options{
		ctx:     context.Background(),
		modules: []vdom.Module{vdom.AttrsModule(host), vdom.ListenersModule(host)},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.New(os.Stderr, cfg.Log)
	}
	logger := o.logger

	rtOpts := append(reactive.FromConfig(cfg.Runtime),
		reactive.WithLogger(logger),
		reactive.WithContext(o.ctx),
	)
	patchOpts := append(vdom.FromConfig(cfg.Patch, cfg.Runtime.DevMode),
		vdom.WithModules(o.modules...),
		vdom.WithWarn(func(d *vdom.Diagnostic) {
			logger.Warn(d.Message, "code", d.Code, "subject", d.Subject, "detail", d.Detail)
		}),
	)

	if o.registerer == nil {
		o.registerer = prometheus.NewRegistry()
	}
	sinks := o.patchMetrics
	if cfg.Metrics.Enabled {
		m := metrics.New(metrics.WithRegistry(o.registerer), metrics.WithNamespace(cfg.Metrics.Namespace))
		rtOpts = append(rtOpts, reactive.WithMetrics(m))
		sinks = append(sinks, m)
	}
	switch len(sinks) {
	case 0:
	case 1:
		patchOpts = append(patchOpts, vdom.WithMetrics(sinks[0]))
	default:
		patchOpts = append(patchOpts, vdom.WithMetrics(teeMetrics(sinks)))
	}

	if cfg.Tracing.Enabled {
		tracer := tracing.New(cfg.Tracing.TracerName)
		rtOpts = append(rtOpts, reactive.WithTracer(tracer))
		patchOpts = append(patchOpts, vdom.WithTracer(tracer, o.ctx))
	}

	e := &Engine{cfg: cfg, logger: logger, metrics: o.registerer}
	e.rt = reactive.New(rtOpts...)
	e.patcher = vdom.NewPatcher(host, patchOpts...)
	e.app = component.NewApp(e.rt, e.patcher)
	return e
}

type teeMetrics []vdom.Metrics

func (t teeMetrics) PatchCompleted(s vdom.Stats, elapsed time.Duration, err error) {
	for _, m := range t {
		m.PatchCompleted(s, elapsed, err)
	}
}

// =============================================================================
// Accessors
// =============================================================================

// Config returns the configuration the engine was built from.
func (e *Engine) Config() *Config { return e.cfg }

// Runtime returns the reactive runtime.
func (e *Engine) Runtime() *reactive.Runtime { return e.rt }

// Patcher returns the patcher.
func (e *Engine) Patcher() *vdom.Patcher { return e.patcher }

// App returns the component App.
func (e *Engine) App() *component.App { return e.app }

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Gatherer returns the registry the engine's metrics live in, or nil when a
// registerer passed through WithRegisterer cannot be gathered.
func (e *Engine) Gatherer() prometheus.Gatherer {
	g, _ := e.metrics.(prometheus.Gatherer)
	return g
}

// =============================================================================
// Running
// =============================================================================

// Mount mounts def over target. Call it on the loop goroutine once Run
// has started, or directly when the engine is driven with Tick.
func (e *Engine) Mount(def *component.Definition, target vdom.NodeID, props map[string]any) (*component.Instance, error) {
	return e.app.Mount(def, target, props)
}

// Tick drains pending flushes when the engine is driven without a loop.
func (e *Engine) Tick() int { return e.rt.Tick() }

// Loop returns the event loop, creating it on first use. With the
// macrotask tick mode the loop also becomes the runtime's ticker, after
// which Tick no longer drains anything.
func (e *Engine) Loop() *reactive.Loop {
	e.loopOnce.Do(func() {
		e.loop = reactive.NewLoop(e.rt, e.cfg.Runtime.LoopQueue)
		if e.cfg.Runtime.Tick == TickMacrotask {
			e.loop.UseMacrotasks()
		}
	})
	return e.loop
}

// Run processes loop tasks until ctx is cancelled or Close is called.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Debug("engine loop started", "tick", e.cfg.Runtime.Tick)
	err := e.Loop().Run(ctx)
	e.logger.Debug("engine loop stopped")
	return err
}

// Dispatch queues fn on the loop goroutine.
func (e *Engine) Dispatch(fn func()) error { return e.Loop().Dispatch(fn) }

// Settle dispatches fn and waits until the flush it caused, and every
// NextTick callback queued by then, has run.
func (e *Engine) Settle(ctx context.Context, fn func()) error {
	loop := e.Loop()
	done := make(chan struct{})
	err := loop.Dispatch(func() {
		defer e.rt.NextTick(func() { close(done) })
		fn()
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-loop.Done():
		return reactive.ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop.
func (e *Engine) Close() { e.Loop().Close() }
