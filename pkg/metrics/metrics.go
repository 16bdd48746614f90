package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/tether/pkg/reactive"
	"github.com/vango-dev/tether/pkg/vdom"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "tether").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush and patch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "tether",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records runtime and patch activity.
type Collector struct {
	flushes       prometheus.Counter
	flushDuration prometheus.Histogram
	watcherRuns   *prometheus.CounterVec
	circular      prometheus.Counter
	errorsHandled *prometheus.CounterVec
	warnings      *prometheus.CounterVec
	patches       *prometheus.CounterVec
	patchDuration prometheus.Histogram
	patchOps      *prometheus.CounterVec
}

var (
	_ reactive.Metrics = (*Collector)(nil)
	_ vdom.Metrics     = (*Collector)(nil)
)

// New registers the collector's metrics and returns it. Registering twice
// against the same registry panics, as promauto does.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if len(config.Buckets) == 0 {
		config.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(config.Registry)
	counter := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}
	}
	histogram := func(name, help string) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}
	}

	return &Collector{
		flushes:       factory.NewCounter(counter("flushes_total", "Total number of scheduler flushes")),
		flushDuration: factory.NewHistogram(histogram("flush_duration_seconds", "Scheduler flush duration in seconds")),
		watcherRuns:   factory.NewCounterVec(counter("watcher_runs_total", "Total watcher runs by kind"), []string{"kind"}),
		circular:      factory.NewCounter(counter("circular_updates_total", "Total flushes aborted by the update limit")),
		errorsHandled: factory.NewCounterVec(counter("errors_handled_total", "Total errors reaching the global handler"), []string{"source"}),
		warnings:      factory.NewCounterVec(counter("warnings_total", "Total warnings by code"), []string{"code"}),
		patches:       factory.NewCounterVec(counter("patches_total", "Total Patch calls by status"), []string{"status"}),
		patchDuration: factory.NewHistogram(histogram("patch_duration_seconds", "Patch duration in seconds")),
		patchOps:      factory.NewCounterVec(counter("patch_ops_total", "Total host mutations by op"), []string{"op"}),
	}
}

// FlushCompleted implements reactive.Metrics.
func (c *Collector) FlushCompleted(ran int, elapsed time.Duration) {
	c.flushes.Inc()
	c.flushDuration.Observe(elapsed.Seconds())
}

// WatcherRan implements reactive.Metrics.
func (c *Collector) WatcherRan(kind reactive.Kind) {
	c.watcherRuns.WithLabelValues(kind.String()).Inc()
}

// CircularUpdate implements reactive.Metrics.
func (c *Collector) CircularUpdate() {
	c.circular.Inc()
}

// ErrorHandled implements reactive.Metrics.
func (c *Collector) ErrorHandled(info string) {
	c.errorsHandled.WithLabelValues(source(info)).Inc()
}

// Warned implements reactive.Metrics.
func (c *Collector) Warned(code string) {
	c.warnings.WithLabelValues(code).Inc()
}

// PatchCompleted implements vdom.Metrics.
func (c *Collector) PatchCompleted(stats vdom.Stats, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.patches.WithLabelValues(status).Inc()
	c.patchDuration.Observe(elapsed.Seconds())

	for op, n := range map[string]int{
		"created": stats.Created,
		"removed": stats.Removed,
		"moved":   stats.Moved,
		"patched": stats.Patched,
	} {
		if n > 0 {
			c.patchOps.WithLabelValues(op).Add(float64(n))
		}
	}
}

// source trims watcher expressions and event names out of an error info
// string so the label stays bounded: `getter for watcher "x"` -> "getter".
func source(info string) string {
	if i := strings.Index(info, " for "); i > 0 {
		return info[:i]
	}
	if info == "" {
		return "unknown"
	}
	return info
}
