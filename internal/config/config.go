package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/tether/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "tether.json"

	// YAMLConfigFileName is the alternative YAML configuration file.
	YAMLConfigFileName = "tether.yaml"

	// DefaultMaxUpdateCount is the number of times one watcher may re-queue
	// itself within a single flush before the flush is aborted.
	DefaultMaxUpdateCount = 100

	// DefaultMaxDepth bounds patch recursion.
	DefaultMaxDepth = 1000

	// DefaultLoopQueue is the dispatch queue size of the event loop.
	DefaultLoopQueue = 256

	// DefaultNamespace is the metrics namespace.
	DefaultNamespace = "tether"
)

// Tick modes.
const (
	TickMicrotask = "microtask"
	TickMacrotask = "macrotask"
)

// Config represents the complete tether configuration.
type Config struct {
	// Runtime configures the reactive runtime and scheduler.
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`

	// Patch configures the reconciliation engine.
	Patch PatchConfig `json:"patch" yaml:"patch"`

	// Log configures structured logging.
	Log LogConfig `json:"log" yaml:"log"`

	// Metrics configures the Prometheus collector.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RuntimeConfig contains scheduler and observation settings.
type RuntimeConfig struct {
	// Async defers flushes to the next tick. When false, every queued
	// watcher flushes immediately and Dep notifications run in id order.
	Async bool `json:"async" yaml:"async"`

	// MaxUpdateCount is the circular update threshold.
	MaxUpdateCount int `json:"maxUpdateCount,omitempty" yaml:"maxUpdateCount,omitempty"`

	// DevMode enables dev-time diagnostics (duplicate keys, missing keys).
	DevMode bool `json:"devMode" yaml:"devMode"`

	// Silent suppresses warnings.
	Silent bool `json:"silent,omitempty" yaml:"silent,omitempty"`

	// Tick selects how flushes are deferred: "microtask" or "macrotask".
	Tick string `json:"tick,omitempty" yaml:"tick,omitempty"`

	// LoopQueue is the size of the event loop dispatch queue.
	LoopQueue int `json:"loopQueue,omitempty" yaml:"loopQueue,omitempty"`
}

// PatchConfig contains reconciliation settings.
type PatchConfig struct {
	// MaxDepth bounds recursion while creating or patching trees.
	MaxDepth int `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Async:          true,
			MaxUpdateCount: DefaultMaxUpdateCount,
			DevMode:        true,
			Tick:           TickMicrotask,
			LoopQueue:      DefaultLoopQueue,
		},
		Patch: PatchConfig{
			MaxDepth: DefaultMaxDepth,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultNamespace,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for tether.json first, then tether.yaml.
func Load(dir string) (*Config, error) {
	jsonPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(jsonPath); err == nil {
		return LoadFile(jsonPath)
	}
	yamlPath := filepath.Join(dir, YAMLConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return LoadFile(yamlPath)
	}
	return nil, errors.New(errors.CodeConfigNotFound).
		WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + dir)
}

// LoadOrDefault is Load, falling back to New when no file exists.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.Is(err, errors.New(errors.CodeConfigNotFound)) {
		return New(), nil
	}
	return cfg, err
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are decoded as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithSubject(path)
		}
		return nil, errors.New(errors.CodeConfigParse).WithSubject(path).Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithSubject(path).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New(errors.CodeConfigParse).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigParse).WithSubject(path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Runtime.MaxUpdateCount == 0 {
		c.Runtime.MaxUpdateCount = DefaultMaxUpdateCount
	}
	if c.Runtime.Tick == "" {
		c.Runtime.Tick = TickMicrotask
	}
	if c.Runtime.LoopQueue == 0 {
		c.Runtime.LoopQueue = DefaultLoopQueue
	}
	if c.Patch.MaxDepth == 0 {
		c.Patch.MaxDepth = DefaultMaxDepth
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Runtime.MaxUpdateCount < 1 {
		return errors.New(errors.CodeConfigInvalid).
			WithSubject("runtime.maxUpdateCount").
			WithDetail("maxUpdateCount must be at least 1")
	}
	switch c.Runtime.Tick {
	case TickMicrotask, TickMacrotask:
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithSubject("runtime.tick").
			WithDetail(`tick must be "microtask" or "macrotask", got "` + c.Runtime.Tick + `"`)
	}
	if c.Runtime.LoopQueue < 1 {
		return errors.New(errors.CodeConfigInvalid).
			WithSubject("runtime.loopQueue").
			WithDetail("loopQueue must be at least 1")
	}
	if c.Patch.MaxDepth < 1 {
		return errors.New(errors.CodeConfigInvalid).
			WithSubject("patch.maxDepth").
			WithDetail("maxDepth must be at least 1")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithSubject("log.level").
			WithDetail("level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithSubject("log.format").
			WithDetail(`format must be "text" or "json"`)
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
