package tether

import "github.com/vango-dev/tether/internal/config"

// Config is the engine configuration. Load it from tether.json or
// tether.yaml with LoadConfig, or start from DefaultConfig.
type Config = config.Config

// Tick modes for Config.Runtime.Tick.
const (
	TickMicrotask = config.TickMicrotask
	TickMacrotask = config.TickMacrotask
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config { return config.New() }

// LoadConfig reads tether.json or tether.yaml from dir, falling back to
// the defaults when neither exists.
func LoadConfig(dir string) (*Config, error) { return config.LoadOrDefault(dir) }

// LoadConfigFile reads a configuration file. Files ending in .yaml or .yml
// are decoded as YAML.
func LoadConfigFile(path string) (*Config, error) { return config.LoadFile(path) }
