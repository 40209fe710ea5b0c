package memcore

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/memcore/backend"
)

// Backend names accepted by Config.Backend.
const (
	BackendSystem  = "system"
	BackendRuntime = "runtime"
	BackendPages   = "pages"
	BackendTiered  = "tiered"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBackend        = "MEMCORE_BACKEND"
	EnvTracking       = "MEMCORE_TRACKING"
	EnvMemoryLimit    = "MEMCORE_MEMORY_LIMIT"
	EnvLargeThreshold = "MEMCORE_LARGE_THRESHOLD"
	EnvLogLevel       = "MEMCORE_LOG_LEVEL"
	EnvLogFormat      = "MEMCORE_LOG_FORMAT"
)

// Size is a byte count that reads human-readable values such as "512MiB",
// "1 GB" or a plain integer.
type Size int64

// ParseSize parses a human-readable byte count.
func ParseSize(s string) (Size, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("size %q too large", s)
	}
	return Size(n), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	n, err := ParseSize(value.Value)
	if err != nil {
		return err
	}
	*s = n
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Size) MarshalYAML() (any, error) {
	return humanize.IBytes(uint64(s)), nil
}

func (s Size) String() string {
	return humanize.IBytes(uint64(s))
}

// Config describes an allocator setup.
type Config struct {
	// Backend selects the platform allocator: system, runtime, pages or tiered.
	Backend string `yaml:"backend"`
	// Tracking enables current and peak byte accounting.
	Tracking bool `yaml:"tracking"`
	// MemoryLimit caps live bytes. 0 means unlimited. Implies Tracking.
	MemoryLimit Size `yaml:"memory_limit"`
	// LargeThreshold is the request size from which the tiered backend uses
	// page mappings.
	LargeThreshold Size `yaml:"large_threshold"`
	// LogLevel is a slog level name: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is text, json or none.
	LogFormat string `yaml:"log_format"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Backend:        BackendSystem,
		LargeThreshold: backend.DefaultLargeThreshold,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

// ConfigFromEnv overlays the MEMCORE_* environment variables on base.
func ConfigFromEnv(base Config) (Config, error) {
	cfg := base

	if v, ok := os.LookupEnv(EnvBackend); ok {
		cfg.Backend = v
	}
	if v, ok := os.LookupEnv(EnvTracking); ok {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, &ErrInvalidConfig{Field: EnvTracking, Value: v, cause: err}
		}
		cfg.Tracking = on
	}
	if v, ok := os.LookupEnv(EnvMemoryLimit); ok {
		n, err := ParseSize(v)
		if err != nil {
			return Config{}, &ErrInvalidConfig{Field: EnvMemoryLimit, Value: v, cause: err}
		}
		cfg.MemoryLimit = n
	}
	if v, ok := os.LookupEnv(EnvLargeThreshold); ok {
		n, err := ParseSize(v)
		if err != nil {
			return Config{}, &ErrInvalidConfig{Field: EnvLargeThreshold, Value: v, cause: err}
		}
		cfg.LargeThreshold = n
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		cfg.LogFormat = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSystem, BackendRuntime, BackendPages, BackendTiered:
	default:
		return &ErrInvalidConfig{Field: "backend", Value: c.Backend}
	}
	if c.MemoryLimit < 0 {
		return &ErrInvalidConfig{Field: "memory_limit", Value: strconv.FormatInt(int64(c.MemoryLimit), 10)}
	}
	if c.Backend == BackendTiered && c.LargeThreshold <= 0 {
		return &ErrInvalidConfig{Field: "large_threshold", Value: strconv.FormatInt(int64(c.LargeThreshold), 10)}
	}
	if _, err := c.Level(); err != nil {
		return &ErrInvalidConfig{Field: "log_level", Value: c.LogLevel, cause: err}
	}
	switch c.LogFormat {
	case "", "text", "json", "none":
	default:
		return &ErrInvalidConfig{Field: "log_format", Value: c.LogFormat}
	}
	return nil
}

// Level returns the parsed log level. An empty LogLevel is info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

// NewLogger builds the Logger described by LogLevel and LogFormat.
func (c Config) NewLogger() *Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	switch c.LogFormat {
	case "json":
		return NewJSONLogger(level)
	case "none":
		return NoopLogger()
	default:
		return NewTextLogger(level)
	}
}
