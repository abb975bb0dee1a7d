// Package config loads and watches the meshlens configuration file. The
// file is TOML; every setting has a default so a missing file is not an
// error, and environment variables override individual settings for
// headless and test runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by all validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full application configuration.
type Config struct {
	Logging    Logging    `toml:"logging"`
	Dispatcher Dispatcher `toml:"dispatcher"`
	Sync       Sync       `toml:"sync"`
}

// Logging configures the application logger.
type Logging struct {
	// Level is the minimum level to emit: trace, debug, info, warn or
	// error.
	Level string `toml:"level"`
}

// Dispatcher tunes the event dispatch core.
type Dispatcher struct {
	// HistorySize is the capacity of the dispatch history ring.
	HistorySize int `toml:"history_size"`

	// DrainLimit bounds deferred events drained per dispatch pass.
	DrainLimit int `toml:"drain_limit"`

	Retry Retry `toml:"retry"`
}

// Retry bounds redelivery of failed events.
type Retry struct {
	// BaseDelayMs is the delay before the first retry, in milliseconds.
	BaseDelayMs int `toml:"base_delay_ms"`

	// MaxDelayMs caps the exponential backoff, in milliseconds.
	MaxDelayMs int `toml:"max_delay_ms"`

	// MaxAttempts is the number of retries after the original delivery.
	MaxAttempts int `toml:"max_attempts"`
}

// Sync tunes the cross-view synchronization protocol.
type Sync struct {
	// HoverThrottleMs is the throttle window for pointer-movement hover
	// requests, in milliseconds.
	HoverThrottleMs int `toml:"hover_throttle_ms"`

	// HoverDebounceMs is the quiet period a hover request must survive
	// before delivery, in milliseconds. Zero dispatches hovers without
	// debouncing.
	HoverDebounceMs int `toml:"hover_debounce_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: Logging{Level: "info"},
		Dispatcher: Dispatcher{
			HistorySize: 100,
			DrainLimit:  64,
			Retry: Retry{
				BaseDelayMs: 100,
				MaxDelayMs:  5000,
				MaxAttempts: 3,
			},
		},
		Sync: Sync{HoverThrottleMs: 50, HoverDebounceMs: 0},
	}
}

// Load reads a TOML configuration file over the defaults and applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays MESHLENS_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("MESHLENS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v, ok := envInt("MESHLENS_HISTORY_SIZE"); ok {
		c.Dispatcher.HistorySize = v
	}
	if v, ok := envInt("MESHLENS_DRAIN_LIMIT"); ok {
		c.Dispatcher.DrainLimit = v
	}
	if v, ok := envInt("MESHLENS_HOVER_THROTTLE_MS"); ok {
		c.Sync.HoverThrottleMs = v
	}
	if v, ok := envInt("MESHLENS_HOVER_DEBOUNCE_MS"); ok {
		c.Sync.HoverDebounceMs = v
	}
}

// envInt reads an integer environment variable.
func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate checks the configuration for internally consistent values.
func (c Config) Validate() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	if c.Dispatcher.HistorySize <= 0 {
		return fmt.Errorf("%w: history_size must be positive", ErrInvalidConfig)
	}
	if c.Dispatcher.DrainLimit <= 0 {
		return fmt.Errorf("%w: drain_limit must be positive", ErrInvalidConfig)
	}
	r := c.Dispatcher.Retry
	if r.BaseDelayMs <= 0 || r.MaxDelayMs < r.BaseDelayMs {
		return fmt.Errorf("%w: retry delays must satisfy 0 < base <= max", ErrInvalidConfig)
	}
	if r.MaxAttempts < 0 {
		return fmt.Errorf("%w: retry max_attempts must not be negative", ErrInvalidConfig)
	}
	if c.Sync.HoverThrottleMs < 0 {
		return fmt.Errorf("%w: hover_throttle_ms must not be negative", ErrInvalidConfig)
	}
	if c.Sync.HoverDebounceMs < 0 {
		return fmt.Errorf("%w: hover_debounce_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}

// HoverThrottle returns the hover throttle window as a duration.
func (c Config) HoverThrottle() time.Duration {
	return time.Duration(c.Sync.HoverThrottleMs) * time.Millisecond
}

// HoverDebounce returns the hover debounce quiet period as a duration.
func (c Config) HoverDebounce() time.Duration {
	return time.Duration(c.Sync.HoverDebounceMs) * time.Millisecond
}

// RetryBaseDelay returns the retry base delay as a duration.
func (c Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.Dispatcher.Retry.BaseDelayMs) * time.Millisecond
}

// RetryMaxDelay returns the retry delay cap as a duration.
func (c Config) RetryMaxDelay() time.Duration {
	return time.Duration(c.Dispatcher.Retry.MaxDelayMs) * time.Millisecond
}
