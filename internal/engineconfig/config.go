// Package engineconfig loads process-level configuration for flowctl and
// its middleware/dashboard components: a decodable struct, a Default
// constructor, and a thin Load wrapper.
package engineconfig

import (
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level process configuration.
type Config struct {
	Concurrency        string    `toml:"concurrency"`
	DefaultStepTimeout Duration  `toml:"default_step_timeout"`
	GlobalTimeout      Duration  `toml:"global_timeout"`
	LogLevel           string    `toml:"log_level"`
	LogFormat          string    `toml:"log_format"` // console|json
	Dashboard          Dashboard `toml:"dashboard"`
}

// Dashboard configures the bubbletea live-progress TUI.
type Dashboard struct {
	Enabled         bool     `toml:"enabled"`
	RefreshInterval Duration `toml:"refresh_interval"`
}

// Duration is a time.Duration wrapper with text (un)marshaling so
// durations can be written as TOML-native strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is loaded.
func Default() *Config {
	return &Config{
		Concurrency:        "auto",
		DefaultStepTimeout: Duration{30 * time.Second},
		GlobalTimeout:      Duration{10 * time.Minute},
		LogLevel:           "info",
		LogFormat:          "console",
		Dashboard: Dashboard{
			Enabled:         true,
			RefreshInterval: Duration{200 * time.Millisecond},
		},
	}
}

// Load reads and decodes a TOML config file at path, starting from
// Default() so a partial file only overrides what it specifies.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
