// Package config loads scriv configuration from a TOML file with
// environment variable overrides.
//
// Resolution order: built-in defaults, then the config file (missing file
// is not an error), then SCRIV_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "SCRIV_"

// Config holds all scriv settings.
type Config struct {
	History HistoryConfig `toml:"history"`
	Logging LoggingConfig `toml:"logging"`
	Session SessionConfig `toml:"session"`
	Macro   MacroConfig   `toml:"macro"`
}

// HistoryConfig configures the undo/redo log.
type HistoryConfig struct {
	// MaxEntries caps the command log; oldest entries are dropped.
	MaxEntries int `toml:"max_entries"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	// Level is the minimum level to output: debug, info, warn, or error.
	Level string `toml:"level"`
}

// SessionConfig configures session persistence.
type SessionConfig struct {
	// Path is the session file location. Empty disables persistence.
	Path string `toml:"path"`
}

// MacroConfig configures Lua macro execution.
type MacroConfig struct {
	// Enabled turns macro scripting on.
	Enabled bool `toml:"enabled"`
	// TimeoutMS bounds script execution in milliseconds.
	TimeoutMS int `toml:"timeout_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{MaxEntries: 1000},
		Logging: LoggingConfig{Level: "info"},
		Session: SessionConfig{Path: ""},
		Macro:   MacroConfig{Enabled: true, TimeoutMS: 5000},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "scriv", "config.toml")
}

// Load builds the configuration from defaults, the TOML file at path (or
// the default location when path is empty), and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No config file is fine; defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides settings from SCRIV_-prefixed environment variables.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "HISTORY_MAX_ENTRIES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.History.MaxEntries = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "SESSION_PATH"); ok {
		c.Session.Path = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "MACRO_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Macro.Enabled = b
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "MACRO_TIMEOUT_MS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Macro.TimeoutMS = n
		}
	}
}

// MacroTimeout returns the macro timeout as a duration.
func (c *Config) MacroTimeout() time.Duration {
	return time.Duration(c.Macro.TimeoutMS) * time.Millisecond
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", c.Logging.Level)
	}
	if c.History.MaxEntries <= 0 {
		return fmt.Errorf("history.max_entries must be positive, got %d", c.History.MaxEntries)
	}
	if c.Macro.TimeoutMS <= 0 {
		return fmt.Errorf("macro.timeout_ms must be positive, got %d", c.Macro.TimeoutMS)
	}
	return nil
}
