// Package config loads relay configuration from TOML files.
//
// Configuration is optional: every field has a default, and a missing
// file loads as the defaults. The Watcher reloads a file on change and
// rebroadcasts the new configuration as a notification, so mediators and
// commands can react to live configuration edits through the same
// dispatch path as everything else.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ChangedNotification is the name broadcast by the Watcher after a
// successful reload. The notification body is the new Config.
const ChangedNotification = "relay.config.changed"

// Errors returned by configuration operations.
var (
	// ErrInvalidLevel indicates an unknown logging level.
	ErrInvalidLevel = errors.New("invalid logging level")

	// ErrInvalidFormat indicates an unknown logging format.
	ErrInvalidFormat = errors.New("invalid logging format")
)

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	// Level is one of: trace, debug, info, warn, error, off.
	Level string `toml:"level"`

	// Format is one of: json, console.
	Format string `toml:"format"`
}

// DispatchConfig controls broadcast behavior.
type DispatchConfig struct {
	// Source is stamped into the metadata of sent notifications.
	Source string `toml:"source"`

	// PanicTrace logs captured stack traces when a handler panics.
	PanicTrace bool `toml:"panic_trace"`
}

// ScriptConfig controls Lua-scripted commands.
type ScriptConfig struct {
	// Enabled allows script commands to be registered.
	Enabled bool `toml:"enabled"`

	// Dir is the directory script files are loaded from.
	Dir string `toml:"dir"`
}

// Config is the root configuration.
type Config struct {
	Logging  LoggingConfig  `toml:"logging"`
	Dispatch DispatchConfig `toml:"dispatch"`
	Script   ScriptConfig   `toml:"script"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Dispatch: DispatchConfig{
			Source:     "relay",
			PanicTrace: true,
		},
		Script: ScriptConfig{
			Enabled: false,
			Dir:     "scripts",
		},
	}
}

// Load reads a TOML file over the defaults. A missing file is not an
// error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values against their allowed sets.
func (c Config) Validate() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Logging.Format)
	}
	return nil
}
