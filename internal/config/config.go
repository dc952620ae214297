package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/ropecore/internal/engine"
	"github.com/dshills/ropecore/internal/logging"
)

// Config holds all ropecore settings.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Watch   WatchConfig   `toml:"watch" yaml:"watch"`
}

// EditorConfig configures the edit engine.
type EditorConfig struct {
	// HistoryLimit caps the number of undo steps.
	HistoryLimit int `toml:"history_limit" yaml:"history_limit"`
	// CoalesceMS is the typing burst window in milliseconds. 0 disables it.
	CoalesceMS int `toml:"coalesce_ms" yaml:"coalesce_ms"`
	// ReadOnly opens documents read-only.
	ReadOnly bool `toml:"read_only" yaml:"read_only"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
}

// WatchConfig configures file watching.
type WatchConfig struct {
	// DebounceMS is how long to wait for writes to settle before reloading.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			HistoryLimit: engine.DefaultMaxUndoEntries,
			CoalesceMS:   int(engine.DefaultCoalesceWindow / time.Millisecond),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			DebounceMS: 100,
		},
	}
}

// Validate checks every setting and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if c.Editor.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("%w: editor.history_limit must be positive, got %d", ErrInvalid, c.Editor.HistoryLimit))
	}
	if c.Editor.CoalesceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: editor.coalesce_ms must not be negative, got %d", ErrInvalid, c.Editor.CoalesceMS))
	}
	if c.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: watch.debounce_ms must not be negative, got %d", ErrInvalid, c.Watch.DebounceMS))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: logging.level: %v", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// CoalesceWindow returns the typing burst window.
func (c Config) CoalesceWindow() time.Duration {
	return time.Duration(c.Editor.CoalesceMS) * time.Millisecond
}

// Debounce returns the file watcher debounce delay.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// LogLevel returns the parsed log level, falling back to info.
func (c Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}

// EngineOptions converts the editor settings to engine options.
func (c Config) EngineOptions(log *logging.Logger) []engine.Option {
	opts := []engine.Option{
		engine.WithMaxUndoEntries(c.Editor.HistoryLimit),
		engine.WithCoalesceWindow(c.CoalesceWindow()),
		engine.WithLogger(log),
	}
	if c.Editor.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	return opts
}
