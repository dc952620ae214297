package engine

import (
	"time"

	"github.com/dshills/ropecore/internal/engine/history"
	"github.com/dshills/ropecore/internal/engine/rope"
	"github.com/dshills/ropecore/internal/logging"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = history.DefaultMaxEntries
	DefaultCoalesceWindow = history.DefaultCoalesceWindow
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.rope = rope.FromString(content)
	}
}

// WithRope sets the initial document.
func WithRope(r rope.Rope) Option {
	return func(e *Engine) {
		e.rope = r
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithCoalesceWindow sets how long consecutive typing or single-character
// deletes keep folding into one undo step. Zero disables coalescing.
func WithCoalesceWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.coalesceWindow = d
		}
	}
}

// WithReadOnly creates a read-only engine.
// Edits and undo/redo are ignored until SetReadOnly(false).
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// WithLogger sets the logger. History and document transitions are logged
// at debug level.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock replaces the wall clock used to timestamp history entries.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
