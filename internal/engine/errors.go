package engine

import (
	"errors"

	"github.com/dshills/ropecore/internal/engine/rope"
)

// Errors returned by engine operations.
var (
	// ErrOutOfRange indicates an offset or range outside the document.
	ErrOutOfRange = rope.ErrOutOfRange

	// ErrReadOnly indicates an edit was attempted on a read-only engine.
	// The engine itself ignores such edits; callers that need to report
	// them (such as the script runner) return this error.
	ErrReadOnly = errors.New("engine is read-only")
)
