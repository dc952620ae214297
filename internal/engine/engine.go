package engine

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/ropecore/internal/engine/cursor"
	"github.com/dshills/ropecore/internal/engine/history"
	"github.com/dshills/ropecore/internal/engine/rope"
	"github.com/dshills/ropecore/internal/logging"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the document.
	ByteOffset = rope.ByteOffset

	// Selection is the base/extent selection.
	Selection = cursor.Selection

	// Match is a search hit.
	Match = rope.Match
)

// Engine is the edit controller for a single editing session. It owns the
// current document, the selection, undo/redo history, search state and the
// change listener.
//
// Edits are expected to be serialized by one caller; the mutex only makes
// it safe to take snapshots with Rope, Text or Selection from other
// goroutines while edits are in flight. Listeners run after the lock is
// released and may call back into the engine.
type Engine struct {
	mu sync.RWMutex

	id       uuid.UUID
	rope     rope.Rope
	sel      cursor.Selection
	history  *history.History
	search   searchState
	readOnly bool
	revision uint64
	dropped  int

	listener Listener
	logger   *logging.Logger
	now      func() time.Time

	maxUndoEntries int
	coalesceWindow time.Duration
}

// New creates a new Engine with the given options.
// The selection starts collapsed at offset 0.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:             uuid.New(),
		maxUndoEntries: DefaultMaxUndoEntries,
		coalesceWindow: DefaultCoalesceWindow,
		logger:         logging.Nop(),
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.history = history.New(e.maxUndoEntries, e.coalesceWindow)
	e.search.reset()
	e.logger = e.logger.WithComponent("engine").WithField("session", e.id.String())
	return e
}

// NewFromReader creates an Engine whose document is read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	doc, err := rope.FromReader(r)
	if err != nil {
		return nil, err
	}
	return New(append(opts, WithRope(doc))...), nil
}

// ============================================================================
// Read Operations
// ============================================================================

// SessionID returns the unique identifier of this editing session.
func (e *Engine) SessionID() string {
	return e.id.String()
}

// Rope returns the current document. The value is immutable and may be
// read from any goroutine.
func (e *Engine) Rope() rope.Rope {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rope
}

// Text returns the entire document as a string.
func (e *Engine) Text() string {
	return e.Rope().String()
}

// Len returns the document length in bytes.
func (e *Engine) Len() ByteOffset {
	return e.Rope().Len()
}

// LineCount returns the number of lines (0 for an empty document).
func (e *Engine) LineCount() int {
	return e.Rope().LineCount()
}

// Selection returns the current selection.
func (e *Engine) Selection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sel
}

// Revision returns a counter incremented by every state change of the
// document.
func (e *Engine) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

// ReadOnly returns true if the engine ignores edits.
func (e *Engine) ReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// SetReadOnly enables or disables read-only mode.
func (e *Engine) SetReadOnly(readOnly bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readOnly = readOnly
}

// OnChange installs the change listener, replacing any previous one.
// Pass nil to remove it.
func (e *Engine) OnChange(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// ============================================================================
// Edit Operations
// ============================================================================

// InsertText inserts text at the selection base and collapses the
// selection after it. Ignored when read-only or text is empty.
func (e *Engine) InsertText(text string) {
	if text == "" {
		return
	}
	e.update(func() (*Change, bool) {
		base := e.sel.Base
		return e.editLocked(history.KindInsert, base, base, text, base+ByteOffset(len(text)))
	})
}

// DeleteBackward deletes the grapheme cluster before the cursor, or the
// selected text if the selection is not collapsed. No-op at the start of
// the document.
func (e *Engine) DeleteBackward() {
	e.update(func() (*Change, bool) {
		if !e.sel.IsCollapsed() {
			return e.deleteSelectionLocked()
		}
		pos := e.sel.Base
		if pos == 0 {
			return nil, false
		}
		start := prevClusterStart(e.rope, pos)
		return e.editLocked(history.KindDelete, start, pos, "", start)
	})
}

// DeleteForward deletes the grapheme cluster after the cursor, or the
// selected text if the selection is not collapsed. No-op at the end of the
// document.
func (e *Engine) DeleteForward() {
	e.update(func() (*Change, bool) {
		if !e.sel.IsCollapsed() {
			return e.deleteSelectionLocked()
		}
		pos := e.sel.Base
		if pos >= e.rope.Len() {
			return nil, false
		}
		end := nextClusterEnd(e.rope, pos)
		return e.editLocked(history.KindDelete, pos, end, "", pos)
	})
}

// DeleteSelection removes the selected text as its own undo step and
// collapses the selection to its start. No-op when collapsed.
func (e *Engine) DeleteSelection() {
	e.update(e.deleteSelectionLocked)
}

func (e *Engine) deleteSelectionLocked() (*Change, bool) {
	if e.sel.IsCollapsed() {
		return nil, false
	}
	start, end := e.sel.Start(), e.sel.End()
	return e.editLocked(history.KindDestructive, start, end, "", start)
}

// ReplaceSelection replaces the selected text with text as its own undo
// step and collapses the selection after the inserted text.
func (e *Engine) ReplaceSelection(text string) {
	e.update(func() (*Change, bool) {
		start, end := e.sel.Start(), e.sel.End()
		if start == end && text == "" {
			return nil, false
		}
		return e.editLocked(history.KindDestructive, start, end, text, start+ByteOffset(len(text)))
	})
}

// editLocked replaces [start, end) with text, records history and leaves a
// collapsed selection at caret.
func (e *Engine) editLocked(kind history.Kind, start, end ByteOffset, text string, caret ByteOffset) (*Change, bool) {
	if e.readOnly {
		return nil, false
	}

	deleted, err := e.rope.Substring(start, end)
	if err != nil {
		e.logger.Error("edit %s rejected: %v", kind, err)
		return nil, false
	}

	var next rope.Rope
	switch {
	case start == end:
		next, err = e.rope.Insert(start, text)
	case text == "":
		next, err = e.rope.Delete(start, end)
	default:
		next, err = e.rope.Replace(start, end, text)
	}
	if err != nil {
		e.logger.Error("edit %s rejected: %v", kind, err)
		return nil, false
	}

	e.history.Record(history.Entry{Rope: e.rope, Selection: e.sel, Time: e.now()}, kind)
	if d := e.history.Dropped(); d != e.dropped {
		e.logger.Debug("history cap reached, discarded %d oldest entries", d-e.dropped)
		e.dropped = d
	}

	e.rope = next
	e.sel = cursor.Collapsed(caret)
	e.revision++
	e.search.reset()

	return &Change{
		Start:    start,
		End:      end,
		Inserted: text,
		Deleted:  deleted,
		Revision: e.revision,
	}, true
}

// SetRope replaces the whole document without recording history, for
// example after the file changed on disk. The selection is clamped to the
// new length and listeners receive a nil change.
func (e *Engine) SetRope(r rope.Rope) {
	e.update(func() (*Change, bool) {
		e.rope = r
		e.sel = e.sel.Clamp(r.Len())
		e.revision++
		e.search.reset()
		e.history.Break()
		e.logger.Debug("document replaced, %d bytes", r.Len())
		return nil, true
	})
}

// SetSelection moves the selection, clamped to the document.
func (e *Engine) SetSelection(sel Selection) {
	e.update(func() (*Change, bool) {
		e.sel = sel.Clamp(e.rope.Len())
		e.history.Break()
		return nil, true
	})
}

// update runs fn under the write lock and notifies the listener after the
// lock is released if fn reports a state change.
func (e *Engine) update(fn func() (*Change, bool)) bool {
	e.mu.Lock()
	change, changed := fn()
	l := e.listener
	e.mu.Unlock()

	if changed && l != nil {
		l(change)
	}
	return changed
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo restores the state before the most recent undo step.
// Returns false if there is nothing to undo or the engine is read-only.
func (e *Engine) Undo() bool {
	return e.restore("undo", e.history.Undo)
}

// Redo re-applies the most recently undone step.
// Returns false if there is nothing to redo or the engine is read-only.
func (e *Engine) Redo() bool {
	return e.restore("redo", e.history.Redo)
}

func (e *Engine) restore(op string, pop func(history.Entry) (history.Entry, bool)) bool {
	e.mu.Lock()
	if e.readOnly {
		e.mu.Unlock()
		return false
	}

	entry, ok := pop(history.Entry{Rope: e.rope, Selection: e.sel, Time: e.now()})
	if !ok {
		e.mu.Unlock()
		return false
	}

	// Recording stays suppressed until the listener has returned.
	e.history.BeginRestore()
	defer e.history.EndRestore()

	e.rope = entry.Rope
	e.sel = entry.Selection.Clamp(entry.Rope.Len())
	e.revision++
	e.search.reset()
	e.logger.Debug("%s to %d bytes (undo=%d redo=%d)", op, e.rope.Len(), e.history.UndoCount(), e.history.RedoCount())
	l := e.listener
	e.mu.Unlock()

	if l != nil {
		l(nil)
	}
	return true
}

// CanUndo returns true if there are operations to undo.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if there are operations to redo.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of undo steps.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of redo steps.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// ClearHistory discards all undo and redo steps.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}
