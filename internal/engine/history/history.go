package history

import (
	"sync"
	"time"

	"github.com/dshills/ropecore/internal/engine/cursor"
	"github.com/dshills/ropecore/internal/engine/rope"
)

// Default limits.
const (
	DefaultMaxEntries     = 1000
	DefaultCoalesceWindow = 500 * time.Millisecond
)

// Kind classifies an edit for coalescing.
type Kind uint8

const (
	// KindInsert is plain typing at the cursor.
	KindInsert Kind = iota
	// KindDelete is a single-character delete.
	KindDelete
	// KindDestructive covers selection deletes and replacements. Never coalesced.
	KindDestructive
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindDestructive:
		return "destructive"
	default:
		return "unknown"
	}
}

// Entry is a snapshot of editor state.
type Entry struct {
	Rope      rope.Rope
	Selection cursor.Selection
	Time      time.Time
}

// History manages the undo and redo stacks.
type History struct {
	mu sync.Mutex

	undoStack []Entry
	redoStack []Entry

	maxEntries int
	window     time.Duration

	// Burst state for coalescing.
	lastKind Kind
	burst    bool

	// restoring counts nested restores; recording is off while it is > 0.
	restoring int
	dropped   int
}

// New creates a history keeping at most maxEntries undo steps and
// coalescing like edits that arrive within window.
func New(maxEntries int, window time.Duration) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if window < 0 {
		window = 0
	}
	return &History{
		maxEntries: maxEntries,
		window:     window,
	}
}

// Record registers an edit about to be applied. before is the state
// prior to the edit, stamped with the current time. It reports whether a
// new undo entry was pushed; false means the edit was coalesced into the
// top entry or a restore is in progress. Every recorded edit clears the
// redo stack.
func (h *History) Record(before Entry, kind Kind) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.restoring > 0 {
		return false
	}

	h.redoStack = nil

	if h.coalescesLocked(before.Time, kind) {
		return false
	}

	h.pushUndoLocked(before)
	h.lastKind = kind
	h.burst = kind != KindDestructive
	return true
}

func (h *History) coalescesLocked(now time.Time, kind Kind) bool {
	if !h.burst || kind == KindDestructive || kind != h.lastKind {
		return false
	}
	if len(h.undoStack) == 0 {
		return false
	}
	top := h.undoStack[len(h.undoStack)-1]
	return now.Sub(top.Time) < h.window
}

// pushUndoLocked appends to the undo stack, discarding the oldest entries
// beyond the cap.
func (h *History) pushUndoLocked(e Entry) {
	h.undoStack = append(h.undoStack, e)
	h.trimLocked()
}

func (h *History) trimLocked() {
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		// Copy so the discarded entries' ropes can be collected.
		h.undoStack = append([]Entry(nil), h.undoStack[excess:]...)
		h.dropped += excess
	}
}

// Break ends the current coalescing burst. The next edit pushes a new entry.
func (h *History) Break() {
	h.mu.Lock()
	h.burst = false
	h.mu.Unlock()
}

// Undo pushes current onto the redo stack and pops the most recent undo
// entry. It returns false if there is nothing to undo.
func (h *History) Undo(current Entry) (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return Entry{}, false
	}

	top := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	h.burst = false
	return top, true
}

// Redo pushes current onto the undo stack and pops the most recent redo
// entry. It returns false if there is nothing to redo.
func (h *History) Redo(current Entry) (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return Entry{}, false
	}

	top := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.pushUndoLocked(current)
	h.burst = false
	return top, true
}

// BeginRestore suppresses recording until the matching EndRestore.
// Calls nest: recording resumes only when every restore has ended.
func (h *History) BeginRestore() {
	h.mu.Lock()
	h.restoring++
	h.mu.Unlock()
}

// EndRestore ends one BeginRestore.
func (h *History) EndRestore() {
	h.mu.Lock()
	if h.restoring > 0 {
		h.restoring--
	}
	h.mu.Unlock()
}

// Restoring reports whether a restore is in progress.
func (h *History) Restoring() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.restoring > 0
}

// CanUndo returns true if there are entries to undo.
func (h *History) CanUndo() bool {
	return h.UndoCount() > 0
}

// CanRedo returns true if there are entries to redo.
func (h *History) CanRedo() bool {
	return h.RedoCount() > 0
}

// UndoCount returns the number of undo entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Dropped returns how many entries have been discarded by the cap.
func (h *History) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Clear removes all history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
	h.burst = false
}

// SetMaxEntries sets the cap, trimming the oldest entries if needed.
func (h *History) SetMaxEntries(n int) {
	if n <= 0 {
		n = DefaultMaxEntries
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxEntries = n
	h.trimLocked()
}

// MaxEntries returns the cap.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

// Window returns the coalesce window.
func (h *History) Window() time.Duration {
	return h.window
}
