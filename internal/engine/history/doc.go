// Package history provides snapshot-based undo/redo for the edit engine.
//
// Because ropes are immutable, an undo entry is simply the rope and
// selection as they were before an edit, plus the time the entry was
// recorded. Restoring an entry is a pointer swap; untouched subtrees are
// shared between every version on both stacks.
//
// # Coalescing
//
// Small edits of the same kind (typing, single-character deletes) that
// arrive within the coalesce window of the entry on top of the undo stack
// are folded into that entry instead of pushing a new one:
//
//	h := history.New(1000, 500*time.Millisecond)
//	h.Record(before, history.KindInsert) // pushes
//	h.Record(before, history.KindInsert) // 100ms later: coalesced
//	h.Record(before, history.KindInsert) // 900ms later: pushes
//
// The window is measured against the timestamp of the top entry, so a
// burst never grows past one window. Destructive edits always push, and
// Break ends the current burst explicitly.
//
// # Restoring
//
// While an undo or redo is being applied the caller brackets the restore
// with BeginRestore/EndRestore; Record is a no-op in between.
package history
