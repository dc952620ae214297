// Package engine provides the edit controller that turns immutable rope
// operations into editor semantics.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - rope: persistent B-tree rope with cached line metrics
//   - cursor: base/extent selection model
//   - history: snapshot-based undo/redo with coalescing
//
// An Engine owns the current document, the selection, undo/redo history,
// search state, a read-only flag and a single change listener.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("Hello"))
//	e.SetSelection(engine.Selection{Base: 5, Extent: 5})
//	e.InsertText(" World")            // "Hello World", cursor at 11
//
//	e.SetSelection(engine.Selection{Base: 0, Extent: 6})
//	e.DeleteSelection()               // "World", cursor at 0
//
//	e.Undo()                          // "Hello World", selection [0,6)
//
// # Undo/Redo
//
// Every edit records the document and selection as they were before it.
// Typing and single-character deletes arriving within the coalesce window
// (500ms by default) fold into one undo step:
//
//	e := engine.New(engine.WithCoalesceWindow(time.Second))
//
// DeleteSelection and ReplaceSelection always start a new step. A new edit
// after Undo discards the redo stack.
//
// # Change Notification
//
// OnChange installs a single listener. Text edits deliver a *Change
// describing the replaced range of the pre-edit document; undo, redo,
// SetRope and selection moves deliver nil, meaning "re-read everything":
//
//	e.OnChange(func(c *engine.Change) {
//	    if c == nil {
//	        resync(e.Rope())
//	        return
//	    }
//	    highlighter.Edit(c.Start, c.End, c.Inserted)
//	})
//
// # Read-Only Mode
//
// A read-only engine silently ignores edits, undo and redo. SetRope,
// SetSelection and search still work so a viewer can follow an external
// file.
//
// # Thread Safety
//
// Edits must be serialized by the caller. Rope returns an immutable
// snapshot that any goroutine may read without locking.
package engine
