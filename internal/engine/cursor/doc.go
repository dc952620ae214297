// Package cursor provides the selection model used by the edit engine.
//
// A Selection uses a base/extent model:
//   - Base: the position where the selection was started
//   - Extent: the position the selection was extended to
//
// When Base == Extent the selection is collapsed and represents a plain
// cursor. The selection may extend forward (extent > base) or backward
// (extent < base); Start and End always return the ordered bounds.
//
// Basic usage:
//
//	sel := cursor.Collapsed(10)    // cursor at offset 10
//	sel = sel.ExtendTo(20)         // select [10, 20)
//	sel = sel.Clamp(buf.Len())     // keep it inside the document
//
// Selection is an immutable value type and safe for concurrent use.
package cursor
