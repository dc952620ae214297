// Package rope provides an immutable rope data structure for efficient text storage and manipulation.
//
// A rope is a balanced tree where leaf nodes hold bounded text chunks and
// internal nodes hold an ordered list of equal-height children together with
// a cached TextSummary of their subtree. The summaries form a monoid, which
// lets byte and line lookups skip whole subtrees in O(log n).
//
// Key features:
//   - O(log n) insertion, deletion, slicing and concatenation
//   - Immutable operations return new ropes; originals are never modified
//   - Structural sharing: only the path from the root to an edited leaf is
//     reallocated, so snapshots are free
//   - Line lookups via cached newline counts
//   - Safe for concurrent read access without locking
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r, _ = r.Insert(5, ",")        // "hello, world"
//	r, _ = r.Delete(0, 7)          // "world"
//	text := r.String()             // "world"
//
// Offsets are byte offsets into UTF-8 text. Every offset or range argument
// must satisfy 0 <= x <= Len (and start <= end); violations return an error
// wrapping ErrOutOfRange.
package rope
