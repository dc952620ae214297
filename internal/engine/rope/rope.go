package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// This enables cheap snapshots and thread-safe concurrent read access.
//
// The zero value is an empty rope.
type Rope struct {
	root node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: emptyLeaf}
}

// FromString creates a balanced rope from a string in O(n).
func FromString(s string) Rope {
	return Rope{root: buildTree(s)}
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	if _, err := b.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

func (r Rope) node() node {
	if r.root == nil {
		return emptyLeaf
	}
	return r.root
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	return length(r.node())
}

// LineCount returns 0 for an empty rope and the newline count plus one otherwise.
func (r Rope) LineCount() int {
	if r.IsEmpty() {
		return 0
	}
	return r.node().summary().Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	return r.node().summary()
}

// Height returns the height of the rope tree; a single leaf has height 0.
func (r Rope) Height() int {
	return r.node().height()
}

// String returns the full text as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	var sb strings.Builder
	sb.Grow(int(r.Len()))
	r.node().appendTo(&sb)
	return sb.String()
}

// WriteTo writes the rope's text to w chunk by chunk.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Chunks()
	for it.Next() {
		n, err := io.WriteString(w, it.Chunk())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ByteAt returns the byte at the given offset; 0 <= offset < Len.
func (r Rope) ByteAt(offset ByteOffset) (byte, error) {
	if err := checkIndex(offset, r.Len()); err != nil {
		return 0, err
	}
	return r.node().byteAt(offset), nil
}

// Slice returns the rope holding exactly [start, end). Untouched subtrees
// are shared with r.
func (r Rope) Slice(start, end ByteOffset) (Rope, error) {
	if err := checkRange(start, end, r.Len()); err != nil {
		return Rope{}, err
	}
	return Rope{root: r.node().slice(start, end)}, nil
}

// Substring returns the text in [start, end).
func (r Rope) Substring(start, end ByteOffset) (string, error) {
	if err := checkRange(start, end, r.Len()); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(int(end - start))
	r.node().appendRange(&sb, start, end)
	return sb.String(), nil
}

// Insert inserts text at the given byte offset.
// Returns a new rope; original is unchanged.
func (r Rope) Insert(offset ByteOffset, text string) (Rope, error) {
	if err := checkOffset(offset, r.Len()); err != nil {
		return Rope{}, err
	}
	if text == "" {
		return r, nil
	}
	if len(text) > MaxLeaf/2 {
		// Large insertions are bulk-loaded and spliced in.
		return r.splice(offset, offset, text), nil
	}

	parts, err := r.node().insert(offset, text)
	if err != nil {
		return Rope{}, err
	}
	if len(parts) == 1 {
		return Rope{root: parts[0]}, nil
	}
	return Rope{root: newBranch(parts)}, nil
}

// Delete removes text in the byte range [start, end).
// Returns a new rope; original is unchanged.
func (r Rope) Delete(start, end ByteOffset) (Rope, error) {
	if err := checkRange(start, end, r.Len()); err != nil {
		return Rope{}, err
	}
	return Rope{root: deleteRange(r.node(), start, end)}, nil
}

// Replace replaces text in the byte range [start, end) with text.
// Returns a new rope; original is unchanged.
func (r Rope) Replace(start, end ByteOffset, text string) (Rope, error) {
	if err := checkRange(start, end, r.Len()); err != nil {
		return Rope{}, err
	}
	return r.splice(start, end, text), nil
}

// splice concatenates the prefix before start, a tree for text and the
// suffix after end. Bounds are already validated.
func (r Rope) splice(start, end ByteOffset, text string) Rope {
	n := r.node()
	left := n.slice(0, start)
	right := n.slice(end, length(n))
	return Rope{root: concat(concat(left, buildTree(text)), right)}
}

// Concat concatenates two ropes.
// Returns a new rope; originals are unchanged.
func (r Rope) Concat(other Rope) Rope {
	return Rope{root: concat(r.node(), other.node())}
}

// Split splits the rope at offset, returning two independent ropes.
// Left rope contains [0, offset), right contains [offset, end).
func (r Rope) Split(offset ByteOffset) (Rope, Rope, error) {
	if err := checkOffset(offset, r.Len()); err != nil {
		return Rope{}, Rope{}, err
	}
	n := r.node()
	return Rope{root: n.slice(0, offset)}, Rope{root: n.slice(offset, length(n))}, nil
}

// Equals returns true if two ropes contain the same text.
// Note: This compares content, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.node() == other.node() {
		return true
	}
	return r.String() == other.String()
}
