package cursor

import (
	"fmt"

	"github.com/dshills/ropecore/internal/engine/rope"
)

// ByteOffset is an alias for rope.ByteOffset for convenience.
type ByteOffset = rope.ByteOffset

// Selection represents a range of selected text.
// Base is where the selection started; Extent is where it was extended to.
type Selection struct {
	Base   ByteOffset
	Extent ByteOffset
}

// NewSelection creates a selection from base to extent.
func NewSelection(base, extent ByteOffset) Selection {
	return Selection{Base: base, Extent: extent}
}

// Collapsed creates a cursor selection at offset.
func Collapsed(offset ByteOffset) Selection {
	return Selection{Base: offset, Extent: offset}
}

// IsCollapsed returns true if the selection has no extent.
func (s Selection) IsCollapsed() bool {
	return s.Base == s.Extent
}

// Start returns the lower bound of the selection.
func (s Selection) Start() ByteOffset {
	return min(s.Base, s.Extent)
}

// End returns the upper bound of the selection.
func (s Selection) End() ByteOffset {
	return max(s.Base, s.Extent)
}

// Len returns the number of selected bytes.
func (s Selection) Len() ByteOffset {
	return s.End() - s.Start()
}

// IsBackward returns true if the extent lies before the base.
func (s Selection) IsBackward() bool {
	return s.Extent < s.Base
}

// ExtendTo returns a selection with the same base and a new extent.
func (s Selection) ExtendTo(offset ByteOffset) Selection {
	return Selection{Base: s.Base, Extent: offset}
}

// CollapseToStart collapses the selection to its start position.
func (s Selection) CollapseToStart() Selection {
	return Collapsed(s.Start())
}

// CollapseToEnd collapses the selection to its end position.
func (s Selection) CollapseToEnd() Selection {
	return Collapsed(s.End())
}

// Contains returns true if offset is inside [Start, End).
// A collapsed selection contains nothing.
func (s Selection) Contains(offset ByteOffset) bool {
	return offset >= s.Start() && offset < s.End()
}

// Clamp returns a selection with both ends limited to [0, maxOffset].
func (s Selection) Clamp(maxOffset ByteOffset) Selection {
	return Selection{
		Base:   clampOffset(s.Base, maxOffset),
		Extent: clampOffset(s.Extent, maxOffset),
	}
}

func clampOffset(offset, maxOffset ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsCollapsed() {
		return fmt.Sprintf("Cursor(%d)", s.Base)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Base, dir, s.Extent)
}

// Equals returns true if two selections have the same base and extent.
func (s Selection) Equals(other Selection) bool {
	return s == other
}

// SameRange returns true if two selections cover the same range,
// regardless of direction.
func (s Selection) SameRange(other Selection) bool {
	return s.Start() == other.Start() && s.End() == other.End()
}
