package engine

import (
	"fmt"

	"github.com/dshills/ropecore/internal/engine/rope"
)

// Change describes one edit as a minimal diff: the range [Start, End) of
// the pre-edit document was replaced by Inserted. Deleted holds the text
// that was removed.
//
// Listeners receive a nil *Change when the document was replaced wholesale
// (undo, redo, SetRope) or only the selection moved, and should re-read the
// full document.
type Change struct {
	Start    ByteOffset
	End      ByteOffset
	Inserted string
	Deleted  string

	// Revision is the engine revision this change produced.
	Revision uint64
}

// IsInsert returns true if the change removed nothing.
func (c Change) IsInsert() bool {
	return c.Start == c.End && c.Inserted != ""
}

// IsDelete returns true if the change inserted nothing.
func (c Change) IsDelete() bool {
	return c.Start != c.End && c.Inserted == ""
}

// NewEnd returns the end of the inserted text in the post-edit document.
func (c Change) NewEnd() ByteOffset {
	return c.Start + ByteOffset(len(c.Inserted))
}

// Delta returns the change in document length.
func (c Change) Delta() ByteOffset {
	return ByteOffset(len(c.Inserted)) - (c.End - c.Start)
}

// Apply replays the change onto r, which must hold the pre-edit text.
func (c Change) Apply(r rope.Rope) (rope.Rope, error) {
	return r.Replace(c.Start, c.End, c.Inserted)
}

// Invert returns the change that undoes c.
func (c Change) Invert() Change {
	return Change{
		Start:    c.Start,
		End:      c.NewEnd(),
		Inserted: c.Deleted,
		Deleted:  c.Inserted,
	}
}

// String returns a compact description for logs.
func (c Change) String() string {
	return fmt.Sprintf("[%d,%d) -%d +%d @%d", c.Start, c.End, len(c.Deleted), len(c.Inserted), c.Revision)
}

// Listener receives change notifications.
type Listener func(change *Change)
