package rope

import "strings"

// branch is an internal node. Its children all have the same height and
// its summary is the fold of theirs.
type branch struct {
	children []node
	h        int
	sum      TextSummary
}

func newBranch(children []node) *branch {
	b := &branch{
		children: children,
		h:        children[0].height() + 1,
	}
	for _, c := range children {
		b.sum = b.sum.Add(c.summary())
	}
	return b
}

func (b *branch) height() int          { return b.h }
func (b *branch) summary() TextSummary { return b.sum }

// insert descends into the child covering offset. An offset on a child
// boundary goes to the end of the left child.
func (b *branch) insert(offset ByteOffset, text string) ([]node, error) {
	if err := checkOffset(offset, b.sum.Bytes); err != nil {
		return nil, err
	}

	i, local := b.childAt(offset, true)
	repl, err := b.children[i].insert(local, text)
	if err != nil {
		return nil, err
	}

	kids := replaceChild(b.children, i, repl...)
	if len(kids) <= MaxChildren {
		return []node{newBranch(kids)}, nil
	}
	half := len(kids) / 2
	return []node{newBranch(kids[:half:half]), newBranch(kids[half:])}, nil
}

// childAt finds the child containing offset and the offset within it.
// With atEnd set, an offset on a boundary resolves to the left child.
func (b *branch) childAt(offset ByteOffset, atEnd bool) (int, ByteOffset) {
	for i, c := range b.children {
		n := length(c)
		if offset < n || (atEnd && offset == n) {
			return i, offset
		}
		offset -= n
	}
	last := len(b.children) - 1
	return last, length(b.children[last])
}

// slice takes boundary children partially and interior children whole,
// then concatenates the pieces. Untouched children are shared, not copied.
func (b *branch) slice(start, end ByteOffset) node {
	if start == 0 && end == b.sum.Bytes {
		return b
	}
	if start == end {
		return emptyLeaf
	}

	var (
		head, tail node
		interior   []node
		pos        ByteOffset
	)
	for _, c := range b.children {
		n := length(c)
		cStart, cEnd := pos, pos+n
		pos = cEnd
		if cEnd <= start {
			continue
		}
		if cStart >= end {
			break
		}
		lo, hi := max(start, cStart)-cStart, min(end, cEnd)-cStart
		if lo == 0 && hi == n {
			interior = append(interior, c)
			continue
		}
		piece := c.slice(lo, hi)
		if len(interior) == 0 && head == nil {
			if hi == n {
				head = piece
				continue
			}
			// The whole range lies within this one child.
			return piece
		}
		tail = piece
	}

	var mid node = emptyLeaf
	switch len(interior) {
	case 0:
	case 1:
		mid = interior[0]
	default:
		mid = newBranch(interior)
	}

	result := mid
	if head != nil {
		result = concat(head, result)
	}
	if tail != nil {
		result = concat(result, tail)
	}
	return result
}

func (b *branch) byteAt(offset ByteOffset) byte {
	i, local := b.childAt(offset, false)
	return b.children[i].byteAt(local)
}

func (b *branch) lineStart(n int) ByteOffset {
	var pos ByteOffset
	for _, c := range b.children {
		s := c.summary()
		if n <= s.Lines {
			return pos + c.lineStart(n)
		}
		n -= s.Lines
		pos += s.Bytes
	}
	return pos
}

func (b *branch) newlinesBefore(offset ByteOffset) int {
	lines := 0
	for _, c := range b.children {
		s := c.summary()
		if offset <= s.Bytes {
			return lines + c.newlinesBefore(offset)
		}
		offset -= s.Bytes
		lines += s.Lines
	}
	return lines
}

func (b *branch) appendTo(sb *strings.Builder) {
	for _, c := range b.children {
		c.appendTo(sb)
	}
}

func (b *branch) appendRange(sb *strings.Builder, start, end ByteOffset) {
	var pos ByteOffset
	for _, c := range b.children {
		n := length(c)
		cStart, cEnd := pos, pos+n
		pos = cEnd
		if cEnd <= start {
			continue
		}
		if cStart >= end {
			return
		}
		c.appendRange(sb, max(start, cStart)-cStart, min(end, cEnd)-cStart)
	}
}
