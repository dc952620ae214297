package rope

import "strings"

// Tree structure constants
const (
	// MinChildren is the minimum children per internal node built by the
	// bulk loader or by overflow splits. Branches produced by Slice and
	// Concat may hold as few as two children; the height stays logarithmic
	// because every branch still has at least two.
	MinChildren = 4

	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8
)

// node is a rope tree node. The variant set is closed: every node is
// either a *leaf (height 0) or a *branch (height > 0).
//
// Nodes are never mutated after construction, so any subtree may be shared
// by any number of rope versions.
type node interface {
	height() int
	summary() TextSummary

	// insert splices text in at offset and returns the replacement for the
	// receiver: one node, or two siblings of the receiver's height when it
	// overflowed. text must be at most MaxLeaf/2 bytes; Rope.Insert splices
	// longer text instead.
	insert(offset ByteOffset, text string) ([]node, error)

	// slice returns a tree holding exactly [start, end). The caller
	// guarantees 0 <= start <= end <= length.
	slice(start, end ByteOffset) node

	// byteAt returns the byte at offset; 0 <= offset < length.
	byteAt(offset ByteOffset) byte

	// lineStart returns the offset just past the nth newline; 0 <= n <= Lines.
	lineStart(n int) ByteOffset

	// newlinesBefore counts newlines in [0, offset); 0 <= offset <= length.
	newlinesBefore(offset ByteOffset) int

	// appendTo writes the subtree text to sb in order.
	appendTo(sb *strings.Builder)

	// appendRange writes the text in [start, end) to sb.
	appendRange(sb *strings.Builder, start, end ByteOffset)
}

var emptyLeaf node = &leaf{}

func length(n node) ByteOffset {
	return n.summary().Bytes
}

// deleteRange removes [start, end) by concatenating the kept prefix and
// suffix, so deletion is derived from slice and concat.
func deleteRange(n node, start, end ByteOffset) node {
	if start == end {
		return n
	}
	return concat(n.slice(0, start), n.slice(end, length(n)))
}

// concat joins two trees, keeping the result balanced.
//
// Equal heights are merged directly. Otherwise the shorter tree is grafted
// onto the edge child of the taller one: the last child when appending, the
// first when prepending. If the graft grows the edge child to the taller
// tree's own height its children are regrouped with the remaining siblings.
func concat(a, b node) node {
	if length(a) == 0 {
		return b
	}
	if length(b) == 0 {
		return a
	}

	ha, hb := a.height(), b.height()
	switch {
	case ha == hb:
		return mergeSameHeight(a, b)

	case ha > hb:
		p := a.(*branch)
		last := len(p.children) - 1
		grown := concat(p.children[last], b)
		if grown.height() < ha {
			return newBranch(replaceChild(p.children, last, grown))
		}
		kids := make([]node, 0, last+MaxChildren)
		kids = append(kids, p.children[:last]...)
		kids = append(kids, grown.(*branch).children...)
		return groupChildren(kids)

	default:
		p := b.(*branch)
		grown := concat(a, p.children[0])
		if grown.height() < hb {
			return newBranch(replaceChild(p.children, 0, grown))
		}
		kids := make([]node, 0, len(p.children)+MaxChildren)
		kids = append(kids, grown.(*branch).children...)
		kids = append(kids, p.children[1:]...)
		return groupChildren(kids)
	}
}

// mergeSameHeight joins two non-empty trees of equal height.
func mergeSameHeight(a, b node) node {
	if la, ok := a.(*leaf); ok {
		lb := b.(*leaf)
		if len(la.text)+len(lb.text) <= MaxLeaf {
			return newLeaf(la.text + lb.text)
		}
		return newBranch([]node{a, b})
	}

	pa, pb := a.(*branch), b.(*branch)
	kids := make([]node, 0, len(pa.children)+len(pb.children))
	kids = append(kids, pa.children...)
	kids = append(kids, pb.children...)
	return groupChildren(kids)
}

// groupChildren wraps 2..2*MaxChildren equal-height nodes into a single
// branch, or into two branches under a new parent when they do not fit.
func groupChildren(kids []node) node {
	if len(kids) <= MaxChildren {
		return newBranch(kids)
	}
	half := len(kids) / 2
	return newBranch([]node{newBranch(kids[:half:half]), newBranch(kids[half:])})
}

// replaceChild returns a copy of kids with kids[i] replaced by repl.
func replaceChild(kids []node, i int, repl ...node) []node {
	out := make([]node, 0, len(kids)-1+len(repl))
	out = append(out, kids[:i]...)
	out = append(out, repl...)
	out = append(out, kids[i+1:]...)
	return out
}

// buildTree bulk-loads a balanced tree from text in O(n): the text is cut
// into leaves, then consecutive nodes are grouped into parents until a
// single root remains.
func buildTree(s string) node {
	chunks := splitIntoChunks(s)
	if len(chunks) == 0 {
		return emptyLeaf
	}
	nodes := make([]node, len(chunks))
	for i, c := range chunks {
		nodes[i] = newLeaf(c)
	}
	return buildFromNodes(nodes)
}

// buildFromNodes groups equal-height nodes level by level. Groups are sized
// evenly so that every parent has at least MinChildren children when more
// than MaxChildren nodes are present.
func buildFromNodes(nodes []node) node {
	for len(nodes) > 1 {
		groups := (len(nodes) + MaxChildren - 1) / MaxChildren
		parents := make([]node, 0, groups)
		start := 0
		for g := 0; g < groups; g++ {
			size := len(nodes) / groups
			if g < len(nodes)%groups {
				size++
			}
			kids := make([]node, size)
			copy(kids, nodes[start:start+size])
			parents = append(parents, newBranch(kids))
			start += size
		}
		nodes = parents
	}
	return nodes[0]
}
