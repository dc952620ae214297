package rope

// ChunkIterator iterates over the leaf chunks of a rope in order.
type ChunkIterator struct {
	stack   []iterFrame
	pending string
	current string
	offset  ByteOffset
	next    ByteOffset
}

type iterFrame struct {
	b   *branch
	idx int
}

// Chunks returns an iterator over all chunks in the rope.
//
//	it := r.Chunks()
//	for it.Next() {
//	    process(it.Chunk())
//	}
func (r Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{stack: make([]iterFrame, 0, r.Height()+1)}
	it.push(r.node())
	return it
}

// push descends to the leftmost leaf under n, recording the path.
func (it *ChunkIterator) push(n node) {
	for {
		b, ok := n.(*branch)
		if !ok {
			it.pending = n.(*leaf).text
			return
		}
		it.stack = append(it.stack, iterFrame{b: b})
		n = b.children[0]
	}
}

// Next advances to the next non-empty chunk.
// Returns true if there is a chunk, false if iteration is complete.
func (it *ChunkIterator) Next() bool {
	for {
		if it.pending != "" {
			it.current, it.pending = it.pending, ""
			it.offset = it.next
			it.next += ByteOffset(len(it.current))
			return true
		}
		if !it.advance() {
			return false
		}
	}
}

// advance moves to the following leaf, or reports exhaustion.
func (it *ChunkIterator) advance() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		top.idx++
		if top.idx < len(top.b.children) {
			it.push(top.b.children[top.idx])
			return true
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

// Chunk returns the current chunk text.
func (it *ChunkIterator) Chunk() string {
	return it.current
}

// Offset returns the byte offset of the current chunk in the rope.
func (it *ChunkIterator) Offset() ByteOffset {
	return it.offset
}
