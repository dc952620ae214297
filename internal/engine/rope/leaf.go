package rope

import "strings"

// leaf holds a chunk of at most MaxLeaf bytes. Only the root of an empty
// rope is an empty leaf.
type leaf struct {
	text string
	sum  TextSummary
}

func newLeaf(s string) *leaf {
	return &leaf{text: s, sum: ComputeSummary(s)}
}

func (l *leaf) height() int          { return 0 }
func (l *leaf) summary() TextSummary { return l.sum }

// insert splices text into the chunk. A chunk that overflows MaxLeaf is
// split into two halves at a UTF-8 boundary near its midpoint; text is at
// most MaxLeaf/2 bytes, so each half fits in a leaf.
func (l *leaf) insert(offset ByteOffset, text string) ([]node, error) {
	if err := checkOffset(offset, ByteOffset(len(l.text))); err != nil {
		return nil, err
	}
	s := l.text[:offset] + text + l.text[offset:]
	if len(s) <= MaxLeaf {
		return []node{newLeaf(s)}, nil
	}
	mid := splitPoint(s, len(s)/2)
	return []node{newLeaf(s[:mid]), newLeaf(s[mid:])}, nil
}

func (l *leaf) slice(start, end ByteOffset) node {
	if start == 0 && end == ByteOffset(len(l.text)) {
		return l
	}
	if start == end {
		return emptyLeaf
	}
	return newLeaf(l.text[start:end])
}

func (l *leaf) byteAt(offset ByteOffset) byte {
	return l.text[offset]
}

func (l *leaf) lineStart(n int) ByteOffset {
	return ByteOffset(nthNewline(l.text, n))
}

func (l *leaf) newlinesBefore(offset ByteOffset) int {
	return strings.Count(l.text[:offset], "\n")
}

func (l *leaf) appendTo(sb *strings.Builder) {
	sb.WriteString(l.text)
}

func (l *leaf) appendRange(sb *strings.Builder, start, end ByteOffset) {
	sb.WriteString(l.text[start:end])
}
