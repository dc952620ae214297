package rope

import (
	"io"
	"strings"
)

// Builder provides efficient incremental construction of a rope.
// Complete leaves are cut as text arrives; the tree is assembled when
// Build is called.
type Builder struct {
	leaves   []node
	buffer   strings.Builder
	totalLen int
}

// NewBuilder creates a new rope builder.
func NewBuilder() *Builder {
	return &Builder{
		leaves: make([]node, 0, 64),
	}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) (int, error) {
	b.totalLen += len(s)
	b.buffer.WriteString(s)

	// Flush full leaves once enough text is buffered
	if b.buffer.Len() >= MaxLeaf*4 {
		b.flush(false)
	}
	return len(s), nil
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// flush converts buffered text to leaves. Unless final is set, the last
// partial chunk stays buffered so leaves are cut at full size.
func (b *Builder) flush(final bool) {
	if b.buffer.Len() == 0 {
		return
	}
	s := b.buffer.String()
	b.buffer.Reset()

	chunks := splitIntoChunks(s)
	if !final {
		b.buffer.WriteString(chunks[len(chunks)-1])
		chunks = chunks[:len(chunks)-1]
	}
	for _, c := range chunks {
		b.leaves = append(b.leaves, newLeaf(c))
	}
}

// Len returns the total number of bytes written.
func (b *Builder) Len() int {
	return b.totalLen
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.leaves = nil
	b.buffer.Reset()
	b.totalLen = 0
}

// Build creates the rope from accumulated data.
// After calling Build, the builder is reset.
func (b *Builder) Build() Rope {
	b.flush(true)
	leaves := b.leaves
	b.Reset()

	if len(leaves) == 0 {
		return New()
	}
	return Rope{root: buildFromNodes(leaves)}
}

// ReadFrom implements io.ReaderFrom for efficient reading.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024) // 64KB buffer
	var total int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.WriteString(string(buf[:n]))
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// FromLines creates a rope from a slice of lines.
// Each line will have a newline appended except the last.
func FromLines(lines []string) Rope {
	var builder Builder
	for i, line := range lines {
		builder.WriteString(line)
		if i < len(lines)-1 {
			builder.WriteString("\n")
		}
	}
	return builder.Build()
}

// Join concatenates multiple ropes with a separator.
func Join(ropes []Rope, sep string) Rope {
	if len(ropes) == 0 {
		return New()
	}

	result := ropes[0]
	sepRope := FromString(sep)
	for _, r := range ropes[1:] {
		result = result.Concat(sepRope).Concat(r)
	}
	return result
}
