package rope

import "strings"

// ByteOffset represents an absolute byte position in the rope.
type ByteOffset int

// TextSummary holds aggregated metrics for a text span.
// It is the cached summary of every tree node and forms a monoid under Add
// with the zero value as identity.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes ByteOffset

	// Lines is the number of newline characters.
	Lines int

	// LastLineLen is the byte length of the text after the final newline,
	// or of the whole span if it has none.
	LastLineLen ByteOffset
}

// Add combines two summaries (monoid operation).
// s.Add(o) summarizes the text of s followed by the text of o.
func (s TextSummary) Add(o TextSummary) TextSummary {
	last := s.LastLineLen + o.Bytes
	if o.Lines > 0 {
		last = o.LastLineLen
	}
	return TextSummary{
		Bytes:       s.Bytes + o.Bytes,
		Lines:       s.Lines + o.Lines,
		LastLineLen: last,
	}
}

// IsZero returns true if this is the identity summary.
func (s TextSummary) IsZero() bool {
	return s == TextSummary{}
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	sum := TextSummary{Bytes: ByteOffset(len(s))}
	last := strings.LastIndexByte(s, '\n')
	if last < 0 {
		sum.LastLineLen = sum.Bytes
		return sum
	}
	sum.Lines = strings.Count(s, "\n")
	sum.LastLineLen = ByteOffset(len(s) - last - 1)
	return sum
}

// nthNewline returns the byte index just past the nth newline (1-indexed)
// in s, or -1 if s has fewer than n newlines.
func nthNewline(s string, n int) int {
	if n <= 0 {
		return 0
	}
	pos := 0
	for n > 0 {
		i := strings.IndexByte(s[pos:], '\n')
		if i < 0 {
			return -1
		}
		pos += i + 1
		n--
	}
	return pos
}
