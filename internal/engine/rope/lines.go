package rope

import (
	"fmt"
	"strings"
)

// LineIndexAt returns the 0-indexed line containing offset, which may be
// anywhere in [0, Len]. An offset just past a newline belongs to the next line.
func (r Rope) LineIndexAt(offset ByteOffset) (int, error) {
	if err := checkOffset(offset, r.Len()); err != nil {
		return 0, err
	}
	return r.node().newlinesBefore(offset), nil
}

// LineColAt converts an offset to a 0-indexed line and byte column.
func (r Rope) LineColAt(offset ByteOffset) (line int, col ByteOffset, err error) {
	line, err = r.LineIndexAt(offset)
	if err != nil {
		return 0, 0, err
	}
	return line, offset - r.node().lineStart(line), nil
}

// checkLine verifies line names an existing line. An empty rope still has a
// line 0 at offset 0 so that cursor math stays uniform.
func (r Rope) checkLine(line int) error {
	n := max(r.LineCount(), 1)
	if line < 0 || line >= n {
		return fmt.Errorf("%w: line %d not in [0, %d)", ErrOutOfRange, line, n)
	}
	return nil
}

// LineStartOffset returns the byte offset of the start of the given line.
func (r Rope) LineStartOffset(line int) (ByteOffset, error) {
	if err := r.checkLine(line); err != nil {
		return 0, err
	}
	return r.node().lineStart(line), nil
}

// LineEndOffset returns the exclusive end of the given line, including its
// newline terminator. For the last line this is the end of the document.
func (r Rope) LineEndOffset(line int) (ByteOffset, error) {
	if err := r.checkLine(line); err != nil {
		return 0, err
	}
	if line < r.node().summary().Lines {
		return r.node().lineStart(line + 1), nil
	}
	return r.Len(), nil
}

// Line returns the text of the given line without its newline terminator.
func (r Rope) Line(line int) (string, error) {
	start, err := r.LineStartOffset(line)
	if err != nil {
		return "", err
	}
	end, err := r.LineEndOffset(line)
	if err != nil {
		return "", err
	}
	text, err := r.Substring(start, end)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(text, "\n"), nil
}
