package rope

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates an offset, line or range argument is outside the rope.
var ErrOutOfRange = errors.New("out of range")

// checkOffset verifies 0 <= offset <= length.
func checkOffset(offset, length ByteOffset) error {
	if offset < 0 || offset > length {
		return fmt.Errorf("%w: offset %d not in [0, %d]", ErrOutOfRange, offset, length)
	}
	return nil
}

// checkRange verifies 0 <= start <= end <= length.
func checkRange(start, end, length ByteOffset) error {
	if start < 0 || end > length || start > end {
		return fmt.Errorf("%w: range [%d, %d) not within [0, %d]", ErrOutOfRange, start, end, length)
	}
	return nil
}

// checkIndex verifies 0 <= offset < length.
func checkIndex(offset, length ByteOffset) error {
	if offset < 0 || offset >= length {
		return fmt.Errorf("%w: index %d not in [0, %d)", ErrOutOfRange, offset, length)
	}
	return nil
}
