package rope

import "unicode/utf8"

// MaxLeaf is the maximum number of bytes held by a single leaf.
const MaxLeaf = 512

// splitPoint returns a byte index close to target at which s can be cut
// without splitting a UTF-8 sequence. The result is in (0, len(s)) whenever
// len(s) > 1.
func splitPoint(s string, target int) int {
	if target <= 0 {
		target = 1
	}
	if target >= len(s) {
		return len(s)
	}
	pos := target
	for pos > 0 && pos > target-utf8.UTFMax && !utf8.RuneStart(s[pos]) {
		pos--
	}
	if pos == 0 || !utf8.RuneStart(s[pos]) {
		// Invalid UTF-8 or a sequence wider than UTFMax; cut bytewise.
		return target
	}
	return pos
}

// splitIntoChunks cuts s into pieces of at most MaxLeaf bytes, never
// splitting a UTF-8 sequence.
func splitIntoChunks(s string) []string {
	if len(s) == 0 {
		return nil
	}
	chunks := make([]string, 0, len(s)/MaxLeaf+1)
	for len(s) > MaxLeaf {
		cut := splitPoint(s, MaxLeaf)
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	return append(chunks, s)
}
