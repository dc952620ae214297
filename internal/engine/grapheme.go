package engine

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/ropecore/internal/engine/rope"
)

// maxClusterScan bounds how far from the cursor cluster segmentation looks.
// Line starts are always cluster boundaries, so the scan window never needs
// to reach past one.
const maxClusterScan = 1024

// prevClusterStart returns the start of the grapheme cluster ending at pos.
// pos must be > 0.
func prevClusterStart(r rope.Rope, pos ByteOffset) ByteOffset {
	lo := pos - maxClusterScan
	if line, err := r.LineIndexAt(pos - 1); err == nil {
		if start, err := r.LineStartOffset(line); err == nil && start > lo {
			lo = start
		}
	}
	lo = alignToRuneStart(r, max(lo, 0), pos)

	window, err := r.Substring(lo, pos)
	if err != nil || window == "" {
		return pos - 1
	}

	start := 0
	g := uniseg.NewGraphemes(window)
	for g.Next() {
		start, _ = g.Positions()
	}
	return lo + ByteOffset(start)
}

// nextClusterEnd returns the end of the grapheme cluster starting at pos.
// pos must be < r.Len().
func nextClusterEnd(r rope.Rope, pos ByteOffset) ByteOffset {
	hi := min(pos+maxClusterScan, r.Len())
	if line, err := r.LineIndexAt(pos); err == nil {
		if end, err := r.LineEndOffset(line); err == nil && end < hi {
			hi = end
		}
	}

	window, err := r.Substring(pos, hi)
	if err != nil || window == "" {
		return pos + 1
	}

	g := uniseg.NewGraphemes(window)
	if !g.Next() {
		return pos + 1
	}
	_, end := g.Positions()
	return pos + ByteOffset(end)
}

// alignToRuneStart moves lo forward past UTF-8 continuation bytes.
func alignToRuneStart(r rope.Rope, lo, limit ByteOffset) ByteOffset {
	for lo < limit {
		b, err := r.ByteAt(lo)
		if err != nil || utf8.RuneStart(b) {
			break
		}
		lo++
	}
	return lo
}
