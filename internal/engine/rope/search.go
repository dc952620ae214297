package rope

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Match is a search hit covering [Start, End) in the searched rope.
type Match struct {
	Start ByteOffset
	End   ByteOffset
}

// Len returns the byte length of the match.
func (m Match) Len() ByteOffset {
	return m.End - m.Start
}

// Find returns the first match of query starting at or after from.
// Search is a linear scan over the materialized text; it is meant for
// explicit user searches, not per-keystroke work.
func (r Rope) Find(query string, from ByteOffset, caseSensitive bool) (Match, bool, error) {
	if err := checkOffset(from, r.Len()); err != nil {
		return Match{}, false, err
	}
	if query == "" {
		return Match{}, false, nil
	}
	text, _ := r.Substring(from, r.Len())
	m, ok := newMatcher(query, caseSensitive).next(text, 0)
	if !ok {
		return Match{}, false, nil
	}
	return Match{Start: m.Start + from, End: m.End + from}, true, nil
}

// FindAll returns every non-overlapping match of query in document order.
func (r Rope) FindAll(query string, caseSensitive bool) []Match {
	if query == "" || r.IsEmpty() {
		return nil
	}
	text := r.String()
	mt := newMatcher(query, caseSensitive)

	var matches []Match
	var pos ByteOffset
	for {
		m, ok := mt.next(text, pos)
		if !ok {
			return matches
		}
		matches = append(matches, m)
		pos = m.End
	}
}

// matcher finds query occurrences, optionally under Unicode case folding.
type matcher struct {
	query string
	fold  bool
	// folded is the case-folded copy of the last text searched, with
	// offsets[i] giving the original offset of folded byte i.
	text    string
	folded  string
	offsets []ByteOffset
}

func newMatcher(query string, caseSensitive bool) *matcher {
	if caseSensitive {
		return &matcher{query: query}
	}
	q, _ := foldText(query)
	return &matcher{query: q, fold: true}
}

// next returns the first match in text at or after original offset pos.
func (m *matcher) next(text string, pos ByteOffset) (Match, bool) {
	if !m.fold {
		i := strings.Index(text[pos:], m.query)
		if i < 0 {
			return Match{}, false
		}
		start := pos + ByteOffset(i)
		return Match{Start: start, End: start + ByteOffset(len(m.query))}, true
	}

	if m.offsets == nil || m.text != text {
		m.text = text
		m.folded, m.offsets = foldText(text)
	}
	fpos := firstFoldedAt(m.offsets, pos)
	i := strings.Index(m.folded[fpos:], m.query)
	if i < 0 {
		return Match{}, false
	}
	fs := fpos + i
	fe := fs + len(m.query)
	start, end := m.offsets[fs], m.offsets[fe]
	// A match ending inside a rune's folded expansion covers the whole rune.
	for end <= start && fe < len(m.offsets)-1 {
		fe++
		end = m.offsets[fe]
	}
	return Match{Start: start, End: end}, true
}

// firstFoldedAt returns the first folded index whose original offset is at
// least pos.
func firstFoldedAt(offsets []ByteOffset, pos ByteOffset) int {
	lo, hi := 0, len(offsets)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if offsets[mid] < pos {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// foldText case-folds s rune by rune. offsets has one entry per folded byte
// plus a final entry equal to len(s); a folded byte produced by an expansion
// maps to the start of its original rune, and the end of an expansion maps
// to the end of that rune.
func foldText(s string) (string, []ByteOffset) {
	caser := cases.Fold()
	var sb strings.Builder
	sb.Grow(len(s))
	offsets := make([]ByteOffset, 0, len(s)+1)

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		var f string
		switch {
		case r < utf8.RuneSelf:
			b := byte(r)
			if 'A' <= b && b <= 'Z' {
				b += 'a' - 'A'
			}
			f = string(rune(b))
		case r == utf8.RuneError && size == 1:
			f = s[i : i+1]
		default:
			f = caser.String(s[i : i+size])
		}
		sb.WriteString(f)
		for range len(f) {
			offsets = append(offsets, ByteOffset(i))
		}
		i += size
	}
	offsets = append(offsets, ByteOffset(len(s)))
	return sb.String(), offsets
}
