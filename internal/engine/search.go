package engine

import "github.com/dshills/ropecore/internal/engine/cursor"

// searchState holds the result of the last Search. Any document change
// discards it, since offsets of stale matches would be wrong.
type searchState struct {
	query         string
	caseSensitive bool
	matches       []Match
	current       int
}

func (s *searchState) reset() {
	*s = searchState{current: -1}
}

// Search finds all non-overlapping occurrences of query and selects the
// first one at or after the selection start, wrapping to the first match
// in the document. It returns the number of matches. An empty query
// clears the search.
func (e *Engine) Search(query string, caseSensitive bool) int {
	var n int
	e.update(func() (*Change, bool) {
		e.search.reset()
		if query == "" {
			return nil, false
		}

		e.search.query = query
		e.search.caseSensitive = caseSensitive
		e.search.matches = e.rope.FindAll(query, caseSensitive)
		n = len(e.search.matches)
		if n == 0 {
			return nil, false
		}

		from := e.sel.Start()
		idx := 0
		for i, m := range e.search.matches {
			if m.Start >= from {
				idx = i
				break
			}
		}
		e.selectMatchLocked(idx)
		return nil, true
	})
	return n
}

// FindNext selects the next match, wrapping past the last one.
// Returns false if there are no matches.
func (e *Engine) FindNext() bool {
	return e.step(1)
}

// FindPrev selects the previous match, wrapping before the first one.
// Returns false if there are no matches.
func (e *Engine) FindPrev() bool {
	return e.step(-1)
}

func (e *Engine) step(delta int) bool {
	return e.update(func() (*Change, bool) {
		n := len(e.search.matches)
		if n == 0 {
			return nil, false
		}
		e.selectMatchLocked(((e.search.current+delta)%n + n) % n)
		return nil, true
	})
}

func (e *Engine) selectMatchLocked(idx int) {
	m := e.search.matches[idx]
	e.search.current = idx
	e.sel = cursor.NewSelection(m.Start, m.End)
	e.history.Break()
}

// ClearSearch discards the search results. The document and selection
// are left untouched.
func (e *Engine) ClearSearch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.search.reset()
}

// SearchQuery returns the active query and whether it is case-sensitive.
func (e *Engine) SearchQuery() (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.search.query, e.search.caseSensitive
}

// Matches returns a copy of the current matches.
func (e *Engine) Matches() []Match {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Match(nil), e.search.matches...)
}

// CurrentMatch returns the selected match and its index.
func (e *Engine) CurrentMatch() (Match, int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.search.current < 0 {
		return Match{}, -1, false
	}
	return e.search.matches[e.search.current], e.search.current, true
}
