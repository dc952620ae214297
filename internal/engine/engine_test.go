package engine

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/dshills/ropecore/internal/engine/cursor"
	"github.com/dshills/ropecore/internal/engine/rope"
	"github.com/dshills/ropecore/internal/logging"
)

// fakeClock is a manually advanced clock for coalescing tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine(content string, opts ...Option) (*Engine, *fakeClock) {
	clock := newFakeClock()
	opts = append([]Option{WithContent(content), WithClock(clock.Now)}, opts...)
	return New(opts...), clock
}

func expectText(t *testing.T, e *Engine, want string) {
	t.Helper()
	if got := e.Text(); got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
}

func expectSelection(t *testing.T, e *Engine, want Selection) {
	t.Helper()
	if got := e.Selection(); got != want {
		t.Fatalf("Selection() = %v, want %v", got, want)
	}
}

// ============================================================================
// Construction
// ============================================================================

func TestNew(t *testing.T) {
	e := New()
	if e.Len() != 0 || e.Text() != "" {
		t.Errorf("expected empty engine, got %q", e.Text())
	}
	if e.LineCount() != 0 {
		t.Errorf("LineCount() = %d, want 0", e.LineCount())
	}
	expectSelection(t, e, cursor.Collapsed(0))
	if e.CanUndo() || e.CanRedo() {
		t.Error("new engine should have no history")
	}
}

func TestNewFromReader(t *testing.T) {
	content := strings.Repeat("line of text\n", 200)
	e, err := NewFromReader(strings.NewReader(content), WithReadOnly())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectText(t, e, content)
	if !e.ReadOnly() {
		t.Error("options should still apply")
	}
	if e.LineCount() != 201 {
		t.Errorf("LineCount() = %d, want 201", e.LineCount())
	}
}

func TestSessionID(t *testing.T) {
	a, b := New(), New()
	if _, err := uuid.Parse(a.SessionID()); err != nil {
		t.Errorf("SessionID() is not a UUID: %v", err)
	}
	if a.SessionID() == b.SessionID() {
		t.Error("session IDs should be unique")
	}
}

// ============================================================================
// Edit Operations
// ============================================================================

func TestHelloWorldScenario(t *testing.T) {
	e, _ := newTestEngine("Hello")

	e.SetSelection(cursor.Collapsed(5))
	e.InsertText(" World")
	expectText(t, e, "Hello World")
	expectSelection(t, e, cursor.Collapsed(11))

	e.SetSelection(cursor.NewSelection(0, 6))
	e.DeleteSelection()
	expectText(t, e, "World")
	expectSelection(t, e, cursor.Collapsed(0))

	if !e.Undo() {
		t.Fatal("Undo() returned false")
	}
	expectText(t, e, "Hello World")
	expectSelection(t, e, cursor.NewSelection(0, 6))
	if e.Selection().Extent != 6 {
		t.Errorf("cursor = %d, want 6", e.Selection().Extent)
	}
	if !e.CanRedo() {
		t.Error("CanRedo() should be true after undo")
	}
}

func TestInsertTextAtBase(t *testing.T) {
	e, _ := newTestEngine("abcdef")

	e.SetSelection(cursor.NewSelection(2, 4))
	e.InsertText("X")
	expectText(t, e, "abXcdef")
	expectSelection(t, e, cursor.Collapsed(3))
}

func TestInsertTextEmptyIgnored(t *testing.T) {
	e, _ := newTestEngine("abc")
	calls := 0
	e.OnChange(func(*Change) { calls++ })

	e.InsertText("")
	if calls != 0 || e.CanUndo() || e.Revision() != 0 {
		t.Error("empty insert should be a no-op")
	}
}

func TestDeleteBackward(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cursor  ByteOffset
		want    string
		wantPos ByteOffset
	}{
		{"ascii", "hello", 5, "hell", 4},
		{"middle", "hello", 2, "hllo", 1},
		{"multibyte", "añb", 3, "ab", 1},
		{"combining mark", "e\u0301x", 3, "x", 0},
		{"flag", "a🇺🇸", 9, "a", 1},
		{"crlf", "a\r\nb", 3, "ab", 1},
		{"newline", "a\nb", 2, "ab", 1},
		{"start of document", "abc", 0, "abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(tt.content)
			e.SetSelection(cursor.Collapsed(tt.cursor))
			e.DeleteBackward()
			expectText(t, e, tt.want)
			expectSelection(t, e, cursor.Collapsed(tt.wantPos))
		})
	}
}

func TestDeleteForward(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cursor  ByteOffset
		want    string
	}{
		{"ascii", "hello", 0, "ello"},
		{"multibyte", "añb", 1, "ab"},
		{"combining mark", "e\u0301x", 0, "x"},
		{"flag", "🇺🇸b", 0, "b"},
		{"crlf", "a\r\nb", 1, "ab"},
		{"end of document", "abc", 3, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(tt.content)
			e.SetSelection(cursor.Collapsed(tt.cursor))
			e.DeleteForward()
			expectText(t, e, tt.want)
			expectSelection(t, e, cursor.Collapsed(tt.cursor))
		})
	}
}

func TestDeleteAtBoundaryIsSilent(t *testing.T) {
	e, _ := newTestEngine("abc")
	calls := 0
	e.OnChange(func(*Change) { calls++ })

	e.DeleteBackward()
	e.SetSelection(cursor.Collapsed(3))
	calls = 0
	e.DeleteForward()

	if calls != 0 {
		t.Errorf("boundary deletes notified %d times", calls)
	}
	if e.CanUndo() {
		t.Error("boundary deletes should not record history")
	}
}

func TestDeleteWithSelectionDegrades(t *testing.T) {
	for _, del := range []func(*Engine){(*Engine).DeleteBackward, (*Engine).DeleteForward} {
		e, _ := newTestEngine("hello world")
		e.SetSelection(cursor.NewSelection(11, 5))
		del(e)
		expectText(t, e, "hello")
		expectSelection(t, e, cursor.Collapsed(5))
	}
}

func TestDeleteSelectionCollapsedIsNoop(t *testing.T) {
	e, _ := newTestEngine("abc")
	e.SetSelection(cursor.Collapsed(1))
	e.DeleteSelection()
	expectText(t, e, "abc")
	if e.CanUndo() {
		t.Error("no-op delete should not record history")
	}
}

func TestReplaceSelection(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		text string
		want string
		pos  ByteOffset
	}{
		{"forward", cursor.NewSelection(6, 11), "Go", "hello Go", 8},
		{"backward", cursor.NewSelection(11, 6), "Go", "hello Go", 8},
		{"collapsed", cursor.Collapsed(5), ",", "hello, world", 6},
		{"delete", cursor.NewSelection(5, 11), "", "hello", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine("hello world")
			e.SetSelection(tt.sel)
			e.ReplaceSelection(tt.text)
			expectText(t, e, tt.want)
			expectSelection(t, e, cursor.Collapsed(tt.pos))
		})
	}
}

func TestSetRope(t *testing.T) {
	e, _ := newTestEngine("hello world")
	e.InsertText("x")
	undo := e.UndoCount()

	var got []*Change
	e.OnChange(func(c *Change) { got = append(got, c) })

	e.SetSelection(cursor.Collapsed(10))
	e.SetRope(rope.FromString("abc"))

	expectText(t, e, "abc")
	expectSelection(t, e, cursor.Collapsed(3))
	if e.UndoCount() != undo {
		t.Error("SetRope should not record history")
	}
	if len(got) != 2 || got[0] != nil || got[1] != nil {
		t.Errorf("expected two nil changes, got %v", got)
	}
}

func TestSetSelectionClamps(t *testing.T) {
	e, _ := newTestEngine("abc")
	e.SetSelection(cursor.NewSelection(-3, 100))
	expectSelection(t, e, cursor.NewSelection(0, 3))
}

// ============================================================================
// Undo/Redo
// ============================================================================

func TestCoalescedTyping(t *testing.T) {
	e, clock := newTestEngine("")

	for _, ch := range []string{"a", "b", "c"} {
		e.InsertText(ch)
		clock.Advance(100 * time.Millisecond)
	}
	if e.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", e.UndoCount())
	}

	clock.Advance(time.Second)
	e.InsertText("d")
	if e.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want 2", e.UndoCount())
	}

	e.Undo()
	expectText(t, e, "abc")
	e.Undo()
	expectText(t, e, "")
	if e.Undo() {
		t.Error("Undo() on empty stack should return false")
	}
}

func TestCoalesceWindowFromFirstEdit(t *testing.T) {
	e, clock := newTestEngine("")

	// Each keystroke is within the window of the previous one, but the
	// burst is measured from the entry that started it.
	for range 8 {
		e.InsertText("x")
		clock.Advance(200 * time.Millisecond)
	}
	if e.UndoCount() != 3 {
		t.Errorf("UndoCount() = %d, want 3", e.UndoCount())
	}
}

func TestCoalescedDeletes(t *testing.T) {
	e, clock := newTestEngine("hello")
	e.SetSelection(cursor.Collapsed(5))

	for range 3 {
		e.DeleteBackward()
		clock.Advance(50 * time.Millisecond)
	}
	expectText(t, e, "he")
	if e.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", e.UndoCount())
	}

	e.Undo()
	expectText(t, e, "hello")
	expectSelection(t, e, cursor.Collapsed(5))
}

func TestEditKindBreaksBurst(t *testing.T) {
	e, _ := newTestEngine("")
	e.InsertText("ab")
	e.DeleteBackward()
	e.InsertText("c")
	if e.UndoCount() != 3 {
		t.Errorf("UndoCount() = %d, want 3", e.UndoCount())
	}
}

func TestDestructiveEditsNeverCoalesce(t *testing.T) {
	e, _ := newTestEngine("one two three")
	e.SetSelection(cursor.NewSelection(0, 4))
	e.DeleteSelection()
	e.SetSelection(cursor.NewSelection(0, 4))
	e.ReplaceSelection("2 ")
	e.InsertText("!")

	if e.UndoCount() != 3 {
		t.Fatalf("UndoCount() = %d, want 3", e.UndoCount())
	}
	expectText(t, e, "2 !three")
	e.Undo()
	expectText(t, e, "2 three")
	e.Undo()
	expectText(t, e, "two three")
	e.Undo()
	expectText(t, e, "one two three")
}

func TestRedo(t *testing.T) {
	e, clock := newTestEngine("")
	e.InsertText("hello")
	clock.Advance(time.Second)
	e.InsertText(" world")

	e.Undo()
	e.Undo()
	expectText(t, e, "")

	if !e.Redo() {
		t.Fatal("Redo() returned false")
	}
	expectText(t, e, "hello")
	expectSelection(t, e, cursor.Collapsed(5))
	e.Redo()
	expectText(t, e, "hello world")
	if e.Redo() {
		t.Error("Redo() on empty stack should return false")
	}
}

func TestRedoInvalidation(t *testing.T) {
	e, _ := newTestEngine("")
	e.InsertText("abc")
	e.Undo()
	if !e.CanRedo() {
		t.Fatal("CanRedo() should be true after undo")
	}

	e.InsertText("x")
	if e.CanRedo() {
		t.Error("a new edit should clear the redo stack")
	}
}

func TestUndoBreaksBurst(t *testing.T) {
	e, _ := newTestEngine("")
	e.InsertText("a")
	e.InsertText("b")
	e.Undo()
	e.InsertText("c")
	e.InsertText("d")
	e.Undo()
	expectText(t, e, "")
}

func TestMaxUndoEntries(t *testing.T) {
	e, _ := newTestEngine("", WithMaxUndoEntries(2), WithCoalesceWindow(0))
	e.InsertText("a")
	e.InsertText("b")
	e.InsertText("c")

	if e.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want 2", e.UndoCount())
	}
	e.Undo()
	e.Undo()
	expectText(t, e, "a")
}

func TestUndoSuppressesRecordingInListener(t *testing.T) {
	e, _ := newTestEngine("")
	e.InsertText("a")

	fired := false
	e.OnChange(func(c *Change) {
		if c == nil && !fired {
			fired = true
			e.InsertText("b")
		}
	})

	e.Undo()
	expectText(t, e, "b")
	if e.UndoCount() != 0 {
		t.Errorf("edit made while restoring was recorded: UndoCount() = %d", e.UndoCount())
	}

	e.OnChange(nil)
	e.InsertText("c")
	if e.UndoCount() != 1 {
		t.Errorf("recording should resume after restore: UndoCount() = %d", e.UndoCount())
	}
}

func TestNestedUndoInListenerSuppressesRecording(t *testing.T) {
	e, _ := newTestEngine("", WithCoalesceWindow(0))
	e.InsertText("a")
	e.InsertText("b")
	e.InsertText("c")

	fired := false
	e.OnChange(func(c *Change) {
		if c != nil || fired {
			return
		}
		fired = true
		e.Undo()
		e.InsertText("X")
	})

	e.Undo()
	expectText(t, e, "aX")
	if e.UndoCount() != 1 || e.RedoCount() != 2 {
		t.Errorf("UndoCount() = %d, RedoCount() = %d, want 1 and 2", e.UndoCount(), e.RedoCount())
	}

	e.OnChange(nil)
	e.InsertText("d")
	if e.UndoCount() != 2 || e.RedoCount() != 0 {
		t.Errorf("recording should resume after restore: UndoCount() = %d, RedoCount() = %d", e.UndoCount(), e.RedoCount())
	}
}

func TestClearHistory(t *testing.T) {
	e, _ := newTestEngine("")
	e.InsertText("a")
	e.ClearHistory()
	if e.CanUndo() {
		t.Error("ClearHistory() should empty the undo stack")
	}
}

// ============================================================================
// Read-Only Mode
// ============================================================================

func TestReadOnly(t *testing.T) {
	e, _ := newTestEngine("content", WithReadOnly())
	e.SetSelection(cursor.NewSelection(0, 3))

	e.InsertText("x")
	e.DeleteBackward()
	e.DeleteForward()
	e.DeleteSelection()
	e.ReplaceSelection("y")
	expectText(t, e, "content")
	if e.CanUndo() {
		t.Error("read-only edits should not record history")
	}

	e.SetRope(rope.FromString("reloaded"))
	expectText(t, e, "reloaded")

	e.SetReadOnly(false)
	e.SetSelection(cursor.Collapsed(0))
	e.InsertText(">")
	expectText(t, e, ">reloaded")

	e.SetReadOnly(true)
	if e.Undo() {
		t.Error("Undo() should be refused while read-only")
	}
	expectText(t, e, ">reloaded")
}

// ============================================================================
// Change Notification
// ============================================================================

func TestChangeEvents(t *testing.T) {
	e, _ := newTestEngine("")
	var got []*Change
	e.OnChange(func(c *Change) { got = append(got, c) })

	e.InsertText("abc")
	e.DeleteBackward()
	e.SetSelection(cursor.NewSelection(0, 1))
	e.ReplaceSelection("XY")
	e.Undo()

	want := []*Change{
		{Start: 0, End: 0, Inserted: "abc", Revision: 1},
		{Start: 2, End: 3, Deleted: "c", Revision: 2},
		nil,
		{Start: 0, End: 1, Inserted: "XY", Deleted: "a", Revision: 3},
		nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("change events mismatch (-want +got):\n%s", diff)
	}
}

func TestChangesReplayOntoMirror(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e, clock := newTestEngine("seed text\nwith two lines")
	mirror := e.Rope()

	e.OnChange(func(c *Change) {
		if c == nil {
			mirror = e.Rope()
			return
		}
		next, err := c.Apply(mirror)
		if err != nil {
			t.Fatalf("Apply(%v): %v", c, err)
		}
		mirror = next
	})

	words := []string{"a", "e\u0301", "🇺🇸", "\n", "word ", "\r\n"}
	for i := range 500 {
		n := int(e.Len()) + 1
		switch rng.Intn(7) {
		case 0, 1:
			e.SetSelection(cursor.Collapsed(ByteOffset(rng.Intn(n))))
			e.InsertText(words[rng.Intn(len(words))])
		case 2:
			e.DeleteBackward()
		case 3:
			e.DeleteForward()
		case 4:
			a, b := ByteOffset(rng.Intn(n)), ByteOffset(rng.Intn(n))
			e.SetSelection(cursor.NewSelection(a, b))
			e.ReplaceSelection(words[rng.Intn(len(words))])
		case 5:
			e.Undo()
		case 6:
			e.Redo()
		}
		clock.Advance(time.Duration(rng.Intn(400)) * time.Millisecond)

		if mirror.String() != e.Text() {
			t.Fatalf("step %d: mirror %q != engine %q", i, mirror.String(), e.Text())
		}
	}
}

func TestListenerMayReadEngine(t *testing.T) {
	e, _ := newTestEngine("")
	var seen string
	e.OnChange(func(*Change) { seen = e.Text() })

	e.InsertText("hi")
	if seen != "hi" {
		t.Errorf("listener saw %q, want %q", seen, "hi")
	}
}

func TestRevision(t *testing.T) {
	e, _ := newTestEngine("")
	e.InsertText("a")
	e.SetSelection(cursor.Collapsed(0))
	e.Undo()
	if e.Revision() != 2 {
		t.Errorf("Revision() = %d, want 2", e.Revision())
	}
}

// ============================================================================
// Search
// ============================================================================

func TestSearch(t *testing.T) {
	e, _ := newTestEngine("one two one two one")
	e.SetSelection(cursor.Collapsed(5))

	if n := e.Search("one", true); n != 3 {
		t.Fatalf("Search() = %d, want 3", n)
	}
	expectSelection(t, e, cursor.NewSelection(8, 11))

	steps := []struct {
		next bool
		want Selection
	}{
		{true, cursor.NewSelection(16, 19)},
		{true, cursor.NewSelection(0, 3)},
		{false, cursor.NewSelection(16, 19)},
		{false, cursor.NewSelection(8, 11)},
	}
	for i, s := range steps {
		if s.next {
			e.FindNext()
		} else {
			e.FindPrev()
		}
		if got := e.Selection(); got != s.want {
			t.Errorf("step %d: Selection() = %v, want %v", i, got, s.want)
		}
	}

	m, idx, ok := e.CurrentMatch()
	if !ok || idx != 1 || m != (Match{Start: 8, End: 11}) {
		t.Errorf("CurrentMatch() = %v, %d, %v", m, idx, ok)
	}
	if q, cs := e.SearchQuery(); q != "one" || !cs {
		t.Errorf("SearchQuery() = %q, %v", q, cs)
	}
}

func TestSearchWrapsToFirst(t *testing.T) {
	e, _ := newTestEngine("foo bar foo bar")
	e.SetSelection(cursor.Collapsed(12))

	e.Search("FOO", false)
	expectSelection(t, e, cursor.NewSelection(0, 3))
	if diff := cmp.Diff([]Match{{Start: 0, End: 3}, {Start: 8, End: 11}}, e.Matches()); diff != "" {
		t.Errorf("Matches() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchNoMatches(t *testing.T) {
	e, _ := newTestEngine("abc")
	calls := 0
	e.OnChange(func(*Change) { calls++ })

	if n := e.Search("zzz", true); n != 0 {
		t.Errorf("Search() = %d, want 0", n)
	}
	if e.FindNext() || e.FindPrev() {
		t.Error("FindNext/FindPrev should fail without matches")
	}
	if calls != 0 {
		t.Error("a search without matches should not notify")
	}
	expectSelection(t, e, cursor.Collapsed(0))
}

func TestEditClearsSearch(t *testing.T) {
	e, _ := newTestEngine("abc abc")
	e.Search("abc", true)
	e.SetSelection(cursor.Collapsed(7))
	e.InsertText("!")

	if len(e.Matches()) != 0 {
		t.Error("edits should discard stale matches")
	}
	if _, _, ok := e.CurrentMatch(); ok {
		t.Error("CurrentMatch() should be empty after an edit")
	}
}

func TestClearSearch(t *testing.T) {
	e, _ := newTestEngine("abc abc")
	e.Search("abc", true)
	sel := e.Selection()

	e.ClearSearch()
	if len(e.Matches()) != 0 {
		t.Error("ClearSearch() should discard matches")
	}
	expectSelection(t, e, sel)
	expectText(t, e, "abc abc")
}

// ============================================================================
// Logging and Concurrency
// ============================================================================

func TestLoggerReceivesUndo(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	e, _ := newTestEngine("", WithLogger(log))

	e.InsertText("a")
	e.Undo()

	out := buf.String()
	if !strings.Contains(out, "undo to 0 bytes") || !strings.Contains(out, "component=engine") {
		t.Errorf("unexpected log output: %q", out)
	}
	if !strings.Contains(out, "session="+e.SessionID()) {
		t.Error("log lines should carry the session ID")
	}
}

func TestErrorsReexported(t *testing.T) {
	_, err := rope.FromString("abc").Insert(10, "x")
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestConcurrentSnapshots(t *testing.T) {
	e, _ := newTestEngine(strings.Repeat("x", 4096))

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				r := e.Rope()
				if int(r.Len()) != len(r.String()) || r.Len() < 4096 {
					t.Error("snapshot changed under reader")
					return
				}
				_ = e.Selection()
			}
		}()
	}

	for range 200 {
		e.InsertText("y")
	}
	wg.Wait()
}
