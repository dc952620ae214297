package script

import (
	"fmt"
	"time"

	"github.com/dshills/ropecore/internal/engine"
	"github.com/dshills/ropecore/internal/engine/cursor"
)

// Result summarizes a script run.
type Result struct {
	Steps    int
	Edits    int
	Searches int
	Waited   time.Duration
}

// Run applies the steps of s to e in order and stops at the first error.
// Waits advance clock; with a nil clock they sleep.
func Run(e *engine.Engine, s Script, clock *Clock) (Result, error) {
	var res Result
	for i, step := range s.Steps {
		if err := apply(e, step, clock, &res); err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		res.Steps++
	}
	return res, nil
}

func apply(e *engine.Engine, step Step, clock *Clock, res *Result) error {
	if err := step.validate(); err != nil {
		return err
	}
	if step.edits() {
		if e.ReadOnly() {
			return engine.ErrReadOnly
		}
		res.Edits++
	}

	switch step.Op {
	case OpInsert:
		e.InsertText(*step.Text)
	case OpBackspace:
		e.DeleteBackward()
	case OpDelete:
		e.DeleteForward()
	case OpDeleteSelection:
		e.DeleteSelection()
	case OpReplace:
		e.ReplaceSelection(*step.Text)
	case OpUndo:
		e.Undo()
	case OpRedo:
		e.Redo()
	case OpSelect:
		e.SetSelection(selection(step))
	case OpSearch:
		e.Search(step.Query, step.CaseSensitive)
		res.Searches++
	case OpNext:
		e.FindNext()
	case OpPrev:
		e.FindPrev()
	case OpClearSearch:
		e.ClearSearch()
	case OpWait:
		if clock != nil {
			clock.Advance(step.Wait)
		} else {
			time.Sleep(step.Wait)
		}
		res.Waited += step.Wait
	case OpExpect:
		return expect(e, step)
	}
	return nil
}

func selection(step Step) cursor.Selection {
	base := engine.ByteOffset(*step.Base)
	if step.Extent == nil {
		return cursor.Collapsed(base)
	}
	return cursor.NewSelection(base, engine.ByteOffset(*step.Extent))
}

func expect(e *engine.Engine, step Step) error {
	if step.Text != nil {
		if got := e.Text(); got != *step.Text {
			return fmt.Errorf("%w: text is %q, want %q", ErrExpectation, got, *step.Text)
		}
	}
	if step.Base != nil {
		if got, want := e.Selection(), selection(step); got != want {
			return fmt.Errorf("%w: selection is %v, want %v", ErrExpectation, got, want)
		}
	}
	return nil
}
