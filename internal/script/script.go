// Package script replays YAML edit scripts against an engine.
//
// A script is a list of steps:
//
//	steps:
//	  - op: select
//	    base: 5
//	  - op: insert
//	    text: " World"
//	  - op: wait
//	    wait: 600ms
//	  - op: expect
//	    text: "Hello World"
//
// Waits advance a Clock instead of sleeping, so coalescing behaves the
// same on every run when the engine is built with WithClock(clock.Now).
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Op names.
const (
	OpInsert          = "insert"
	OpBackspace       = "backspace"
	OpDelete          = "delete"
	OpDeleteSelection = "deleteSelection"
	OpReplace         = "replace"
	OpSelect          = "select"
	OpUndo            = "undo"
	OpRedo            = "redo"
	OpSearch          = "search"
	OpNext            = "next"
	OpPrev            = "prev"
	OpClearSearch     = "clearSearch"
	OpWait            = "wait"
	OpExpect          = "expect"
)

// Errors returned while parsing or running scripts.
var (
	ErrInvalidStep = errors.New("invalid step")
	ErrExpectation = errors.New("expectation failed")
)

// Script is a parsed edit script.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one scripted operation. Which fields apply depends on Op.
type Step struct {
	Op            string        `yaml:"op"`
	Text          *string       `yaml:"text,omitempty"`
	Base          *int          `yaml:"base,omitempty"`
	Extent        *int          `yaml:"extent,omitempty"`
	Query         string        `yaml:"query,omitempty"`
	CaseSensitive bool          `yaml:"case_sensitive,omitempty"`
	Wait          time.Duration `yaml:"wait,omitempty"`
}

// Parse decodes and validates a script.
func Parse(data []byte) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, fmt.Errorf("parsing script: %w", err)
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return Script{}, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return s, nil
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s Step) validate() error {
	switch s.Op {
	case OpInsert, OpReplace:
		if s.Text == nil {
			return fmt.Errorf("%w: %s needs text", ErrInvalidStep, s.Op)
		}
	case OpSelect:
		if s.Base == nil {
			return fmt.Errorf("%w: select needs base", ErrInvalidStep)
		}
	case OpSearch:
		if s.Query == "" {
			return fmt.Errorf("%w: search needs query", ErrInvalidStep)
		}
	case OpWait:
		if s.Wait <= 0 {
			return fmt.Errorf("%w: wait needs a positive duration", ErrInvalidStep)
		}
	case OpExpect:
		if s.Text == nil && s.Base == nil {
			return fmt.Errorf("%w: expect needs text or base", ErrInvalidStep)
		}
	case OpBackspace, OpDelete, OpDeleteSelection, OpUndo, OpRedo, OpNext, OpPrev, OpClearSearch:
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidStep, s.Op)
	}
	return nil
}

// edits reports whether the op modifies the document.
func (s Step) edits() bool {
	switch s.Op {
	case OpInsert, OpBackspace, OpDelete, OpDeleteSelection, OpReplace, OpUndo, OpRedo:
		return true
	}
	return false
}
