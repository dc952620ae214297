package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/ropecore/internal/engine/rope"
)

func TestChangeClassification(t *testing.T) {
	tests := []struct {
		name     string
		change   Change
		isInsert bool
		isDelete bool
		newEnd   ByteOffset
		delta    ByteOffset
	}{
		{"insert", Change{Start: 3, End: 3, Inserted: "abc"}, true, false, 6, 3},
		{"delete", Change{Start: 3, End: 7, Deleted: "wxyz"}, false, true, 3, -4},
		{"replace", Change{Start: 0, End: 2, Inserted: "xyz", Deleted: "ab"}, false, false, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.change
			if c.IsInsert() != tt.isInsert || c.IsDelete() != tt.isDelete {
				t.Errorf("IsInsert=%v IsDelete=%v", c.IsInsert(), c.IsDelete())
			}
			if c.NewEnd() != tt.newEnd {
				t.Errorf("NewEnd() = %d, want %d", c.NewEnd(), tt.newEnd)
			}
			if c.Delta() != tt.delta {
				t.Errorf("Delta() = %d, want %d", c.Delta(), tt.delta)
			}
		})
	}
}

func TestChangeApplyInvert(t *testing.T) {
	before := rope.FromString("hello world")
	c := Change{Start: 6, End: 11, Inserted: "gophers", Deleted: "world"}

	after, err := c.Apply(before)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if after.String() != "hello gophers" {
		t.Fatalf("Apply() = %q", after.String())
	}

	inv := c.Invert()
	if diff := cmp.Diff(Change{Start: 6, End: 13, Inserted: "world", Deleted: "gophers"}, inv); diff != "" {
		t.Errorf("Invert() mismatch (-want +got):\n%s", diff)
	}
	restored, err := inv.Apply(after)
	if err != nil {
		t.Fatalf("Apply inverse: %v", err)
	}
	if !restored.Equals(before) {
		t.Errorf("inverse did not restore: %q", restored.String())
	}
}

func TestChangeApplyOutOfRange(t *testing.T) {
	c := Change{Start: 5, End: 9}
	if _, err := c.Apply(rope.FromString("abc")); err == nil {
		t.Error("expected ErrOutOfRange")
	}
}

func TestChangeString(t *testing.T) {
	c := Change{Start: 1, End: 3, Inserted: "x", Deleted: "ab", Revision: 4}
	if got := c.String(); got != "[1,3) -2 +1 @4" {
		t.Errorf("String() = %q", got)
	}
}
