package history

import (
	"testing"

	"floor-sketch/internal/element"
)

func circles(xs ...float64) []element.Element {
	out := make([]element.Element, len(xs))
	for i, x := range xs {
		out[i] = element.NewCircle(x, 0, 5, 1)
	}
	return out
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := New(10)

	v1 := circles(1)
	v2 := circles(1, 2)

	s.Push(v1) // about to change v1 -> v2

	got, ok := s.Undo(v2)
	if !ok || len(got) != 1 {
		t.Fatalf("undo = %d elements, ok %v", len(got), ok)
	}
	if !s.CanRedo() {
		t.Fatal("expected a redo branch")
	}

	got, ok = s.Redo(got)
	if !ok || len(got) != 2 {
		t.Fatalf("redo = %d elements, ok %v", len(got), ok)
	}
}

func TestPushInvalidatesRedo(t *testing.T) {
	s := New(10)
	s.Push(circles(1))
	if _, ok := s.Undo(circles(1, 2)); !ok {
		t.Fatal("undo failed")
	}
	s.Push(circles(3))
	if s.CanRedo() {
		t.Error("push must clear the redo branch")
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := New(10)
	v1 := circles(1)
	s.Push(v1)
	v1[0].X = 99 // mutate after pushing

	got, _ := s.Undo(circles(2))
	if got[0].X != 1 {
		t.Errorf("snapshot x = %v, want the value at push time", got[0].X)
	}
}

func TestLimitDropsOldest(t *testing.T) {
	s := New(2)
	s.Push(circles(1))
	s.Push(circles(2))
	s.Push(circles(3))

	cur := circles(4)
	var xs []float64
	for {
		got, ok := s.Undo(cur)
		if !ok {
			break
		}
		xs = append(xs, got[0].X)
		cur = got
	}
	if len(xs) != 2 || xs[0] != 3 || xs[1] != 2 {
		t.Errorf("undo chain = %v, want [3 2]", xs)
	}
}

func TestEmptyStack(t *testing.T) {
	s := New(0)
	if _, ok := s.Undo(nil); ok {
		t.Error("undo on empty stack")
	}
	if _, ok := s.Redo(nil); ok {
		t.Error("redo on empty stack")
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("empty stack reports availability")
	}
}
