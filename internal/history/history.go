// Package history keeps bounded undo/redo snapshots of the element list.
// Snapshots are deep copies; callers can keep mutating what they pass in.
package history

import (
	"floor-sketch/internal/element"
)

// DefaultLimit is how many undo steps are retained before the oldest is
// discarded.
const DefaultLimit = 100

// Stack is a linear undo/redo stack. Not safe for concurrent use.
type Stack struct {
	past   [][]element.Element
	future [][]element.Element
	limit  int
}

// New creates a stack retaining at most limit undo steps.
func New(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Push records a pre-change snapshot and invalidates the redo branch.
func (s *Stack) Push(snapshot []element.Element) {
	s.past = append(s.past, element.CloneAll(snapshot))
	if len(s.past) > s.limit {
		s.past = s.past[len(s.past)-s.limit:]
	}
	s.future = nil
}

// Undo exchanges the current state for the most recent snapshot. The current
// state is saved onto the redo branch.
func (s *Stack) Undo(current []element.Element) ([]element.Element, bool) {
	if len(s.past) == 0 {
		return nil, false
	}
	prev := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = append(s.future, element.CloneAll(current))
	return prev, true
}

// Redo exchanges the current state for the most recently undone one.
func (s *Stack) Redo(current []element.Element) ([]element.Element, bool) {
	if len(s.future) == 0 {
		return nil, false
	}
	next := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]
	s.past = append(s.past, element.CloneAll(current))
	return next, true
}

// CanUndo reports whether an undo step is available.
func (s *Stack) CanUndo() bool { return len(s.past) > 0 }

// CanRedo reports whether a redo step is available.
func (s *Stack) CanRedo() bool { return len(s.future) > 0 }

// Clear drops both branches, for project switches.
func (s *Stack) Clear() {
	s.past = nil
	s.future = nil
}
