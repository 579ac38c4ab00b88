// Package history provides snapshot-based linear undo/redo over a scene
// collection. Every snapshot is a full deep copy, so undo followed by redo
// always restores a structurally identical collection.
package history

import "github.com/chazu/floorplan/pkg/scene"

// Stack owns the live collection and the undo/redo snapshot stacks.
// It is not safe for concurrent use; its owner is the single writer.
type Stack struct {
	current scene.Collection
	undo    []scene.Collection
	redo    []scene.Collection
	limit   int
}

// New returns an empty Stack. limit caps the number of undo snapshots kept;
// zero means unlimited.
func New(limit int) *Stack {
	if limit < 0 {
		limit = 0
	}
	return &Stack{current: scene.Collection{}, limit: limit}
}

// Current returns a copy of the live collection.
func (s *Stack) Current() scene.Collection {
	return s.current.Clone()
}

// Len returns the number of objects in the live collection.
func (s *Stack) Len() int {
	return len(s.current)
}

// Commit records the live collection as an undo step, makes next the live
// collection and discards the redo stack.
func (s *Stack) Commit(next scene.Collection) {
	s.undo = append(s.undo, s.current)
	if s.limit > 0 && len(s.undo) > s.limit {
		s.undo = append([]scene.Collection(nil), s.undo[len(s.undo)-s.limit:]...)
	}
	s.current = next.Clone()
	s.redo = nil
}

// Amend replaces the live collection without recording an undo step. Use it
// to fold further changes into the step the last Commit recorded.
func (s *Stack) Amend(next scene.Collection) {
	s.current = next.Clone()
}

// Undo restores the most recent snapshot. It reports false and does nothing
// when there is nothing to undo.
func (s *Stack) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, s.current)
	s.current = prev
	return true
}

// Redo re-applies the most recently undone snapshot. It reports false and
// does nothing when there is nothing to redo.
func (s *Stack) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, s.current)
	s.current = next
	return true
}

func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (s *Stack) Depth() (undo, redo int) {
	return len(s.undo), len(s.redo)
}
