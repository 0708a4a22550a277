package enhance

import "errors"

// ErrNothingToUndo is returned when the undo stack is empty. The live state
// is left unchanged.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrNothingToRedo is returned when the redo stack is empty.
var ErrNothingToRedo = errors.New("nothing to redo")

// History is a two-stack undo/redo store of State snapshots. Every mutating
// user action pushes the pre-change state; a fresh mutation after an undo
// clears the redo stack, so a divergent edit cannot be redone into.
type History struct {
	undo []*State
	redo []*State
}

// Push records a pre-mutation snapshot and invalidates any redoable states.
func (h *History) Push(snapshot *State) {
	h.undo = append(h.undo, snapshot.Clone())
	h.redo = h.redo[:0]
}

// Undo exchanges the live state for the most recent snapshot. The live state
// moves to the redo stack.
func (h *History) Undo(live *State) (*State, error) {
	if len(h.undo) == 0 {
		return live, ErrNothingToUndo
	}

	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, live.Clone())

	return prev, nil
}

// Redo reverses the most recent Undo.
func (h *History) Redo(live *State) (*State, error) {
	if len(h.redo) == 0 {
		return live, ErrNothingToRedo
	}

	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, live.Clone())

	return next, nil
}

// Len returns the undo depth.
func (h *History) Len() int {
	return len(h.undo)
}

// Clear drops both stacks. Called on carousel navigation; undo never crosses
// items.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
