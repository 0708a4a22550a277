package enhance

import (
	"errors"
	"fmt"

	"github.com/echocapsule/mediakit/internal/media"
)

// Session orchestrates a carousel of media items: one focused index, one live
// Editor, and a stored State per item. States are keyed by the handle's
// stable ID, so inserting or removing items never misattributes an edit to a
// neighbouring item.
type Session struct {
	items  []media.Handle
	states map[string]*State
	index  int
	editor *Editor
}

// NewSession builds a session over an ordered, non-empty list of handles.
// Every handle must carry a unique ID.
func NewSession(items []media.Handle) (*Session, error) {
	if len(items) == 0 {
		return nil, errors.New("session requires at least one media item")
	}

	seen := make(map[string]bool, len(items))
	for _, h := range items {
		if h.ID == "" {
			return nil, fmt.Errorf("media handle %q has no ID", h.Filename)
		}
		if seen[h.ID] {
			return nil, fmt.Errorf("duplicate media handle ID %q", h.ID)
		}
		seen[h.ID] = true
	}

	return &Session{
		items:  items,
		states: make(map[string]*State),
		editor: NewEditor(nil),
	}, nil
}

// Items returns the carousel contents in order.
func (s *Session) Items() []media.Handle {
	return s.items
}

// Len returns the number of items.
func (s *Session) Len() int {
	return len(s.items)
}

// Index returns the focused position.
func (s *Session) Index() int {
	return s.index
}

// Current returns the focused handle.
func (s *Session) Current() media.Handle {
	return s.items[s.index]
}

// Editor returns the live editor for the focused item.
func (s *Session) Editor() *Editor {
	return s.editor
}

// Next moves focus forward. At the last item it is a no-op.
func (s *Session) Next() {
	if s.index >= len(s.items)-1 {
		return
	}
	s.moveTo(s.index + 1)
}

// Previous moves focus backward. At the first item it is a no-op.
func (s *Session) Previous() {
	if s.index <= 0 {
		return
	}
	s.moveTo(s.index - 1)
}

// moveTo persists the outgoing item's live state, drops the history (undo
// never crosses items) and restores the incoming item's stored state or the
// baseline.
func (s *Session) moveTo(idx int) {
	s.states[s.Current().ID] = s.editor.State()
	s.index = idx
	s.editor = NewEditor(s.restoredState(s.Current().ID))
}

func (s *Session) restoredState(id string) *State {
	if st, ok := s.states[id]; ok {
		return st
	}
	return nil
}

// StateFor returns the effective state for an item: the live editor state for
// the focused item, the stored state for any other, or the baseline.
func (s *Session) StateFor(id string) *State {
	if s.Current().ID == id {
		return s.editor.State()
	}
	if st, ok := s.states[id]; ok {
		return st
	}
	return NewState()
}

// Remove deletes an item from the carousel by ID. Stored states stay keyed by
// the surviving IDs. Removing the focused item moves focus to the previous
// position; removing the only item is rejected.
func (s *Session) Remove(id string) error {
	if len(s.items) == 1 {
		return errors.New("cannot remove the only item in a session")
	}

	pos := -1
	for i, h := range s.items {
		if h.ID == id {
			pos = i
			break
		}
	}
	if pos == -1 {
		return fmt.Errorf("no media item %q in session", id)
	}

	if pos == s.index {
		// Persist nothing: the focused item is going away with its edits.
		delete(s.states, id)
		s.items = append(s.items[:pos], s.items[pos+1:]...)
		if s.index >= len(s.items) {
			s.index = len(s.items) - 1
		}
		s.editor = NewEditor(s.restoredState(s.Current().ID))
		return nil
	}

	if pos < s.index {
		s.index--
	}
	delete(s.states, id)
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	return nil
}
