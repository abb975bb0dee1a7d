// Package selection holds the interaction state for the currently loaded
// model: which nodes are selected, hover-highlighted, focused and
// isolated. The four axes are independent; a node can be any combination
// of them at once.
//
// The store has no dispatcher dependency and performs no event I/O. By
// convention only the sync coordinator mutates it; consumer surfaces are
// limited to the read methods.
package selection

import (
	"sort"
	"sync"

	"github.com/meshlens/meshlens/internal/scene"
)

// idSet is a set of node ids.
type idSet map[scene.NodeID]struct{}

// clone returns an independent copy of the set.
func (s idSet) clone() idSet {
	out := make(idSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// sorted returns the set's ids in lexical order.
func (s idSet) sorted() []scene.NodeID {
	if len(s) == 0 {
		return nil
	}
	out := make([]scene.NodeID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Store tracks selection, highlight, focus and isolation state. All
// methods are safe for concurrent use and never fail on valid input.
type Store struct {
	mu          sync.RWMutex
	selected    idSet
	highlighted idSet
	focused     scene.NodeID
	hasFocus    bool
	isolated    idSet
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		selected:    make(idSet),
		highlighted: make(idSet),
		isolated:    make(idSet),
	}
}

// Select adds a node to the selection. In single mode (multi == false) the
// existing selection is replaced; in multi mode the node joins it.
func (s *Store) Select(id scene.NodeID, multi bool) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !multi {
		s.selected = make(idSet)
	}
	s.selected[id] = struct{}{}
}

// Deselect removes a node from the selection.
func (s *Store) Deselect(id scene.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.selected, id)
}

// ClearSelection empties the selection set.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(idSet)
}

// IsSelected reports whether a node is selected.
func (s *Store) IsSelected(id scene.NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.selected[id]
	return ok
}

// SelectedIDs returns the selection set in lexical order.
func (s *Store) SelectedIDs() []scene.NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.selected.sorted()
}

// SelectionCount returns the number of selected nodes.
func (s *Store) SelectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.selected)
}

// Highlight marks a node as hover-highlighted.
func (s *Store) Highlight(id scene.NodeID) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.highlighted[id] = struct{}{}
}

// Dehighlight removes a node's hover highlight.
func (s *Store) Dehighlight(id scene.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.highlighted, id)
}

// ClearHighlights removes every hover highlight.
func (s *Store) ClearHighlights() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.highlighted = make(idSet)
}

// IsHighlighted reports whether a node is hover-highlighted.
func (s *Store) IsHighlighted(id scene.NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.highlighted[id]
	return ok
}

// HighlightedIDs returns the highlighted set in lexical order.
func (s *Store) HighlightedIDs() []scene.NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.highlighted.sorted()
}

// Focus moves focus to a node. Focus is singular and independent of
// selection: a focused node need not be selected.
func (s *Store) Focus(id scene.NodeID) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.focused = id
	s.hasFocus = true
}

// ClearFocus removes focus.
func (s *Store) ClearFocus() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.focused = ""
	s.hasFocus = false
}

// IsFocused reports whether the given node holds focus.
func (s *Store) IsFocused(id scene.NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.hasFocus && s.focused == id
}

// FocusedID returns the focused node id and whether focus is set.
func (s *Store) FocusedID() (scene.NodeID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.focused, s.hasFocus
}

// Isolate restricts the eligible display set to the given nodes,
// replacing any previous isolation. An empty list clears isolation.
func (s *Store) Isolate(ids []scene.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isolated = make(idSet, len(ids))
	for _, id := range ids {
		if id != "" {
			s.isolated[id] = struct{}{}
		}
	}
}

// ClearIsolation makes every node eligible for display again.
func (s *Store) ClearIsolation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isolated = make(idSet)
}

// HasIsolation reports whether isolation is active. An empty isolated set
// means no isolation: all nodes are eligible for display.
func (s *Store) HasIsolation() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.isolated) > 0
}

// IsIsolated reports whether a node is in the isolated set. With no
// isolation active every node reports true.
func (s *Store) IsIsolated(id scene.NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.isolated) == 0 {
		return true
	}
	_, ok := s.isolated[id]
	return ok
}

// IsolatedIDs returns the isolated set in lexical order.
func (s *Store) IsolatedIDs() []scene.NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.isolated.sorted()
}

// Reset clears every axis. The coordinator resets the store whenever a
// new model loads.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(idSet)
	s.highlighted = make(idSet)
	s.focused = ""
	s.hasFocus = false
	s.isolated = make(idSet)
}

// Empty reports whether every axis is clear.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.selected) == 0 &&
		len(s.highlighted) == 0 &&
		!s.hasFocus &&
		len(s.isolated) == 0
}

// Clone returns a deep-independent snapshot: mutating the clone never
// affects the original. Used for undo checkpoints and debugging captures.
func (s *Store) Clone() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &Store{
		selected:    s.selected.clone(),
		highlighted: s.highlighted.clone(),
		focused:     s.focused,
		hasFocus:    s.hasFocus,
		isolated:    s.isolated.clone(),
	}
}
