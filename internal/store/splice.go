package store

import (
	"fmt"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// The Apply methods reconcile the collection locally after a confirmed
// mutation. Each replaces the backing slice so earlier Items results are
// never modified.

// ApplyCreated appends e, or replaces the entity with the same id.
func (s *Store[E]) ApplyCreated(e E) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]E, 0, len(s.items)+1)
	next = append(next, s.items...)
	if i := s.indexLocked(e.EntityID()); i >= 0 {
		next[i] = e
	} else {
		next = append(next, e)
	}
	s.items = next
}

// ApplyUpdated replaces the entity with e's id in place.
func (s *Store[E]) ApplyUpdated(e E) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(e.EntityID())
	if i < 0 {
		return fmt.Errorf("%w: %s", types.ErrNotFound, e.EntityID())
	}
	next := make([]E, len(s.items))
	copy(next, s.items)
	next[i] = e
	s.items = next
	return nil
}

// ApplyDeleted removes the entity with id.
func (s *Store[E]) ApplyDeleted(id types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	next := make([]E, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	s.items = next
	return nil
}
