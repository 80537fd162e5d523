package catalog

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a page key has no questionnaire.
var ErrNotFound = errors.New("questionnaire not found")

// Store is the read side of the catalog: a snapshot that can be
// swapped atomically by the watcher while sessions keep reading a
// consistent view.
type Store struct {
	mu  sync.RWMutex
	cat Catalog
}

func NewStore(cat Catalog) *Store {
	if cat == nil {
		cat = Catalog{}
	}
	return &Store{cat: cat}
}

// Snapshot returns the current catalog. Callers must treat it as
// read-only; a reload replaces the whole map rather than mutating it.
func (s *Store) Snapshot() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat
}

// Swap replaces the catalog with a freshly loaded one.
func (s *Store) Swap(cat Catalog) {
	if cat == nil {
		cat = Catalog{}
	}
	s.mu.Lock()
	s.cat = cat
	s.mu.Unlock()
}

// Get returns one questionnaire by page key.
func (s *Store) Get(page string) (Questionnaire, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	qn, ok := s.cat[page]
	if !ok {
		return Questionnaire{}, ErrNotFound
	}
	return qn, nil
}
