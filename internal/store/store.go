package store

import (
	"sync"

	"tracker/internal/core"
)

// Store is the in-memory, append-only collection of admitted expenses.
// A single RWMutex serializes Add against concurrent readers.
type Store struct {
	mu    sync.RWMutex
	items []core.Expense
}

func New() *Store {
	return &Store{}
}

// Add appends e. Validation happens before e reaches the store.
func (s *Store) Add(e core.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
}

// All returns a snapshot of every expense in insertion order.
func (s *Store) All() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Expense(nil), s.items...)
}

// Len is the number of stored expenses. Since the store only grows, it also
// identifies the current revision.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
