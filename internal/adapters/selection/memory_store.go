// Package selection keeps the per-context locked athlete selection in
// process memory. Locks live only for the process lifetime; the context
// key's session component partitions tabs from each other.
package selection

import "sync"

// Store is an in-memory lock store keyed by rendered context keys.
type Store struct {
	mu    sync.RWMutex
	locks map[string]string
}

// NewStore creates an empty lock store.
func NewStore() *Store {
	return &Store{locks: make(map[string]string)}
}

// Get returns the locked athlete id for the context, or "".
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locks[key]
}

// Set records the locked athlete id for the context.
// PRE: key is non-empty
// POST: Get(key) returns id
func (s *Store) Set(key, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks[key] = id
}

// Clear removes the lock for the context.
func (s *Store) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, key)
}
