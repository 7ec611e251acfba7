// Package form provides the mutable form state that the voice controller and
// the surrounding UI share. The store is a flat key-value mapping of field
// names to values; nested wizard sections address their fields with dotted
// paths (e.g., "education.0.universityName").
package form

import (
	"maps"
	"sync"
)

// Store is an in-memory form state store. It is safe for concurrent use,
// though by documented convention the UI must not mutate fields that an
// active voice run is filling.
type Store struct {
	mu     sync.RWMutex
	fields map[string]any
}

// NewStore creates a Store pre-populated with the given initial field values.
// Text fields should be initialised to empty strings so skip handling can
// recognise them as string-typed; initial may be nil.
func NewStore(initial map[string]any) *Store {
	fields := make(map[string]any, len(initial))
	maps.Copy(fields, initial)
	return &Store{fields: fields}
}

// Set stores value under name, creating the field if it does not exist.
func (s *Store) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[name] = value
}

// Get returns the value stored under name and whether the field exists.
func (s *Store) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.fields[name]
	return v, ok
}

// Snapshot returns a copy of the complete form state. Values are shared, not
// deep-copied; callers must treat them as read-only.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[string]any, len(s.fields))
	maps.Copy(snap, s.fields)
	return snap
}

// Len returns the number of fields currently in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fields)
}
