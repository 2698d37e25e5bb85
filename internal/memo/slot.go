// Package memo provides small explicit caches that replace module-level
// mutable state.
package memo

import "sync"

// Slot caches a single value together with the key it was loaded for.
// Asking for a different key invalidates the old value. A Slot is safe for
// concurrent use; loads are serialised.
type Slot[K comparable, V any] struct {
	mu    sync.Mutex
	key   K
	value V
	valid bool
}

// Get returns the cached value when key matches, and otherwise calls load
// and caches its result. Failed loads are not cached.
func (s *Slot[K, V]) Get(key K, load func() (V, error)) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid && s.key == key {
		return s.value, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	s.key, s.value, s.valid = key, v, true
	return v, nil
}

// Peek returns the cached entry without loading.
func (s *Slot[K, V]) Peek() (K, V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key, s.value, s.valid
}

// Invalidate drops the cached value.
func (s *Slot[K, V]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zeroK K
	var zeroV V
	s.key, s.value, s.valid = zeroK, zeroV, false
}
