// Package pathmap keys values by file path the way editors compare them:
// case-insensitively and with forward slashes.
package pathmap

import "strings"

// Normalize lower-cases path and turns backslashes into slashes.
func Normalize(path string) string {
	return strings.ToLower(strings.ReplaceAll(path, `\`, "/"))
}

// Map holds one value per normalised path.
type Map[T any] struct {
	entries map[string]T
}

// Get returns the value stored for path.
func (m *Map[T]) Get(path string) (T, bool) {
	v, ok := m.entries[Normalize(path)]
	return v, ok
}

// Set stores v for path.
func (m *Map[T]) Set(path string, v T) {
	if m.entries == nil {
		m.entries = make(map[string]T)
	}
	m.entries[Normalize(path)] = v
}

// Delete removes path.
func (m *Map[T]) Delete(path string) {
	delete(m.entries, Normalize(path))
}

// Same reports whether two paths name the same entry.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// List is a Map of ordered slices.
type List[T any] struct {
	Map[[]T]
}

// Append adds v to the end of path's list.
func (l *List[T]) Append(path string, v T) {
	cur, _ := l.Get(path)
	l.Set(path, append(cur, v))
}

// Items returns path's list, or nil.
func (l *List[T]) Items(path string) []T {
	items, _ := l.Get(path)
	return items
}
