package credentials

import (
	"context"
	"sync"
)

// Lazy is a credential whose value is resolved on first use. A successful
// value is kept; a failure is retried on the next call.
type Lazy struct {
	Name   string
	Source Source

	registry *Registry
	mu       sync.Mutex
	value    string
	resolved bool
}

// Bind prepares lazy values for every credential in set, in set order.
func Bind(reg *Registry, set *Set) []*Lazy {
	out := make([]*Lazy, 0, len(set.Credentials))
	for _, c := range set.Credentials {
		out = append(out, &Lazy{Name: c.Name, Source: c.Source, registry: reg})
	}
	return out
}

// Value resolves the credential, or returns the memoised value.
func (l *Lazy) Value(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.resolved {
		return l.value, nil
	}
	v, err := l.registry.Resolve(ctx, l.Source)
	if err != nil {
		return "", err
	}
	l.value, l.resolved = v, true
	return v, nil
}
