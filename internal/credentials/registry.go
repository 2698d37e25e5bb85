package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// ErrUnsupportedSource is returned for a source kind nobody registered.
var ErrUnsupportedSource = errors.New("unsupported credential source")

// Resolver produces a credential value from its source.
type Resolver interface {
	Resolve(ctx context.Context, host Host, src Source) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, host Host, src Source) (string, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, host Host, src Source) (string, error) {
	return f(ctx, host, src)
}

// Module is implemented by every source plugin.
type Module interface {
	Register(r *Registry)
}

// Registry maps source kinds to resolvers for one runtime.
type Registry struct {
	host      Host
	resolvers map[SourceKind]Resolver
}

// NewRegistry creates an empty registry whose resolvers use host.
func NewRegistry(host Host, modules ...Module) *Registry {
	r := &Registry{host: host, resolvers: make(map[SourceKind]Resolver)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register binds a resolver to a kind. Registering a kind twice is a
// programming error.
func (r *Registry) Register(kind SourceKind, res Resolver) {
	if _, exists := r.resolvers[kind]; exists {
		panic(fmt.Sprintf("credential resolver for source '%s' already registered", kind))
	}
	slog.Debug("Registering credential resolver.", "kind", kind)
	r.resolvers[kind] = res
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []SourceKind {
	kinds := make([]SourceKind, 0, len(r.resolvers))
	for k := range r.resolvers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Resolve looks up the resolver for src.Kind and runs it.
func (r *Registry) Resolve(ctx context.Context, src Source) (string, error) {
	res, ok := r.resolvers[src.Kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSource, src.Kind)
	}
	return res.Resolve(ctx, r.host, src)
}
