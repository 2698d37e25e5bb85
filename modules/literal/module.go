package literal

import (
	"context"

	"github.com/specialistvlad/porterlens/internal/credentials"
)

// Module implements the credentials.Module interface for this package.
type Module struct{}

// ResolveLiteral returns the value written in the credential set as is.
func ResolveLiteral(ctx context.Context, host credentials.Host, src credentials.Source) (string, error) {
	return src.Value, nil
}

// Register registers the resolver for `value:` sources.
func (m *Module) Register(r *credentials.Registry) {
	r.Register(credentials.SourceValue, credentials.ResolverFunc(ResolveLiteral))
}
