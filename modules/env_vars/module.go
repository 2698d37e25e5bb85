package env_vars

import (
	"context"
	"fmt"

	"github.com/specialistvlad/porterlens/internal/credentials"
	"github.com/specialistvlad/porterlens/internal/ctxlog"
)

// Module implements the credentials.Module interface for this package.
type Module struct{}

// ResolveEnvVar reads the variable named by the source. An unset variable
// is an error; an empty one is a valid value.
func ResolveEnvVar(ctx context.Context, host credentials.Host, src credentials.Source) (string, error) {
	if host.Env == nil {
		return "", fmt.Errorf("no environment reader configured")
	}
	v, ok := host.Env.LookupEnv(src.Value)
	if !ok {
		return "", fmt.Errorf("environment variable %s is not set", src.Value)
	}
	ctxlog.FromContext(ctx).Debug("Credential read from environment.", "variable", src.Value)
	return v, nil
}

// Register registers the resolver for `env:` sources.
func (m *Module) Register(r *credentials.Registry) {
	r.Register(credentials.SourceEnv, credentials.ResolverFunc(ResolveEnvVar))
}
