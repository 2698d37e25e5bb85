package shell_command

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/porterlens/internal/credentials"
	"github.com/specialistvlad/porterlens/internal/ctxlog"
)

// Module implements the credentials.Module interface for this package.
type Module struct{}

// ResolveShellCommand runs the command line from the source and returns its
// standard output without the trailing newline.
func ResolveShellCommand(ctx context.Context, host credentials.Host, src credentials.Source) (string, error) {
	logger := ctxlog.FromContext(ctx).With("resolver", "command", "command", src.Value)
	if host.Shell == nil {
		return "", fmt.Errorf("no shell configured")
	}

	logger.Debug("Running credential command.")
	res, err := host.Shell.Exec(ctx, src.Value)
	if err != nil {
		return "", fmt.Errorf("running %q: %w", src.Value, err)
	}
	if res.ExitCode != 0 {
		logger.Warn("Credential command failed.", "exitCode", res.ExitCode)
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			return "", fmt.Errorf("command %q exited with code %d", src.Value, res.ExitCode)
		}
		return "", fmt.Errorf("command %q exited with code %d: %s", src.Value, res.ExitCode, msg)
	}
	return strings.TrimRight(res.Stdout, "\r\n"), nil
}

// Register registers the resolver for `command:` sources.
func (m *Module) Register(r *credentials.Registry) {
	r.Register(credentials.SourceCommand, credentials.ResolverFunc(ResolveShellCommand))
}
