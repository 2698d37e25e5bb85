package file_contents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/porterlens/internal/credentials"
	"github.com/specialistvlad/porterlens/internal/ctxlog"
)

// Module implements the credentials.Module interface for this package.
type Module struct{}

// ResolveFileContents returns the whole content of the file named by the
// source. A leading `~/` is expanded to the user's home directory.
func ResolveFileContents(ctx context.Context, host credentials.Host, src credentials.Source) (string, error) {
	if host.Files == nil {
		return "", fmt.Errorf("no file reader configured")
	}
	path := expandHome(src.Value)
	data, err := host.Files.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Credential read from file.", "path", path, "bytes", len(data))
	return string(data), nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Register registers the resolver for `path:` sources.
func (m *Module) Register(r *credentials.Registry) {
	r.Register(credentials.SourcePath, credentials.ResolverFunc(ResolveFileContents))
}
