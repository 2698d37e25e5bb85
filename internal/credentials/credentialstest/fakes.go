// Package credentialstest provides in-memory collaborators for tests that
// resolve credentials.
package credentialstest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/specialistvlad/porterlens/internal/credentials"
)

// Env is a map-backed credentials.EnvReader.
type Env map[string]string

// LookupEnv implements credentials.EnvReader.
func (e Env) LookupEnv(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// Files is a map-backed credentials.FileReader.
type Files map[string]string

// ReadFile implements credentials.FileReader.
func (f Files) ReadFile(path string) ([]byte, error) {
	data, ok := f[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(data), nil
}

// Shell replays canned results keyed by command line and records calls.
type Shell struct {
	Results map[string]credentials.ShellResult
	Calls   []string
}

// ErrUnknownCommand is returned for commands without a canned result.
var ErrUnknownCommand = errors.New("command not found")

// Exec implements credentials.Shell.
func (s *Shell) Exec(ctx context.Context, command string) (credentials.ShellResult, error) {
	s.Calls = append(s.Calls, command)
	res, ok := s.Results[command]
	if !ok {
		return credentials.ShellResult{}, fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
	return res, nil
}

// Store is a map-backed credentials.SetStore.
type Store map[string]*credentials.Set

// Get implements credentials.SetStore.
func (s Store) Get(ctx context.Context, name string) (*credentials.Set, error) {
	set, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", credentials.ErrSetNotFound, name)
	}
	return set, nil
}
