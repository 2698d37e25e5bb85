package credentials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/porterlens/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// ErrSetNotFound is returned when no file holds the requested set.
var ErrSetNotFound = errors.New("credential set not found")

// SetStore looks up credential sets by name.
type SetStore interface {
	Get(ctx context.Context, name string) (*Set, error)
}

// DirStore reads sets from <Dir>/<name>.yaml, .yml or .json.
type DirStore struct {
	Dir string
}

var setExtensions = []string{".yaml", ".yml", ".json"}

// NewDirStore returns a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: dir}
}

// DefaultDir is $PORTER_HOME/credentials, falling back to
// ~/.porter/credentials.
func DefaultDir() string {
	if home := os.Getenv("PORTER_HOME"); home != "" {
		return filepath.Join(home, "credentials")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".porter", "credentials")
	}
	return filepath.Join(".porter", "credentials")
}

// Get implements SetStore.
func (s *DirStore) Get(ctx context.Context, name string) (*Set, error) {
	logger := ctxlog.FromContext(ctx)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid credential set name %q", name)
	}

	for _, ext := range setExtensions {
		path := filepath.Join(s.Dir, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading credential set %q: %w", name, err)
		}

		var set Set
		// JSON is valid YAML, so one decoder covers every extension.
		if err := yaml.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("decoding credential set %s: %w", path, err)
		}
		if set.Name == "" {
			set.Name = name
		}
		logger.Debug("Credential set loaded.", "name", name, "path", path, "count", len(set.Credentials))
		return &set, nil
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrSetNotFound, name, s.Dir)
}

// List returns the names of all sets in the directory, sorted.
func (s *DirStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, known := range setExtensions {
			if ext == known {
				name := strings.TrimSuffix(e.Name(), ext)
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
