// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ManifestNames are the file names treated as bundle manifests when a
// directory is searched.
var ManifestNames = []string{"porter.yaml", "porter.yml"}

// FindFilesByName recursively searches root for files whose name matches
// one of names, ignoring case. Hidden directories are skipped.
func FindFilesByName(root string, names ...string) ([]string, error) {
	if len(names) == 0 {
		panic("names must not be empty")
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		for _, n := range names {
			if strings.EqualFold(d.Name(), n) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FindManifests expands paths: files are kept as given and directories are
// searched for manifests.
func FindManifests(paths ...string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("finding manifests: %w", err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		found, err := FindFilesByName(p, ManifestNames...)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", p, err)
		}
		out = append(out, found...)
	}
	return out, nil
}
