// Package workspace keeps recent manifest analyses in memory so repeated
// queries over unchanged files skip parsing.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/specialistvlad/porterlens/internal/ctxlog"
	"github.com/specialistvlad/porterlens/internal/diagnostics"
	"github.com/specialistvlad/porterlens/internal/manifest"
)

// DefaultCacheSize is used when New is given a non-positive size.
const DefaultCacheSize = 128

// Analysis is the parse and lint result for one version of a file.
type Analysis struct {
	Path string
	Text string
	// Doc is nil when ParseErr is set.
	Doc         *manifest.Document
	ParseErr    error
	Diagnostics []diagnostics.Diagnostic

	hash uint64
}

// OK reports whether the file parsed.
func (a *Analysis) OK() bool {
	return a.ParseErr == nil
}

// Service caches analyses by absolute path. An entry is reused only while
// the file content hashes the same.
type Service struct {
	cache    *lru.Cache[string, *Analysis]
	readFile func(string) ([]byte, error)
}

// New creates a service holding at most size analyses.
func New(size int) (*Service, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *Analysis](size)
	if err != nil {
		return nil, fmt.Errorf("creating analysis cache: %w", err)
	}
	return &Service{cache: cache, readFile: os.ReadFile}, nil
}

// Analyze reads path and returns its analysis. A manifest with syntax errors
// is not an error here; it is reported through Analysis.ParseErr.
func (s *Service) Analyze(ctx context.Context, path string) (*Analysis, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := s.readFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return s.AnalyzeText(ctx, abs, string(data)), nil
}

// AnalyzeText analyses text as the current content of path.
func (s *Service) AnalyzeText(ctx context.Context, path, text string) *Analysis {
	logger := ctxlog.FromContext(ctx).With("path", path)
	hash := xxhash.Sum64String(text)

	if cached, ok := s.cache.Get(path); ok && cached.hash == hash {
		logger.Debug("Analysis served from cache.")
		return cached
	}

	a := &Analysis{Path: path, Text: text, hash: hash}
	doc, err := manifest.Parse(text)
	if err != nil {
		a.ParseErr = err
		logger.Debug("Manifest has errors.", "error", err)
	} else {
		a.Doc = doc
		a.Diagnostics = diagnostics.Lint(doc)
		logger.Debug("Manifest analysed.", "diagnostics", len(a.Diagnostics))
	}
	s.cache.Add(path, a)
	return a
}

// Invalidate drops the cached analysis for path.
func (s *Service) Invalidate(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	s.cache.Remove(path)
}

// Len returns the number of cached analyses.
func (s *Service) Len() int {
	return s.cache.Len()
}
