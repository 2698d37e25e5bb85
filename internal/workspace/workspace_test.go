package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_CachesUntilContentChanges(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{"porter.yaml": testutil.SampleManifest})
	path := filepath.Join(dir, "porter.yaml")
	svc, err := New(4)
	require.NoError(t, err)
	ctx := context.Background()

	// --- Act & Assert ---
	first, err := svc.Analyze(ctx, path)
	require.NoError(t, err)
	require.True(t, first.OK())
	assert.Empty(t, first.Diagnostics)

	second, err := svc.Analyze(ctx, path)
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged content is served from the cache")

	require.NoError(t, os.WriteFile(path, []byte("x: \"{{ bundle.parameters.nope }}\"\n"), 0o644))
	third, err := svc.Analyze(ctx, path)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Len(t, third.Diagnostics, 1)
	assert.Equal(t, 1, svc.Len())

	svc.Invalidate(path)
	assert.Equal(t, 0, svc.Len())
}

func TestAnalyze_ParseErrorsAreNotErrors(t *testing.T) {
	svc, err := New(0)
	require.NoError(t, err)

	a := svc.AnalyzeText(context.Background(), "/x/porter.yaml", "not: [a, valid, porter, manifest")

	assert.False(t, a.OK())
	assert.ErrorIs(t, a.ParseErr, manifest.ErrInvalidYAML)
	assert.Nil(t, a.Doc)
	assert.Nil(t, a.Diagnostics)
}

func TestAnalyze_MissingFile(t *testing.T) {
	svc, err := New(1)
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), filepath.Join(t.TempDir(), "porter.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyze_EvictsLeastRecentlyUsed(t *testing.T) {
	svc, err := New(1)
	require.NoError(t, err)
	ctx := context.Background()

	a := svc.AnalyzeText(ctx, "/a", "name: a\n")
	svc.AnalyzeText(ctx, "/b", "name: b\n")
	again := svc.AnalyzeText(ctx, "/a", "name: a\n")

	assert.NotSame(t, a, again)
	assert.Equal(t, 1, svc.Len())
}
