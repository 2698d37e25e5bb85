package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/porterlens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindManifests(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a/porter.yaml":       "name: a",
		"b/nested/Porter.YML": "name: b",
		"c/other.yaml":        "name: c",
		".git/porter.yaml":    "name: hidden",
	})
	single := filepath.Join(dir, "c", "other.yaml")

	got, err := FindManifests(dir, single)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a", "porter.yaml"),
		filepath.Join(dir, "b", "nested", "Porter.YML"),
		single,
	}, got)
}

func TestFindManifests_MissingPath(t *testing.T) {
	_, err := FindManifests(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindFilesByName_PanicsWithoutNames(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByName(t.TempDir()) })
}
