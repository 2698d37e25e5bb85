package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/porterlens/internal/lineindex"
	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/refactor"
	"github.com/specialistvlad/porterlens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// typoManifest misspells the first parameter reference, on line 21.
var typoManifest = strings.Replace(testutil.SampleManifest,
	"{{ bundle.parameters.username }}", "{{ bundle.parameters.usrname }}", 1)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := testutil.WriteFiles(t, map[string]string{"porter.yaml": content})
	return filepath.Join(dir, "porter.yaml")
}

func TestApp_Lint(t *testing.T) {
	testCases := []struct {
		name         string
		files        map[string]string
		format       string
		wantFindings int
		wantOutput   []string
	}{
		{
			name:         "clean manifest prints nothing",
			files:        map[string]string{"porter.yaml": testutil.SampleManifest},
			format:       "text",
			wantFindings: 0,
		},
		{
			name:         "undeclared reference is rendered with its snippet",
			files:        map[string]string{"porter.yaml": typoManifest},
			format:       "text",
			wantFindings: 1,
			wantOutput:   []string{"Cannot find definition for bundle.parameters.usrname", "porter.yaml line 22"},
		},
		{
			name:         "manifests in sub directories are found",
			files:        map[string]string{"a/porter.yaml": typoManifest, "b/porter.yml": typoManifest, "c/other.yaml": typoManifest},
			format:       "text",
			wantFindings: 2,
		},
		{
			name:         "broken yaml counts as one finding",
			files:        map[string]string{"porter.yaml": "name: [unclosed\n"},
			format:       "text",
			wantFindings: 1,
			wantOutput:   []string{"file has errors, intellisense unavailable"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			a, out := SetupAppTest(t, Config{})
			dir := testutil.WriteFiles(t, tc.files)

			// --- Act ---
			n, err := a.Lint(context.Background(), []string{dir}, LintOptions{Format: tc.format})

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, tc.wantFindings, n)
			if tc.wantFindings == 0 {
				assert.Empty(t, out.String())
			}
			for _, want := range tc.wantOutput {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestApp_Lint_JSON(t *testing.T) {
	// --- Arrange ---
	a, out := SetupAppTest(t, Config{})
	path := writeManifest(t, typoManifest)

	// --- Act ---
	n, err := a.Lint(context.Background(), []string{path}, LintOptions{Format: "json"})
	require.NoError(t, err)

	// --- Assert ---
	assert.Equal(t, 1, n)
	var reports []struct {
		Path        string `json:"path"`
		Diagnostics []struct {
			Message   string         `json:"message"`
			Severity  string         `json:"severity"`
			Kind      string         `json:"kind"`
			Reference string         `json:"reference"`
			Range     manifest.Range `json:"range"`
			Fixes     []struct {
				Title string `json:"title"`
			} `json:"fixes"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &reports))
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Diagnostics, 1)

	d := reports[0].Diagnostics[0]
	assert.Equal(t, "bundle.parameters.usrname", d.Reference)
	assert.Equal(t, "porter_no_definition", d.Kind)
	assert.Equal(t, 21, d.Range.Start.Line)
	require.NotEmpty(t, d.Fixes)
	assert.Equal(t, "Change to bundle.parameters.username", d.Fixes[0].Title)
}

func TestApp_Lint_MissingPath(t *testing.T) {
	a, _ := SetupAppTest(t, Config{})
	_, err := a.Lint(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, LintOptions{})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestApp_Fix(t *testing.T) {
	t.Run("prints the fixed manifest", func(t *testing.T) {
		a, out := SetupAppTest(t, Config{})
		path := writeManifest(t, typoManifest)

		n, err := a.Fix(context.Background(), path, false)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		if diff := cmp.Diff(testutil.SampleManifest, out.String()); diff != "" {
			t.Errorf("fixed manifest mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rewrites the file in place", func(t *testing.T) {
		a, out := SetupAppTest(t, Config{})
		path := writeManifest(t, typoManifest)

		n, err := a.Fix(context.Background(), path, true)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Empty(t, out.String())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, testutil.SampleManifest, string(data))

		n, err = a.Fix(context.Background(), path, true)
		require.NoError(t, err)
		assert.Zero(t, n, "nothing is left to fix")
	})

	t.Run("error - broken manifest", func(t *testing.T) {
		a, _ := SetupAppTest(t, Config{})
		path := writeManifest(t, "name: [unclosed\n")

		_, err := a.Fix(context.Background(), path, false)

		require.Error(t, err)
		assert.Contains(t, err.Error(), unavailable)
		assert.True(t, errors.Is(err, manifest.ErrInvalidYAML))
	})
}

func TestApp_Definition(t *testing.T) {
	a, out := SetupAppTest(t, Config{})
	path := writeManifest(t, testutil.SampleManifest)

	require.NoError(t, a.Definition(context.Background(), path, manifest.Position{Line: 21, Column: 30}))

	var got location
	require.NoError(t, json.Unmarshal([]byte(out.String()), &got))
	assert.Equal(t, location{
		Name:  "username",
		Range: manifest.Range{Start: manifest.Position{Line: 7, Column: 10}, End: manifest.Position{Line: 7, Column: 18}},
	}, got)

	err := a.Definition(context.Background(), path, manifest.Position{Line: 0, Column: 0})
	assert.True(t, errors.Is(err, ErrNoResult))
}

func TestApp_References(t *testing.T) {
	a, out := SetupAppTest(t, Config{})
	path := writeManifest(t, testutil.SampleManifest)

	require.NoError(t, a.References(context.Background(), path, manifest.Position{Line: 7, Column: 12}))

	var got []manifest.Range
	require.NoError(t, json.Unmarshal([]byte(out.String()), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 21, got[0].Start.Line)
	assert.Equal(t, 31, got[1].Start.Line)

	err := a.References(context.Background(), path, manifest.Position{Line: 1, Column: 0})
	assert.True(t, errors.Is(err, ErrNoResult))
}

func TestApp_Complete(t *testing.T) {
	a, out := SetupAppTest(t, Config{})
	path := writeManifest(t, testutil.SampleManifest)

	// Cursor right after "{{ bundle." on line 21.
	require.NoError(t, a.Complete(context.Background(), path, manifest.Position{Line: 21, Column: 21}))

	var items []string
	require.NoError(t, json.Unmarshal([]byte(out.String()), &items))
	assert.Contains(t, items, "parameters")
	assert.Contains(t, items, "parameters.username")
	assert.NotContains(t, items, "bundle.parameters")
}

func TestApp_Symbols(t *testing.T) {
	a, out := SetupAppTest(t, Config{})
	path := writeManifest(t, testutil.SampleManifest)

	require.NoError(t, a.Symbols(context.Background(), path))

	var symbols []struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &symbols))
	var actions []string
	for _, s := range symbols {
		if s.Kind == "action" {
			actions = append(actions, s.Name)
		}
	}
	assert.Equal(t, []string{"install", "uninstall"}, actions)
}

func TestApp_MoveStep(t *testing.T) {
	a, out := SetupAppTest(t, Config{})
	path := writeManifest(t, testutil.SampleManifest)

	require.NoError(t, a.MoveStep(context.Background(), path, 25, refactor.Up, false))

	got := out.String()
	assert.Less(t, strings.Index(got, `description: "Report"`), strings.Index(got, `description: "Create user"`))
	assert.Equal(t, len(testutil.SampleManifest), len(got))

	err := a.MoveStep(context.Background(), path, 17, refactor.Up, false)
	assert.True(t, errors.Is(err, refactor.ErrCannotMove))
}

func TestApp_Parameterise(t *testing.T) {
	a, _ := SetupAppTest(t, Config{})
	path := writeManifest(t, testutil.SampleManifest)

	// "./create.sh" on zero-based line 19.
	sel := manifest.Range{Start: manifest.Position{Line: 19, Column: 15}, End: manifest.Position{Line: 19, Column: 26}}
	name, err := a.Parameterise(context.Background(), path, sel, true)

	require.NoError(t, err)
	assert.Equal(t, "createSh", name)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "  - name: createSh\n    default: ./create.sh\n")
	assert.Contains(t, string(data), `command: "{{ bundle.parameters.createSh }}"`)
}

func TestApp_ParameteriseRejectsBadEdits(t *testing.T) {
	// "      arguments:" is only 16 characters long.
	overLong := manifest.Range{Start: manifest.Position{Line: 20, Column: 15}, End: manifest.Position{Line: 20, Column: 26}}

	testCases := []struct {
		name string
		run  func(a *App, path string) error
		want error
	}{
		{
			name: "selection past the end of the line",
			run: func(a *App, path string) error {
				_, err := a.Parameterise(context.Background(), path, overLong, true)
				return err
			},
			want: refactor.ErrSelectionOutOfRange,
		},
		{
			name: "edit that breaks the yaml",
			run: func(a *App, path string) error {
				an, err := a.analyze(context.Background(), path)
				if err != nil {
					return err
				}
				line := manifest.Range{Start: manifest.Position{Line: 20}, End: manifest.Position{Line: 20, Column: 16}}
				broken := lineindex.Edit{Range: line, NewText: "      arguments: [unclosed"}
				return a.applyEdits(an.Doc, path, true, broken)
			},
			want: manifest.ErrInvalidYAML,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			a, out := SetupAppTest(t, Config{})
			path := writeManifest(t, testutil.SampleManifest)

			// --- Act ---
			err := tc.run(a, path)

			// --- Assert ---
			assert.ErrorIs(t, err, tc.want)
			data, readErr := os.ReadFile(path)
			require.NoError(t, readErr)
			assert.Equal(t, testutil.SampleManifest, string(data), "the manifest is left untouched")
			assert.Empty(t, out.String())
		})
	}
}

func TestApp_InsertStep(t *testing.T) {
	a, out := SetupAppTest(t, Config{})
	path := writeManifest(t, testutil.SampleManifest)

	require.NoError(t, a.InsertStep(context.Background(), path, "upgrade", "helm3", 0, false))

	want := testutil.SampleManifest + "upgrade:\n  - helm3:\n      description: \"TO BE WORKED OUT\"\n"
	assert.Equal(t, want, out.String())
}
