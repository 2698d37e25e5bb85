package cli

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/porterlens/internal/app"
	"github.com/specialistvlad/porterlens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var typoManifest = strings.Replace(testutil.SampleManifest,
	"{{ bundle.parameters.username }}", "{{ bundle.parameters.usrname }}", 1)

// execute runs args against a fresh command tree with isolated output,
// logs and credential directory.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	testutil.DumpLogsOnCleanup(t, logs)

	base := []string{"--log-level", "debug", "--credentials-dir", t.TempDir(), "--env-file", filepath.Join(t.TempDir(), "none.env")}
	err := Execute(context.Background(), &Env{Out: out, Err: logs, In: strings.NewReader(stdin)}, append(base, args...))
	return out.String(), err
}

func manifestFile(t *testing.T, content string) string {
	t.Helper()
	dir := testutil.WriteFiles(t, map[string]string{"porter.yaml": content})
	return filepath.Join(dir, "porter.yaml")
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected an *ExitError, got %v", err)
	assert.Equal(t, code, exitErr.Code)
	return exitErr
}

func TestExecute_UsageErrors(t *testing.T) {
	path := manifestFile(t, testutil.SampleManifest)

	testCases := []struct {
		name        string
		args        []string
		wantMessage string
	}{
		{name: "unknown flag", args: []string{"lint", "--bogus"}, wantMessage: "unknown flag: --bogus"},
		{name: "unknown command", args: []string{"frobnicate"}, wantMessage: `unknown command "frobnicate"`},
		{name: "invalid log format", args: []string{"--log-format", "xml", "lint", path}, wantMessage: "LogFormat"},
		{name: "invalid lint format", args: []string{"lint", "--format", "yaml", path}, wantMessage: "invalid format"},
		{name: "missing file argument", args: []string{"symbols"}, wantMessage: "accepts 1 arg(s)"},
		{name: "missing required flag", args: []string{"definition", path}, wantMessage: `"line" not set`},
		{name: "zero line", args: []string{"definition", path, "--line", "0"}, wantMessage: "1-based"},
		{name: "bad direction", args: []string{"move-step", path, "--line", "26", "--direction", "sideways"}, wantMessage: "unknown direction"},
		{name: "empty selection", args: []string{"parameterise", path, "--line", "21", "--col", "16", "--end-col", "16"}, wantMessage: "--end-col"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, "", tc.args...)

			exitErr := requireExitCode(t, err, 2)
			assert.Contains(t, exitErr.Message, tc.wantMessage)
		})
	}
}

func TestExecute_Help(t *testing.T) {
	out, err := execute(t, "", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "move-step")
}

func TestExecute_Lint(t *testing.T) {
	t.Run("clean manifest", func(t *testing.T) {
		_, err := execute(t, "", "lint", manifestFile(t, testutil.SampleManifest))
		assert.NoError(t, err)
	})

	t.Run("findings exit with 1", func(t *testing.T) {
		out, err := execute(t, "", "lint", "--format", "json", manifestFile(t, typoManifest))

		exitErr := requireExitCode(t, err, 1)
		assert.Equal(t, "1 problem(s) found", exitErr.Message)
		assert.Contains(t, out, `"reference": "bundle.parameters.usrname"`)
	})
}

func TestExecute_Fix(t *testing.T) {
	path := manifestFile(t, typoManifest)

	_, err := execute(t, "", "fix", "-w", path)

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleManifest, string(data))
}

func TestExecute_Definition(t *testing.T) {
	path := manifestFile(t, testutil.SampleManifest)

	out, err := execute(t, "", "definition", path, "--line", "22", "--col", "31")
	require.NoError(t, err)

	var got struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "username", got.Name)

	_, err = execute(t, "", "definition", path, "--line", "1")
	exitErr := requireExitCode(t, err, 1)
	assert.True(t, errors.Is(exitErr, app.ErrNoResult))
}

func TestExecute_Parameterise(t *testing.T) {
	path := manifestFile(t, testutil.SampleManifest)

	out, err := execute(t, "", "parameterise", path, "--line", "20", "--col", "16", "--end-col", "27")

	require.NoError(t, err)
	assert.Contains(t, out, `command: "{{ bundle.parameters.createSh }}"`)
}

func TestExecute_InsertStep(t *testing.T) {
	path := manifestFile(t, testutil.SampleManifest)

	out, err := execute(t, "", "insert-step", path, "--action", "upgrade", "--mixin", "helm3")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "upgrade:\n  - helm3:\n      description: \"TO BE WORKED OUT\"\n"))
}

func TestExecute_Debug(t *testing.T) {
	path := manifestFile(t, testutil.SampleManifest)

	out, err := execute(t, "step\nparams\n",
		"debug", path, "--param", "username=carol", "--param", "port=80")

	require.NoError(t, err)
	assert.Equal(t, "stopped on entry at line 18\nstopped at line 26\nport = 80\nusername = carol\n", out)

	out, err = execute(t, "", "debug", path, "--no-stop-on-entry")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "ended\n"))
}
