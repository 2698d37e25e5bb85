package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/porterlens/internal/debugger"
	"github.com/specialistvlad/porterlens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectErr string
	}{
		{name: "minimal", input: "porter-file: porter.yaml"},
		{name: "json", input: `{"porter-file": "porter.yaml", "stopOnEntry": false}`},
		{name: "error - empty", input: "", expectErr: "empty"},
		{name: "error - missing porter-file", input: "action: install", expectErr: "PorterFile"},
		{name: "error - unknown field", input: "porter-file: p.yaml\nprogram: x", expectErr: "program"},
		{name: "error - wrong type", input: "porter-file: p.yaml\ntype: node", expectErr: "Type"},
		{name: "error - bad action name", input: "porter-file: p.yaml\naction: 'in stall'", expectErr: "Action"},
		{name: "error - empty parameter name", input: "porter-file: p.yaml\ninstallInputs:\n  parameters:\n    '': x", expectErr: "Parameters"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := Decode([]byte(tc.input))
			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "porter.yaml", l.PorterFile)
		})
	}
}

func TestDecode_ValidationErrorsAreTyped(t *testing.T) {
	_, err := Decode([]byte("action: install"))

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "required", verrs[0].Tag())
}

func TestFileLoader_Load(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{
		"launch.yaml": testutil.Unindent(`
			name: Debug install
			porter-file: bundle/porter.yaml
			action: upgrade
			stopOnEntry: false
			installInputs:
			  parameters:
			    username: admin
			  credentialSet: dev
			  outputs:
			    ip: 10.0.0.1
		`),
	})

	// --- Act ---
	l, err := FileLoader{}.Load(context.Background(), filepath.Join(dir, "launch.yaml"))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bundle", "porter.yaml"), l.PorterFile)
	assert.False(t, l.ShouldStopOnEntry())
	assert.Equal(t, debugger.Inputs{
		Action:        "upgrade",
		Parameters:    map[string]string{"username": "admin"},
		CredentialSet: "dev",
		Outputs:       map[string]string{"ip": "10.0.0.1"},
	}, l.Inputs())
}

func TestForManifest(t *testing.T) {
	l := ForManifest("/b/porter.yaml")

	assert.True(t, l.ShouldStopOnEntry())
	assert.Equal(t, debugger.Inputs{}, l.Inputs())
}
