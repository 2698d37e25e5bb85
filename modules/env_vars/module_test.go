package env_vars

import (
	"context"
	"testing"

	"github.com/specialistvlad/porterlens/internal/credentials"
	"github.com/specialistvlad/porterlens/internal/credentials/credentialstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnvVar(t *testing.T) {
	host := credentials.Host{Env: credentialstest.Env{"TOKEN": "abc", "EMPTY": ""}}
	reg := credentials.NewRegistry(host, &Module{})
	ctx := context.Background()

	testCases := []struct {
		name      string
		variable  string
		want      string
		expectErr string
	}{
		{name: "set", variable: "TOKEN", want: "abc"},
		{name: "set but empty", variable: "EMPTY", want: ""},
		{name: "error - unset", variable: "MISSING", expectErr: "environment variable MISSING is not set"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := reg.Resolve(ctx, credentials.Source{Kind: credentials.SourceEnv, Value: tc.variable})
			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}
