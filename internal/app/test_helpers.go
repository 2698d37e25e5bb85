package app

import (
	"testing"

	"github.com/specialistvlad/porterlens/internal/testutil"
	"github.com/stretchr/testify/require"
)

// SetupAppTest creates an App for system tests. It returns the app and the
// buffer receiving command output; logs are captured separately and dumped
// when PORTERLENS_TEST_LOGS=true.
func SetupAppTest(t *testing.T, cfg Config) (*App, *testutil.SafeBuffer) {
	t.Helper()

	if cfg.CredentialsDir == "" {
		cfg.CredentialsDir = t.TempDir()
	}
	if cfg.DotenvFiles == nil {
		cfg.DotenvFiles = []string{}
	}
	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	testutil.DumpLogsOnCleanup(t, logs)

	testApp, err := NewApp(out, logs, appConfig)
	require.NoError(t, err)
	return testApp, out
}
