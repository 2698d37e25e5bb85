package debugger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	rt := newCredentialRuntime(t)
	require.NoError(t, rt.Step())
	require.NoError(t, rt.Step())
	rt.Pump()
	require.Equal(t, 7, rt.CurrentLine())

	testCases := []struct {
		name string
		expr string
		want Result
	}{
		{name: "parameter", expr: "bundle.parameters.region", want: Result{Value: "eu", Defined: true}},
		{name: "surrounding space", expr: "  bundle.parameters.name ", want: Result{Value: "demo", Defined: true}},
		{name: "index syntax", expr: `bundle.parameters["region"]`, want: Result{Value: "eu", Defined: true}},
		{name: "credential", expr: "bundle.credentials.token", want: Result{Value: "t0k3n", Defined: true}},
		{name: "failing credential", expr: "bundle.credentials.missing", want: Result{Value: "evaluation failed: environment variable NOPE is not set", Defined: true}},
		{name: "produced output", expr: "bundle.outputs.first", want: Result{Value: "10.0.0.1", Defined: true}},
		{name: "output not produced yet", expr: "bundle.outputs.second", want: Result{Value: "bundle.outputs.second not defined"}},
		{name: "unknown parameter", expr: "bundle.parameters.nope", want: Result{Value: "bundle.parameters.nope not defined"}},
		{name: "unknown kind", expr: "bundle.secrets.x", want: Result{Value: "bundle.secrets.x not defined"}},
		{name: "too short", expr: "bundle.parameters", want: Result{Value: "bundle.parameters not defined"}},
		{name: "not a traversal", expr: "1 +", want: Result{Value: "1 + not defined"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rt.Evaluate(context.Background(), tc.expr))
		})
	}
}

func TestCompletions(t *testing.T) {
	rt := newCredentialRuntime(t)
	ctx := context.Background()

	assert.Equal(t, []string{"bundle"}, rt.Completions(ctx, "bu"))
	assert.Equal(t, []string{"parameters"}, rt.Completions(ctx, "bundle.p"))
	assert.Equal(t, []string{"parameters", "credentials", "outputs"}, rt.Completions(ctx, "bundle."))
	assert.Equal(t, []string{"name", "region"}, rt.Completions(ctx, "bundle.parameters."))
	assert.Equal(t, []string{"token"}, rt.Completions(ctx, "bundle.credentials.to"))
	assert.Empty(t, rt.Completions(ctx, "bundle.outputs."), "no step has run yet")
	assert.Nil(t, rt.Completions(ctx, "other.parameters."))
}
