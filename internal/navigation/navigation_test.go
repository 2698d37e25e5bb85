package navigation

import (
	"testing"

	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng(line, startCol, endCol int) manifest.Range {
	return manifest.Range{
		Start: manifest.Position{Line: line, Column: startCol},
		End:   manifest.Position{Line: line, Column: endCol},
	}
}

func pos(line, col int) manifest.Position {
	return manifest.Position{Line: line, Column: col}
}

func sample(t *testing.T) *manifest.Document {
	t.Helper()
	doc, err := manifest.Parse(testutil.SampleManifest)
	require.NoError(t, err)
	return doc
}

func TestDefinition(t *testing.T) {
	doc := sample(t)

	testCases := []struct {
		name   string
		pos    manifest.Position
		want   manifest.Declaration
		wantOK bool
	}{
		{name: "parameter", pos: pos(21, 20), want: manifest.Declaration{Name: "username", NameRange: rng(7, 10, 18)}, wantOK: true},
		{name: "on the opening braces", pos: pos(21, 11), want: manifest.Declaration{Name: "username", NameRange: rng(7, 10, 18)}, wantOK: true},
		{name: "output", pos: pos(27, 30), want: manifest.Declaration{Name: "ip", NameRange: rng(23, 16, 18)}, wantOK: true},
		{name: "credential", pos: pos(27, 50), want: manifest.Declaration{Name: "kubeconfig", NameRange: rng(13, 10, 20)}, wantOK: true},
		{name: "outside any template", pos: pos(18, 5)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Definition(doc, tc.pos)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDefinition_OutputFromAnotherAction(t *testing.T) {
	doc, err := manifest.Parse(testutil.Unindent(`
		install:
		  - exec:
		      outputs:
		        - name: ip
		uninstall:
		  - exec:
		      command: "{{ bundle.outputs.ip }}"
	`))
	require.NoError(t, err)

	_, ok := Definition(doc, pos(6, 22))
	assert.False(t, ok, "outputs never resolve across actions")
}

func TestDefinition_PrefersNearestEarlierStep(t *testing.T) {
	doc, err := manifest.Parse(testutil.Unindent(`
		install:
		  - exec:
		      outputs:
		        - name: ip
		  - exec:
		      outputs:
		        - name: ip
		  - exec:
		      command: "{{ bundle.outputs.ip }}"
	`))
	require.NoError(t, err)

	got, ok := Definition(doc, pos(8, 22))
	require.True(t, ok)
	assert.Equal(t, 6, got.NameRange.Start.Line)
}

func TestReferences(t *testing.T) {
	doc := sample(t)

	assert.Equal(t, []manifest.Range{rng(21, 14, 40), rng(31, 30, 56)}, References(doc, pos(7, 12)))
	assert.Equal(t, []manifest.Range{rng(27, 24, 41)}, References(doc, pos(23, 17)))
	assert.Equal(t, []manifest.Range{rng(27, 47, 76)}, References(doc, pos(13, 10)))
	assert.Nil(t, References(doc, pos(9, 10)), "port is never referenced")
	assert.Nil(t, References(doc, pos(0, 0)))
}

func TestCompletions(t *testing.T) {
	doc := sample(t)

	testCases := []struct {
		name string
		pos  manifest.Position
		want []string
	}{
		{
			name: "empty template offers everything usable",
			pos:  pos(27, 24),
			want: []string{
				"bundle", "bundle.parameters", "bundle.credentials", "bundle.outputs",
				"bundle.parameters.username", "bundle.parameters.port",
				"bundle.credentials.kubeconfig", "bundle.outputs.ip",
			},
		},
		{
			name: "typed segments are pruned",
			pos:  pos(27, 31),
			want: []string{
				"parameters", "credentials", "outputs",
				"parameters.username", "parameters.port",
				"credentials.kubeconfig", "outputs.ip",
			},
		},
		{name: "full name", pos: pos(27, 41), want: []string{"ip"}},
		{
			name: "out-of-scope outputs are not offered",
			pos:  pos(21, 24),
			want: []string{"parameters", "parameters.username", "parameters.port"},
		},
		{name: "not in a template", pos: pos(18, 5), want: nil},
		{name: "negative column", pos: pos(27, -5), want: nil},
		{name: "line out of range", pos: pos(-1, 3), want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Completions(doc, tc.pos))
		})
	}
}

func TestSymbols(t *testing.T) {
	doc := sample(t)

	syms := Symbols(doc)

	var names []string
	for _, s := range syms {
		names = append(names, string(s.Kind)+":"+s.Name)
	}
	assert.Equal(t, []string{
		"parameter:username", "parameter:port", "credential:kubeconfig",
		"action:install", "action:uninstall",
	}, names)

	install := syms[3]
	require.Len(t, install.Children, 2)
	assert.Equal(t, "exec", install.Children[0].Name)
	assert.Equal(t, []Symbol{{Name: "ip", Kind: SymbolOutput, Range: rng(23, 16, 18)}}, install.Children[0].Children)
	assert.Empty(t, install.Children[1].Children)
}
