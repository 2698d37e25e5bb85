package diagnostics

import (
	"bytes"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/porterlens/internal/lineindex"
	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, text string) *manifest.Document {
	t.Helper()
	doc, err := manifest.Parse(text)
	require.NoError(t, err)
	return doc
}

func TestLint_CleanManifest(t *testing.T) {
	doc := parse(t, testutil.SampleManifest)
	assert.Empty(t, Lint(doc))
}

func TestLint_UndeclaredReference(t *testing.T) {
	// --- Arrange ---
	text := testutil.Unindent(`
		install:
		  - exec:
		      command: "{{ bundle.parameters.missing }}"
	`)
	doc := parse(t, text)

	// --- Act ---
	diags := Lint(doc)

	// --- Assert ---
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, KindNoDefinition, d.Kind)
	assert.Equal(t, "porter_no_definition", string(d.Kind))
	assert.Equal(t, SeverityError, d.Severity)
	assert.Equal(t, "Cannot find definition for bundle.parameters.missing", d.Message)
	assert.Equal(t, "bundle.parameters.missing", doc.Index().Slice(d.Range))
}

func TestLint_OutOfScopeOutput(t *testing.T) {
	text := testutil.Unindent(`
		install:
		  - exec:
		      command: "{{ bundle.outputs.ip }}"
		      outputs:
		        - name: ip
		  - exec:
		      command: "{{ bundle.outputs.ip }}"
		uninstall:
		  - exec:
		      command: "{{ bundle.outputs.ip }}"
	`)
	doc := parse(t, text)

	diags := Lint(doc)

	require.Len(t, diags, 2, "only the use after the producing step is valid")
	for _, d := range diags {
		assert.Equal(t, KindDefinitionNotAvailable, d.Kind)
		assert.Equal(t, "Cannot use bundle.outputs.ip here - check where it is defined", d.Message)
	}
	assert.Equal(t, 2, diags[0].Range.Start.Line, "inside its own step")
	assert.Equal(t, 9, diags[1].Range.Start.Line, "in another action")
}

func TestLint_IgnoresNonBundleTemplates(t *testing.T) {
	doc := parse(t, "install:\n  - exec:\n      command: \"{{ env.HOME }} {{ bundle }}\"\n")
	assert.Empty(t, Lint(doc))
}

func TestFixes_Ranking(t *testing.T) {
	// --- Arrange ---
	text := testutil.Unindent(`
		parameters:
		  - name: username
		  - name: user
		  - name: password
		  - name: something-completely-different-and-long
		install:
		  - exec:
		      command: "{{ bundle.parameters.usernam }}"
	`)
	doc := parse(t, text)
	diags := Lint(doc)
	require.Len(t, diags, 1)

	// --- Act ---
	fixes := Fixes(diags[0], doc)

	// --- Assert ---
	require.NotEmpty(t, fixes)
	assert.Equal(t, "Change to bundle.parameters.username", fixes[0].Title)
	assert.Equal(t, 1, fixes[0].Distance)
	assert.Equal(t, diags[0].Range, fixes[0].Edit.Range)
	assert.Equal(t, "bundle.parameters.username", fixes[0].Edit.NewText)
	for _, f := range fixes {
		assert.LessOrEqual(t, f.Distance, maxDistance)
		assert.NotEqual(t, "Change to bundle.parameters.something-completely-different-and-long", f.Title)
	}

	fixed, err := doc.Index().Apply([]lineindex.Edit{fixes[0].Edit})
	require.NoError(t, err)
	fixedDoc := parse(t, fixed)
	assert.Empty(t, Lint(fixedDoc), "applying the top fix clears the diagnostic")
}

func TestFixes_TiesKeepDeclarationOrderAndLimit(t *testing.T) {
	text := testutil.Unindent(`
		parameters:
		  - name: a1
		  - name: a2
		  - name: a3
		  - name: a4
		  - name: a5
		  - name: a6
		install:
		  - exec:
		      command: "{{ bundle.parameters.a0 }}"
	`)
	doc := parse(t, text)
	diags := Lint(doc)
	require.Len(t, diags, 1)

	fixes := Fixes(diags[0], doc)

	var titles []string
	for _, f := range fixes {
		titles = append(titles, f.Title)
	}
	assert.Equal(t, []string{
		"Change to bundle.parameters.a1",
		"Change to bundle.parameters.a2",
		"Change to bundle.parameters.a3",
		"Change to bundle.parameters.a4",
		"Change to bundle.parameters.a5",
	}, titles)
}

func TestFixes_OnlyForNoDefinition(t *testing.T) {
	doc := parse(t, testutil.SampleManifest)
	d := Diagnostic{Kind: KindDefinitionNotAvailable, Reference: "bundle.outputs.ip"}
	assert.Nil(t, Fixes(d, doc))
}

func TestWriteText(t *testing.T) {
	text := "install:\n  - exec:\n      command: \"{{ bundle.parameters.missing }}\"\n"
	doc := parse(t, text)
	diags := Lint(doc)

	hclDiags := ToHCL("porter.yaml", doc, diags)
	require.Len(t, hclDiags, 1)
	assert.Equal(t, hcl.DiagError, hclDiags[0].Severity)
	assert.Equal(t, hcl.Pos{Line: 3, Column: 20, Byte: 38}, hclDiags[0].Subject.Start)

	var out bytes.Buffer
	require.NoError(t, WriteText(&out, "porter.yaml", doc, diags, 0, false))
	assert.Contains(t, out.String(), "Cannot find definition for bundle.parameters.missing")
	assert.Contains(t, out.String(), "porter.yaml line 3")
}
