// Package navigation answers editor queries over a parsed manifest: go to
// definition, find references, template completion and the outline.
package navigation

import (
	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/scope"
)

// Definition returns the declaration referenced by the template under pos.
// Outputs resolve within the action containing the reference, preferring
// the closest step that ends before it.
func Definition(doc *manifest.Document, pos manifest.Position) (manifest.Declaration, bool) {
	ref, tmpl, ok := referenceAt(doc, pos)
	if !ok {
		return manifest.Declaration{}, false
	}

	switch ref.Kind {
	case scope.KindParameter:
		return findDeclaration(doc.Parameters, ref.Name)
	case scope.KindCredential:
		return findDeclaration(doc.Credentials, ref.Name)
	}

	action := doc.ActionAt(tmpl.TextRange.Start.Line)
	if action == nil {
		return manifest.Declaration{}, false
	}
	line := tmpl.TextRange.Start.Line
	var fallback *manifest.Declaration
	for i := len(action.Steps) - 1; i >= 0; i-- {
		step := action.Steps[i]
		for j := range step.Outputs {
			if step.Outputs[j].Name != ref.Name {
				continue
			}
			if step.EndLine < line {
				return step.Outputs[j], true
			}
			if fallback == nil {
				fallback = &step.Outputs[j]
			}
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return manifest.Declaration{}, false
}

// References returns the text ranges of every template naming the
// declaration under pos. Output references are only searched for inside the
// action that declares the output.
func References(doc *manifest.Document, pos manifest.Position) []manifest.Range {
	text, action, ok := declarationAt(doc, pos)
	if !ok {
		return nil
	}

	var ranges []manifest.Range
	for _, ref := range doc.TemplateReferences {
		if ref.Text != text {
			continue
		}
		if action != nil && !action.ContainsLine(ref.TextRange.Start.Line) {
			continue
		}
		ranges = append(ranges, ref.TextRange)
	}
	return ranges
}

func referenceAt(doc *manifest.Document, pos manifest.Position) (scope.Reference, manifest.TemplateReference, bool) {
	for _, tmpl := range doc.TemplateReferences {
		if !tmpl.TemplateRange.Contains(pos) {
			continue
		}
		ref, ok := scope.ParseReference(tmpl.Text)
		return ref, tmpl, ok
	}
	return scope.Reference{}, manifest.TemplateReference{}, false
}

func findDeclaration(g *manifest.DeclarationGroup, name string) (manifest.Declaration, bool) {
	if g == nil {
		return manifest.Declaration{}, false
	}
	for _, d := range g.Entries {
		if d.Name == name {
			return d, true
		}
	}
	return manifest.Declaration{}, false
}

// declarationAt returns the reference text of the declaration whose name is
// under pos and, for outputs, the owning action.
func declarationAt(doc *manifest.Document, pos manifest.Position) (string, *manifest.Action, bool) {
	groups := []struct {
		kind  scope.Kind
		group *manifest.DeclarationGroup
	}{
		{scope.KindParameter, doc.Parameters},
		{scope.KindCredential, doc.Credentials},
	}
	for _, g := range groups {
		if g.group == nil {
			continue
		}
		for _, d := range g.group.Entries {
			if d.NameRange.Contains(pos) {
				return g.kind.Qualify(d.Name), nil, true
			}
		}
	}

	for i := range doc.Actions {
		a := &doc.Actions[i]
		for _, s := range a.Steps {
			for _, o := range s.Outputs {
				if o.NameRange.Contains(pos) {
					return scope.KindOutput.Qualify(o.Name), a, true
				}
			}
		}
	}
	return "", nil, false
}
