// Package scope decides which bundle variables a template may reference at
// a given line. Parameters and credentials are visible everywhere; a step
// output is visible only after its step, up to the end of the same action.
package scope

import (
	"github.com/specialistvlad/porterlens/internal/manifest"
)

// Window is an inclusive line range.
type Window struct {
	From int
	To   int
}

// UsableVariable is a declared symbol in its fully-qualified reference form.
type UsableVariable struct {
	Text        string
	Kind        Kind
	Declaration manifest.Declaration
	// Window is nil for globally visible variables.
	Window *Window
}

// UsableAt reports whether the variable may be referenced on line.
func (v UsableVariable) UsableAt(line int) bool {
	if v.Window == nil {
		return true
	}
	return v.Window.From <= line && line <= v.Window.To
}

// UsableVariables lists every declared variable: parameters, then
// credentials, then outputs per action per step, each in declaration order.
func UsableVariables(doc *manifest.Document) []UsableVariable {
	var vars []UsableVariable
	if doc.Parameters != nil {
		for _, d := range doc.Parameters.Entries {
			vars = append(vars, UsableVariable{Text: KindParameter.Qualify(d.Name), Kind: KindParameter, Declaration: d})
		}
	}
	if doc.Credentials != nil {
		for _, d := range doc.Credentials.Entries {
			vars = append(vars, UsableVariable{Text: KindCredential.Qualify(d.Name), Kind: KindCredential, Declaration: d})
		}
	}
	for _, a := range doc.Actions {
		for _, s := range a.Steps {
			for _, d := range s.Outputs {
				vars = append(vars, UsableVariable{
					Text:        KindOutput.Qualify(d.Name),
					Kind:        KindOutput,
					Declaration: d,
					Window:      &Window{From: s.EndLine + 1, To: a.EndLine},
				})
			}
		}
	}
	return vars
}

// UsableVariablesAt filters UsableVariables down to those usable on line.
func UsableVariablesAt(doc *manifest.Document, line int) []UsableVariable {
	var usable []UsableVariable
	for _, v := range UsableVariables(doc) {
		if v.UsableAt(line) {
			usable = append(usable, v)
		}
	}
	return usable
}

// Matching returns the variables whose text equals text exactly.
func Matching(vars []UsableVariable, text string) []UsableVariable {
	var out []UsableVariable
	for _, v := range vars {
		if v.Text == text {
			out = append(out, v)
		}
	}
	return out
}
