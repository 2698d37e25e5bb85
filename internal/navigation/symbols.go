package navigation

import (
	"github.com/specialistvlad/porterlens/internal/manifest"
)

// SymbolKind classifies an outline entry.
type SymbolKind string

const (
	SymbolParameter  SymbolKind = "parameter"
	SymbolCredential SymbolKind = "credential"
	SymbolAction     SymbolKind = "action"
	SymbolStep       SymbolKind = "step"
	SymbolOutput     SymbolKind = "output"
)

// Symbol is one outline entry.
type Symbol struct {
	Name     string         `json:"name"`
	Kind     SymbolKind     `json:"kind"`
	Range    manifest.Range `json:"range"`
	Children []Symbol       `json:"children,omitempty"`
}

// Symbols returns the document outline: parameters, credentials, then
// actions with their steps and outputs, in source order.
func Symbols(doc *manifest.Document) []Symbol {
	var out []Symbol
	if doc.Parameters != nil {
		for _, d := range doc.Parameters.Entries {
			out = append(out, Symbol{Name: d.Name, Kind: SymbolParameter, Range: d.NameRange})
		}
	}
	if doc.Credentials != nil {
		for _, d := range doc.Credentials.Entries {
			out = append(out, Symbol{Name: d.Name, Kind: SymbolCredential, Range: d.NameRange})
		}
	}
	for _, a := range doc.Actions {
		action := Symbol{Name: a.Name, Kind: SymbolAction, Range: a.NameRange}
		for _, s := range a.Steps {
			step := Symbol{Name: s.Mixin, Kind: SymbolStep, Range: s.MixinRange}
			for _, o := range s.Outputs {
				step.Children = append(step.Children, Symbol{Name: o.Name, Kind: SymbolOutput, Range: o.NameRange})
			}
			action.Children = append(action.Children, step)
		}
		out = append(out, action)
	}
	return out
}
