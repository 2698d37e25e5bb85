// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package manifest

import (
	"strings"

	"github.com/specialistvlad/porterlens/internal/lineindex"
)

// Position and Range are re-exported so callers rarely need lineindex.
type (
	Position = lineindex.Position
	Range    = lineindex.Range
)

// BundlePrefix starts every template reference the resolver cares about.
const BundlePrefix = "bundle."

// reservedKeys are top-level keys never treated as actions.
var reservedKeys = map[string]bool{
	"mixins":      true,
	"parameters":  true,
	"credentials": true,
}

// IsReservedKey reports whether key is excluded from action detection.
func IsReservedKey(key string) bool {
	return reservedKeys[key]
}

// Document is the parsed model of a single manifest.
type Document struct {
	Parameters         *DeclarationGroup
	Credentials        *DeclarationGroup
	Actions            []Action
	TemplateReferences []TemplateReference

	index *lineindex.Index
}

// Index returns the line index of the text the document was parsed from.
func (d *Document) Index() *lineindex.Index {
	return d.index
}

// Action returns the action with the given name, or nil.
func (d *Document) Action(name string) *Action {
	for i := range d.Actions {
		if d.Actions[i].Name == name {
			return &d.Actions[i]
		}
	}
	return nil
}

// ActionAt returns the action whose block contains line, or nil.
func (d *Document) ActionAt(line int) *Action {
	for i := range d.Actions {
		if d.Actions[i].ContainsLine(line) {
			return &d.Actions[i]
		}
	}
	return nil
}

// DeclarationGroup is the `parameters:` or `credentials:` section.
type DeclarationGroup struct {
	// StartLine is the line of the section key.
	StartLine int
	Entries   []Declaration
}

// Names returns the declared names in order.
func (g *DeclarationGroup) Names() []string {
	if g == nil {
		return nil
	}
	names := make([]string, 0, len(g.Entries))
	for _, e := range g.Entries {
		names = append(names, e.Name)
	}
	return names
}

// Declaration is a named definition located by its `name:` value.
type Declaration struct {
	Name      string
	NameRange Range
}

// Action is a named, ordered list of steps.
type Action struct {
	Name      string
	NameRange Range
	StartLine int
	EndLine   int
	Steps     []Step
}

// ContainsLine reports whether line falls inside the action block.
func (a *Action) ContainsLine(line int) bool {
	return a.StartLine <= line && line <= a.EndLine
}

// StepAt returns the index of the step containing line, or -1.
func (a *Action) StepAt(line int) int {
	for i, s := range a.Steps {
		if s.StartLine <= line && line <= s.EndLine {
			return i
		}
	}
	return -1
}

// Step is one mixin invocation inside an action.
type Step struct {
	// Mixin is the step's only key, e.g. "exec" or "helm3".
	Mixin      string
	MixinRange Range
	StartLine  int
	EndLine    int
	Outputs    []Declaration
}

// TemplateReference is one `{{ ... }}` occurrence.
type TemplateReference struct {
	Text          string
	TextRange     Range
	TemplateRange Range
}

// IsBundleReference reports whether the reference is one the scope
// resolver understands.
func (r TemplateReference) IsBundleReference() bool {
	return strings.HasPrefix(r.Text, BundlePrefix)
}
