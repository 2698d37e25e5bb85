// Package diagnostics checks every bundle template reference in a manifest
// against the scope resolver and proposes nearest-match substitutions for
// references that resolve to nothing.
package diagnostics

import (
	"fmt"

	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/scope"
)

// Kind is the machine-readable code of a diagnostic. Quick-fix matchers
// filter on it, so the values are stable.
type Kind string

const (
	KindNoDefinition           Kind = "porter_no_definition"
	KindDefinitionNotAvailable Kind = "porter_definition_not_available"
)

// Severity mirrors the usual editor severities.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// MarshalText writes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is a single finding. Reference holds the faulty text.
type Diagnostic struct {
	Range     manifest.Range `json:"range"`
	Message   string         `json:"message"`
	Severity  Severity       `json:"severity"`
	Kind      Kind           `json:"kind"`
	Reference string         `json:"reference"`
}

// Lint reports undeclared and out-of-scope bundle references in document
// order.
func Lint(doc *manifest.Document) []Diagnostic {
	vars := scope.UsableVariables(doc)

	var diags []Diagnostic
	for _, ref := range doc.TemplateReferences {
		if !ref.IsBundleReference() {
			continue
		}

		matches := scope.Matching(vars, ref.Text)
		if len(matches) == 0 {
			diags = append(diags, Diagnostic{
				Range:     ref.TextRange,
				Message:   fmt.Sprintf("Cannot find definition for %s", ref.Text),
				Severity:  SeverityError,
				Kind:      KindNoDefinition,
				Reference: ref.Text,
			})
			continue
		}

		line := ref.TextRange.Start.Line
		usable := false
		for _, v := range matches {
			if v.UsableAt(line) {
				usable = true
				break
			}
		}
		if !usable {
			diags = append(diags, Diagnostic{
				Range:     ref.TextRange,
				Message:   fmt.Sprintf("Cannot use %s here - check where it is defined", ref.Text),
				Severity:  SeverityError,
				Kind:      KindDefinitionNotAvailable,
				Reference: ref.Text,
			})
		}
	}
	return diags
}
