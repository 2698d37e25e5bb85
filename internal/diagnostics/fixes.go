package diagnostics

import (
	"sort"

	"github.com/agext/levenshtein"
	"github.com/specialistvlad/porterlens/internal/lineindex"
	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/scope"
)

const (
	maxDistance     = 10
	maxOfferedFixes = 5
)

// Fix is a proposed substitution for a diagnostic.
type Fix struct {
	Title    string         `json:"title"`
	Edit     lineindex.Edit `json:"edit"`
	Distance int            `json:"distance"`
}

// Fixes proposes up to five replacements for a porter_no_definition
// diagnostic, nearest first. Ties keep declaration order. Other kinds get
// no fixes.
func Fixes(d Diagnostic, doc *manifest.Document) []Fix {
	if d.Kind != KindNoDefinition {
		return nil
	}

	var fixes []Fix
	for _, v := range scope.UsableVariablesAt(doc, d.Range.Start.Line) {
		dist := levenshtein.Distance(d.Reference, v.Text, nil)
		if dist > maxDistance {
			continue
		}
		fixes = append(fixes, Fix{
			Title:    "Change to " + v.Text,
			Edit:     lineindex.Edit{Range: d.Range, NewText: v.Text},
			Distance: dist,
		})
	}

	sort.SliceStable(fixes, func(i, j int) bool { return fixes[i].Distance < fixes[j].Distance })
	if len(fixes) > maxOfferedFixes {
		fixes = fixes[:maxOfferedFixes]
	}
	return fixes
}
