package navigation

import (
	"strings"

	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/scope"
)

// TriggerCharacters are the characters after which an editor should ask
// for completions.
var TriggerCharacters = []string{"b", "."}

var categoryCandidates = []string{
	"bundle",
	"bundle.parameters",
	"bundle.credentials",
	"bundle.outputs",
}

// Completions lists completions for the template being typed before pos.
// Segments already typed up to the last '.' are pruned from each item, so
// accepting one never duplicates text. Nil means pos is not in a template.
func Completions(doc *manifest.Document, pos manifest.Position) []string {
	lineText := doc.Index().LineText(pos.Line)
	col := min(max(pos.Column, 0), len(lineText))
	before := lineText[:col]
	open := strings.LastIndex(before, "{{")
	if open < 0 {
		return nil
	}
	typed := strings.TrimSpace(before[open+2:])

	candidates := append([]string{}, categoryCandidates...)
	for _, v := range scope.UsableVariablesAt(doc, pos.Line) {
		candidates = append(candidates, v.Text)
	}

	cut := strings.LastIndex(typed, ".") + 1
	out := []string{}
	for _, c := range candidates {
		if strings.HasPrefix(c, typed) {
			out = append(out, c[cut:])
		}
	}
	return out
}
