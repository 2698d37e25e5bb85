package refactor

import (
	"fmt"

	"github.com/specialistvlad/porterlens/internal/lineindex"
	"github.com/specialistvlad/porterlens/internal/manifest"
)

// StepInsertLine returns the line a new step for action should be inserted
// at, given the cursor line. Inside a step that is not the last one, the new
// step goes before the following step; otherwise after the action's last
// step. A missing action means the end of the document.
func StepInsertLine(doc *manifest.Document, action string, cursorLine int) int {
	a := doc.Action(action)
	if a == nil {
		return doc.Index().LineCount()
	}
	if len(a.Steps) == 0 {
		return a.StartLine + 1
	}

	i := a.StepAt(cursorLine)
	if i < 0 || i == len(a.Steps)-1 {
		last := 0
		for _, s := range a.Steps {
			last = max(last, s.EndLine)
		}
		return last + 1
	}
	return a.Steps[i+1].StartLine
}

// InsertStep returns the edit adding a skeleton step for mixin to action,
// creating the action at the end of the document when it does not exist.
func InsertStep(doc *manifest.Document, action, mixin string, cursorLine int) lineindex.Edit {
	step := fmt.Sprintf("  - %s:\n      description: \"TO BE WORKED OUT\"\n", mixin)

	idx := doc.Index()
	line := StepInsertLine(doc, action, cursorLine)
	at := lineindex.Position{Line: line}
	if line >= idx.LineCount() {
		at = idx.PositionOf(len(idx.Text()))
	}

	var prefix string
	if at.Column > 0 {
		prefix = "\n"
	}
	if doc.Action(action) == nil {
		prefix += action + ":\n"
	}
	return lineindex.Edit{Range: lineindex.Range{Start: at, End: at}, NewText: prefix + step}
}
