package refactor

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/specialistvlad/porterlens/internal/lineindex"
	"github.com/specialistvlad/porterlens/internal/manifest"
	"github.com/specialistvlad/porterlens/internal/scope"
)

var (
	// ErrEmptySelection is returned when there is nothing to parameterise.
	ErrEmptySelection = errors.New("select some text first")
	// ErrSelectionOutOfRange is returned when a selection does not lie
	// within the document's text.
	ErrSelectionOutOfRange = errors.New("selection is outside the document")
)

// Parameterisation is the result of turning a literal into a parameter.
type Parameterisation struct {
	Name  string
	Edits []lineindex.Edit
}

// Parameterise declares a new parameter defaulting to the selected text and
// replaces the selection with a reference to it. The declaration goes to the
// top of the parameters section, or into a new section at the end of the
// document.
func Parameterise(doc *manifest.Document, selection lineindex.Range) (Parameterisation, error) {
	idx := doc.Index()
	if err := checkSelection(idx, selection); err != nil {
		return Parameterisation{}, err
	}
	text := idx.Slice(selection)
	if strings.TrimSpace(text) == "" {
		return Parameterisation{}, ErrEmptySelection
	}
	if strings.Contains(text, "\n") {
		return Parameterisation{}, fmt.Errorf("selection spans more than one line")
	}

	name := uniqueName(SafeName(text), doc.Parameters.Names())
	definition := fmt.Sprintf("  - name: %s\n    default: %s\n    description: TO BE WORKED OUT\n", name, text)

	var declare lineindex.Edit
	if doc.Parameters != nil {
		at := lineindex.Position{Line: doc.Parameters.StartLine + 1}
		declare = lineindex.Edit{Range: lineindex.Range{Start: at, End: at}, NewText: definition}
	} else {
		end := idx.PositionOf(len(idx.Text()))
		declare = lineindex.Edit{Range: lineindex.Range{Start: end, End: end}, NewText: "\nparameters:\n" + definition}
	}

	ref := "{{ " + scope.KindParameter.Qualify(name) + " }}"
	if !quoted(idx, selection) {
		ref = `"` + ref + `"`
	}
	replace := lineindex.Edit{Range: selection, NewText: ref}

	return Parameterisation{Name: name, Edits: []lineindex.Edit{declare, replace}}, nil
}

// SafeName camel-cases the letters and digits of s into a parameter name.
func SafeName(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	if len(words) == 0 {
		return "parameter"
	}
	var b strings.Builder
	for i, w := range words {
		w = strings.ToLower(w)
		if i > 0 {
			w = strings.ToUpper(w[:1]) + w[1:]
		}
		b.WriteString(w)
	}
	return b.String()
}

func uniqueName(name string, taken []string) string {
	used := make(map[string]bool, len(taken))
	for _, t := range taken {
		used[t] = true
	}
	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s%d", name, n)
	}
	return candidate
}

// checkSelection rejects selections that the index would otherwise clamp.
func checkSelection(idx *lineindex.Index, r lineindex.Range) error {
	for _, p := range []lineindex.Position{r.Start, r.End} {
		if p.Line < 0 || p.Line >= idx.LineCount() {
			return fmt.Errorf("%w: line %d does not exist", ErrSelectionOutOfRange, p.Line+1)
		}
		if n := len(idx.LineText(p.Line)); p.Column < 0 || p.Column > n {
			return fmt.Errorf("%w: column %d is past the end of line %d (%d characters)",
				ErrSelectionOutOfRange, p.Column+1, p.Line+1, n)
		}
	}
	if idx.OffsetOf(r.End) < idx.OffsetOf(r.Start) {
		return fmt.Errorf("%w: selection ends before it starts", ErrSelectionOutOfRange)
	}
	return nil
}

// quoted reports whether the selection sits directly inside quotes.
func quoted(idx *lineindex.Index, r lineindex.Range) bool {
	start, end := idx.OffsetOf(r.Start), idx.OffsetOf(r.End)
	text := idx.Text()
	if start == 0 || end >= len(text) {
		return false
	}
	open, closing := text[start-1], text[end]
	return (open == '"' || open == '\'') && closing == open
}
