package lineindex

import (
	"fmt"
	"sort"
	"strings"
)

// Edit replaces the text covered by Range with NewText.
type Edit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// Apply returns the indexed text with all edits applied. Edits are applied as
// if simultaneously, so their ranges refer to the original text and must not
// overlap.
func (x *Index) Apply(edits []Edit) (string, error) {
	type span struct {
		start, end int
		text       string
	}
	spans := make([]span, 0, len(edits))
	for _, e := range edits {
		start, end := x.OffsetOf(e.Range.Start), x.OffsetOf(e.Range.End)
		if end < start {
			return "", fmt.Errorf("edit range ends before it starts: %v", e.Range)
		}
		spans = append(spans, span{start: start, end: end, text: e.NewText})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	cursor := 0
	for _, s := range spans {
		if s.start < cursor {
			return "", fmt.Errorf("overlapping edits at offset %d", s.start)
		}
		b.WriteString(x.text[cursor:s.start])
		b.WriteString(s.text)
		cursor = s.end
	}
	b.WriteString(x.text[cursor:])
	return b.String(), nil
}
