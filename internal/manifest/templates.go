// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package manifest

import (
	"strings"
	"unicode"
)

// templateSpan holds offsets relative to the scanned string. close points
// just past the closing braces.
type templateSpan struct {
	text               string
	textStart, textEnd int
	open, close        int
}

// scanTemplates finds every `{{ ... }}` in raw, left to right. The first
// `}}` after an opening `{{` closes it; if another `{{` appears in between,
// the innermost one is the opening. Scanning resumes after the closing
// braces so adjacent templates are all found.
func scanTemplates(raw string) []templateSpan {
	var spans []templateSpan
	pos := 0
	for pos < len(raw) {
		open := strings.Index(raw[pos:], "{{")
		if open < 0 {
			break
		}
		open += pos

		closing := strings.Index(raw[open+2:], "}}")
		if closing < 0 {
			break
		}
		closing += open + 2

		if inner := strings.LastIndex(raw[open+2:closing], "{{"); inner >= 0 {
			open += 2 + inner
		}

		content := raw[open+2 : closing]
		lead := len(content) - len(strings.TrimLeftFunc(content, unicode.IsSpace))
		text := strings.TrimSpace(content)
		start := open + 2 + lead

		spans = append(spans, templateSpan{
			text:      text,
			textStart: start,
			textEnd:   start + len(text),
			open:      open,
			close:     closing + 2,
		})
		pos = closing + 2
	}
	return spans
}
