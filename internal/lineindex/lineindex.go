// Package lineindex maps byte offsets in a text to zero-based (line, column)
// positions and back. It is the foundation for every source range reported by
// the manifest model.
//
// Columns count bytes from the start of the line.
package lineindex

import (
	"sort"
	"unicode/utf8"
)

// Position is a zero-based location in a text.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Before reports whether p comes strictly before o.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// Range is a half-open span [Start, End) of a text.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether pos lies within r, inclusive of both ends so a
// cursor placed right after the last character still counts.
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && !r.End.Before(pos)
}

// Index holds the line-start table for a single text.
type Index struct {
	text       string
	lineStarts []int
}

// New builds the index for text. Lines are separated by '\n'; a trailing
// '\r' stays part of its line.
func New(text string) *Index {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, lineStarts: starts}
}

// Text returns the indexed text.
func (x *Index) Text() string { return x.text }

// LineCount returns the number of lines, counting a final empty line after a
// trailing newline.
func (x *Index) LineCount() int { return len(x.lineStarts) }

// LineOf returns the line containing offset. Negative offsets map to line 0
// and offsets past the end map to the last line.
func (x *Index) LineOf(offset int) int {
	// First start strictly greater than offset, minus one.
	i := sort.Search(len(x.lineStarts), func(i int) bool { return x.lineStarts[i] > offset })
	if i == 0 {
		return 0
	}
	return i - 1
}

// PositionOf converts a byte offset into a Position.
func (x *Index) PositionOf(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(x.text) {
		offset = len(x.text)
	}
	line := x.LineOf(offset)
	return Position{Line: line, Column: offset - x.lineStarts[line]}
}

// OffsetOf converts a Position back to a byte offset, clamped to the text.
func (x *Index) OffsetOf(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(x.lineStarts) {
		return len(x.text)
	}
	start := x.lineStarts[pos.Line]
	end := x.lineEnd(pos.Line)
	off := start + pos.Column
	if off > end {
		return end
	}
	if off < start {
		return start
	}
	return off
}

// OffsetAtRune converts a line and a column counted in runes, as reported by
// YAML parsers, into a byte offset.
func (x *Index) OffsetAtRune(line, runeCol int) int {
	if line < 0 {
		return 0
	}
	if line >= len(x.lineStarts) {
		return len(x.text)
	}
	off := x.lineStarts[line]
	end := x.lineEnd(line)
	for n := 0; n < runeCol && off < end; n++ {
		_, size := utf8.DecodeRuneInString(x.text[off:])
		off += size
	}
	return off
}

// LineText returns the content of line without its line terminator.
func (x *Index) LineText(line int) string {
	if line < 0 || line >= len(x.lineStarts) {
		return ""
	}
	start, end := x.lineStarts[line], x.lineEnd(line)
	if end > start && x.text[end-1] == '\r' {
		end--
	}
	return x.text[start:end]
}

// Slice returns the text covered by r.
func (x *Index) Slice(r Range) string {
	start, end := x.OffsetOf(r.Start), x.OffsetOf(r.End)
	if end < start {
		return ""
	}
	return x.text[start:end]
}

// RangeOf converts a pair of byte offsets into a Range.
func (x *Index) RangeOf(start, end int) Range {
	return Range{Start: x.PositionOf(start), End: x.PositionOf(end)}
}

// lineEnd is the offset of the '\n' terminating line, or the text length.
func (x *Index) lineEnd(line int) int {
	if line+1 < len(x.lineStarts) {
		return x.lineStarts[line+1] - 1
	}
	return len(x.text)
}
