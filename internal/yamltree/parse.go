package yamltree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/porterlens/internal/lineindex"
	"gopkg.in/yaml.v3"
)

// ErrSyntax is wrapped by every error Parse returns for malformed YAML.
var ErrSyntax = errors.New("invalid YAML")

// Tree is a parsed YAML document. Root is nil for an empty document.
type Tree struct {
	Root  Node
	Index *lineindex.Index
}

// Raw returns the source text covered by n.
func (t *Tree) Raw(n Node) string {
	e := n.Extent()
	return t.Index.Text()[e.Start:e.End]
}

// Range returns the extent of n with surrounding whitespace trimmed,
// converted to line/column positions.
func (t *Tree) Range(n Node) lineindex.Range {
	e := TrimExtent(t.Index.Text(), n.Extent())
	return t.Index.RangeOf(e.Start, e.End)
}

// TrimExtent narrows e so that it neither starts nor ends on whitespace.
func TrimExtent(text string, e Extent) Extent {
	start, end := e.Start, e.End
	for start < end && isSpace(text[start]) {
		start++
	}
	for end > start && isSpace(text[end-1]) {
		end--
	}
	return Extent{Start: start, End: end}
}

// Parse parses the first YAML document in text. Only syntax errors fail;
// any well-formed document, including an empty one, yields a Tree.
func Parse(text string) (*Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	b := &builder{
		text:    text,
		idx:     lineindex.New(text),
		anchors: make(map[*yaml.Node]Node),
	}
	tree := &Tree{Index: b.idx}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		tree.Root = b.build(doc.Content[0], 0)
	}
	return tree, nil
}

// builder recovers end offsets that yaml.v3 does not report, using the
// node's start mark and the source text.
type builder struct {
	text    string
	idx     *lineindex.Index
	anchors map[*yaml.Node]Node
}

// build converts n. fallback is the offset used for empty scalars, whose
// marks point at whatever token follows them.
func (b *builder) build(n *yaml.Node, fallback int) Node {
	start := b.skipProperties(b.idx.OffsetAtRune(n.Line-1, n.Column-1))

	var out Node
	switch n.Kind {
	case yaml.MappingNode:
		out = b.buildMap(n, start)
	case yaml.SequenceNode:
		out = b.buildSequence(n, start)
	case yaml.AliasNode:
		ref := &AnchorRef{Name: n.Value, Target: b.anchors[n.Alias]}
		ref.ext = Extent{Start: start, End: min(start+1+len(n.Value), len(b.text))}
		out = ref
	case yaml.ScalarNode:
		out = b.buildScalar(n, start, fallback)
	default:
		s := &Scalar{Tag: "!!null"}
		s.ext = Extent{Start: fallback, End: fallback}
		out = s
	}

	if n.Anchor != "" {
		b.anchors[n] = out
	}
	return out
}

func (b *builder) buildMap(n *yaml.Node, start int) *Map {
	m := &Map{}
	end := start
	flow := b.at(start) == '{'

	for i := 0; i+1 < len(n.Content); i += 2 {
		key := b.build(n.Content[i], start)
		value := b.build(n.Content[i+1], key.Extent().End)

		pair := &Mapping{Key: key, Value: value}
		pair.ext = Extent{Start: key.Extent().Start, End: max(key.Extent().End, value.Extent().End)}
		m.Mappings = append(m.Mappings, pair)
		end = max(end, pair.ext.End)
	}

	if flow {
		end = b.flowEnd(start)
	}
	m.ext = Extent{Start: start, End: end}
	return m
}

func (b *builder) buildSequence(n *yaml.Node, start int) *Sequence {
	seq := &Sequence{}
	end := start + 1
	flow := b.at(start) == '['

	for _, c := range n.Content {
		item := b.build(c, end)
		seq.Items = append(seq.Items, item)
		end = max(end, item.Extent().End)
	}

	if flow {
		end = b.flowEnd(start)
	}
	seq.ext = Extent{Start: start, End: min(end, len(b.text))}
	return seq
}

func (b *builder) buildScalar(n *yaml.Node, start, fallback int) Node {
	ext := Extent{Start: fallback, End: fallback}
	if !isEmptyPlain(n) {
		ext = Extent{Start: start, End: b.scalarEnd(n, start)}
	}

	if n.Tag == "!include" {
		ref := &IncludeRef{Path: n.Value}
		ref.ext = ext
		return ref
	}

	s := &Scalar{Value: n.Value, Tag: n.ShortTag(), Style: n.Style}
	s.ext = ext
	return s
}

const quotedOrBlock = yaml.DoubleQuotedStyle | yaml.SingleQuotedStyle | yaml.LiteralStyle | yaml.FoldedStyle

func isEmptyPlain(n *yaml.Node) bool {
	return n.Value == "" && n.Style&quotedOrBlock == 0
}

func (b *builder) scalarEnd(n *yaml.Node, s int) int {
	switch {
	case n.Style&yaml.DoubleQuotedStyle != 0:
		return b.quotedEnd(s, '"')
	case n.Style&yaml.SingleQuotedStyle != 0:
		return b.quotedEnd(s, '\'')
	case n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0:
		return b.blockEnd(s)
	}
	if strings.HasPrefix(b.text[s:], n.Value) {
		return s + len(n.Value)
	}
	return b.plainEnd(s)
}

// quotedEnd returns the offset just past the quote closing the string that
// opens at s.
func (b *builder) quotedEnd(s int, quote byte) int {
	for i := s + 1; i < len(b.text); i++ {
		c := b.text[i]
		switch {
		case quote == '"' && c == '\\':
			i++
		case c == quote && quote == '\'' && i+1 < len(b.text) && b.text[i+1] == '\'':
			i++
		case c == quote:
			return i + 1
		}
	}
	return len(b.text)
}

// blockEnd finds the last content line of a `|` or `>` scalar whose header
// sits at s.
func (b *builder) blockEnd(s int) int {
	end := s
	for end < len(b.text) && !isSpace(b.text[end]) {
		end++
	}
	base := b.parentIndent(s)
	for l := b.idx.LineOf(s) + 1; l < b.idx.LineCount(); l++ {
		line := b.idx.LineText(l)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if indentOf(line) <= base {
			break
		}
		end = b.lineStart(l) + len(strings.TrimRight(line, " \t"))
	}
	return end
}

// plainEnd handles plain scalars whose decoded value differs from the
// source, which in practice means multi-line plain scalars.
func (b *builder) plainEnd(s int) int {
	first := b.idx.LineText(b.idx.LineOf(s))
	rest := first[s-b.lineStart(b.idx.LineOf(s)):]
	end := s + len(strings.TrimRight(stripComment(rest), " \t"))

	base := b.parentIndent(s)
	for l := b.idx.LineOf(s) + 1; l < b.idx.LineCount(); l++ {
		line := b.idx.LineText(l)
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || indentOf(line) <= base {
			break
		}
		end = b.lineStart(l) + len(strings.TrimRight(stripComment(line), " \t"))
	}
	return end
}

// flowEnd returns the offset just past the bracket matching the one at s.
func (b *builder) flowEnd(s int) int {
	depth := 0
	for i := s; i < len(b.text); i++ {
		c := b.text[i]
		switch {
		case c == '[' || c == '{':
			depth++
		case c == ']' || c == '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		case (c == '"' || c == '\'') && b.opensToken(i, s):
			i = b.quotedEnd(i, c) - 1
		case c == '#' && i > s && isSpace(b.text[i-1]):
			for i < len(b.text) && b.text[i] != '\n' {
				i++
			}
		}
	}
	return len(b.text)
}

// opensToken reports whether the character at i starts a new flow token.
func (b *builder) opensToken(i, s int) bool {
	if i == s {
		return true
	}
	return strings.IndexByte(" \t\r\n[{,:", b.text[i-1]) >= 0
}

// parentIndent returns the indentation a continuation line must exceed to
// belong to the scalar starting at s.
func (b *builder) parentIndent(s int) int {
	lineStart := b.lineStart(b.idx.LineOf(s))
	i, lastDash := lineStart, -1
	for i < s && (b.text[i] == ' ' || b.text[i] == '\t') {
		i++
	}
	for i < s && b.text[i] == '-' && i+1 < len(b.text) && isSpace(b.text[i+1]) {
		lastDash = i - lineStart
		i++
		for i < s && (b.text[i] == ' ' || b.text[i] == '\t') {
			i++
		}
	}
	if i == s {
		if lastDash >= 0 {
			return lastDash
		}
		return i - lineStart - 1
	}
	return i - lineStart
}

// skipProperties moves past anchors and tags preceding a node's content.
func (b *builder) skipProperties(i int) int {
	for i < len(b.text) && (b.text[i] == '&' || b.text[i] == '!') {
		for i < len(b.text) && !isSpace(b.text[i]) {
			i++
		}
		for i < len(b.text) && isSpace(b.text[i]) {
			i++
		}
	}
	return i
}

func (b *builder) lineStart(line int) int {
	return b.idx.OffsetOf(lineindex.Position{Line: line})
}

func (b *builder) at(i int) byte {
	if i < 0 || i >= len(b.text) {
		return 0
	}
	return b.text[i]
}

func indentOf(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// stripComment drops a trailing ` # comment` from a plain line.
func stripComment(line string) string {
	for i := 1; i < len(line); i++ {
		if line[i] == '#' && (line[i-1] == ' ' || line[i-1] == '\t') {
			return line[:i]
		}
	}
	return line
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
