// Package yamltree turns YAML text into a small, untyped node tree whose
// nodes carry exact byte extents into the source. It sits between
// gopkg.in/yaml.v3, which only reports start marks, and the manifest
// projection, which needs precise ranges for editor features.
//
// # Node kinds
//
// The tree is a closed set of node kinds:
//
//   - Map: a mapping collection (the document root of a manifest is one).
//   - Mapping: a single key/value pair inside a Map.
//   - Scalar: any scalar, including keys.
//   - Sequence: a sequence collection.
//   - AnchorRef: an alias (`*name`) pointing at an anchored node.
//   - IncludeRef: a scalar tagged `!include`.
//
// Walk dispatches over all of them and panics on anything else, so adding a
// kind means updating Walk.
package yamltree

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Extent is a half-open byte span [Start, End) in the source text.
type Extent struct {
	Start int
	End   int
}

// Node is implemented by every node kind in this package and nothing else.
type Node interface {
	Extent() Extent
	isNode()
}

type base struct {
	ext Extent
}

func (b base) Extent() Extent { return b.ext }
func (base) isNode()          {}

// Map is a mapping collection.
type Map struct {
	base
	Mappings []*Mapping
}

// Get returns the first pair whose key is the scalar key, or nil.
func (m *Map) Get(key string) *Mapping {
	for _, p := range m.Mappings {
		if p.KeyText() == key {
			return p
		}
	}
	return nil
}

// Mapping is a key/value pair. Its extent runs from the key to the end of
// the value.
type Mapping struct {
	base
	Key   Node
	Value Node
}

// KeyText returns the key when it is a scalar, and "" otherwise.
func (m *Mapping) KeyText() string {
	if s, ok := m.Key.(*Scalar); ok {
		return s.Value
	}
	return ""
}

// Scalar is a scalar value. Value is the decoded text, while the extent
// covers the source form (quotes, block headers and all).
type Scalar struct {
	base
	Value string
	Tag   string
	Style yaml.Style
}

// IsNull reports whether the scalar is an implicit or explicit null.
func (s *Scalar) IsNull() bool {
	return s.Tag == "!!null"
}

// Sequence is a sequence collection.
type Sequence struct {
	base
	Items []Node
}

// AnchorRef is an alias to an anchored node. Target is the aliased node as
// built elsewhere in the tree, or nil when the anchor could not be resolved.
type AnchorRef struct {
	base
	Name   string
	Target Node
}

// IncludeRef is a scalar tagged `!include`; Path is its value.
type IncludeRef struct {
	base
	Path string
}

// Walk visits n and its descendants depth-first in source order. If visit
// returns false the children of that node are skipped. Aliases are not
// followed.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	switch n := n.(type) {
	case *Map:
		for _, m := range n.Mappings {
			Walk(m, visit)
		}
	case *Mapping:
		Walk(n.Key, visit)
		Walk(n.Value, visit)
	case *Sequence:
		for _, item := range n.Items {
			Walk(item, visit)
		}
	case *Scalar, *AnchorRef, *IncludeRef:
	default:
		panic(fmt.Sprintf("yamltree: unhandled node type %T", n))
	}
}
