// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package manifest

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/porterlens/internal/yamltree"
)

var (
	// ErrInvalidYAML is returned when the text is not well-formed YAML.
	ErrInvalidYAML = errors.New("manifest is not valid YAML")
	// ErrRootNotMapping is returned when the document root is not a mapping.
	ErrRootNotMapping = errors.New("manifest root is not a mapping")
)

// Parse builds a Document from manifest text. A failed parse never returns
// a partial document.
func Parse(text string) (*Document, error) {
	tree, err := yamltree.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}
	root, ok := tree.Root.(*yamltree.Map)
	if !ok {
		return nil, ErrRootNotMapping
	}

	p := &projector{tree: tree}
	doc := &Document{index: tree.Index}

	for _, pair := range root.Mappings {
		key := pair.KeyText()
		switch {
		case key == "parameters":
			doc.Parameters = p.declarationGroup(pair)
		case key == "credentials":
			doc.Credentials = p.declarationGroup(pair)
		case key == "" || IsReservedKey(key):
		default:
			if seq, ok := pair.Value.(*yamltree.Sequence); ok {
				doc.Actions = append(doc.Actions, p.action(key, pair, seq))
			}
		}
	}

	doc.TemplateReferences = p.templateReferences(root)
	return doc, nil
}

// projector maps untyped tree nodes onto manifest entities.
type projector struct {
	tree *yamltree.Tree
}

func (p *projector) declarationGroup(pair *yamltree.Mapping) *DeclarationGroup {
	return &DeclarationGroup{
		StartLine: p.tree.Range(pair.Key).Start.Line,
		Entries:   p.declarations(pair.Value),
	}
}

// declarations reads a sequence of mappings with a scalar `name`. Anything
// else yields no entries.
func (p *projector) declarations(n yamltree.Node) []Declaration {
	seq, ok := n.(*yamltree.Sequence)
	if !ok {
		return nil
	}

	var decls []Declaration
	for _, item := range seq.Items {
		m, ok := item.(*yamltree.Map)
		if !ok {
			continue
		}
		namePair := m.Get("name")
		if namePair == nil {
			continue
		}
		name, ok := namePair.Value.(*yamltree.Scalar)
		if !ok || name.IsNull() || name.Value == "" {
			continue
		}
		decls = append(decls, Declaration{Name: name.Value, NameRange: p.tree.Range(name)})
	}
	return decls
}

func (p *projector) action(name string, pair *yamltree.Mapping, seq *yamltree.Sequence) Action {
	r := p.tree.Range(pair)
	a := Action{
		Name:      name,
		NameRange: p.tree.Range(pair.Key),
		StartLine: r.Start.Line,
		EndLine:   r.End.Line,
	}
	for _, item := range seq.Items {
		if step, ok := p.step(item); ok {
			a.Steps = append(a.Steps, step)
		}
	}
	return a
}

// step accepts only the single-key mapping shape ("mixin: {...}").
func (p *projector) step(item yamltree.Node) (Step, bool) {
	m, ok := item.(*yamltree.Map)
	if !ok || len(m.Mappings) != 1 {
		return Step{}, false
	}
	only := m.Mappings[0]
	r := p.tree.Range(m)
	step := Step{
		Mixin:      only.KeyText(),
		MixinRange: p.tree.Range(only.Key),
		StartLine:  r.Start.Line,
		EndLine:    r.End.Line,
	}
	if body, ok := only.Value.(*yamltree.Map); ok {
		if outputs := body.Get("outputs"); outputs != nil {
			step.Outputs = p.declarations(outputs.Value)
		}
	}
	return step, true
}

func (p *projector) templateReferences(root yamltree.Node) []TemplateReference {
	var refs []TemplateReference
	idx := p.tree.Index
	yamltree.Walk(root, func(n yamltree.Node) bool {
		switch n.(type) {
		case *yamltree.Scalar, *yamltree.IncludeRef:
			base := n.Extent().Start
			for _, s := range scanTemplates(p.tree.Raw(n)) {
				refs = append(refs, TemplateReference{
					Text:          s.text,
					TextRange:     idx.RangeOf(base+s.textStart, base+s.textEnd),
					TemplateRange: idx.RangeOf(base+s.open, base+s.close),
				})
			}
		}
		return true
	})
	return refs
}
