package debugger

import (
	"context"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/porterlens/internal/scope"
	"github.com/zclconf/go-cty/cty"
)

// Result is the outcome of evaluating a console expression.
type Result struct {
	Value string `json:"value"`
	// Defined is false when the expression does not name a variable that
	// exists at the current line.
	Defined bool `json:"defined"`
}

// Evaluate resolves a `bundle.<kind>.<name>` expression against the current
// state. Index syntax such as bundle.parameters["my.name"] is accepted for
// names that are not identifiers.
func (r *Runtime) Evaluate(ctx context.Context, expr string) Result {
	expr = strings.TrimSpace(expr)
	notDefined := Result{Value: expr + " not defined"}

	trav, diags := hclsyntax.ParseTraversalAbs([]byte(expr), "console", hcl.InitialPos)
	if diags.HasErrors() {
		return notDefined
	}
	ref, ok := referenceOf(trav)
	if !ok {
		return notDefined
	}

	vars := map[string]cty.Value{}
	if ref.Kind == scope.KindCredential {
		creds, err := r.boundCredentials(ctx)
		if err != nil {
			return Result{Value: evaluationFailed(err), Defined: true}
		}
		for _, c := range creds {
			if c.Name != ref.Name {
				continue
			}
			v, err := c.Value(ctx)
			if err != nil {
				return Result{Value: evaluationFailed(err), Defined: true}
			}
			vars[c.Name] = cty.StringVal(v)
		}
	}

	r.mu.Lock()
	switch ref.Kind {
	case scope.KindParameter:
		for name, v := range r.inputs.Parameters {
			vars[name] = cty.StringVal(v)
		}
	case scope.KindOutput:
		for _, name := range r.producedOutputsLocked() {
			v, ok := r.inputs.Outputs[name]
			if !ok {
				v = NotYetKnown
			}
			vars[name] = cty.StringVal(v)
		}
	}
	r.mu.Unlock()

	evalCtx := &hcl.EvalContext{Variables: map[string]cty.Value{
		"bundle": cty.ObjectVal(map[string]cty.Value{
			string(ref.Kind): cty.ObjectVal(vars),
		}),
	}}
	val, diags := trav.TraverseAbs(evalCtx)
	if diags.HasErrors() || val.IsNull() || !val.Type().Equals(cty.String) {
		return notDefined
	}
	return Result{Value: val.AsString(), Defined: true}
}

// referenceOf accepts exactly bundle.<kind>.<name>, with the name given as
// an attribute or a string index.
func referenceOf(trav hcl.Traversal) (scope.Reference, bool) {
	if len(trav) != 3 || trav.RootName() != "bundle" {
		return scope.Reference{}, false
	}
	kindStep, ok := trav[1].(hcl.TraverseAttr)
	if !ok {
		return scope.Reference{}, false
	}

	var name string
	switch s := trav[2].(type) {
	case hcl.TraverseAttr:
		name = s.Name
	case hcl.TraverseIndex:
		if !s.Key.Type().Equals(cty.String) || s.Key.IsNull() {
			return scope.Reference{}, false
		}
		name = s.Key.AsString()
	default:
		return scope.Reference{}, false
	}
	return scope.ParseReference(scope.Kind(kindStep.Name).Qualify(name))
}

// Completions suggests the next segment for a partially typed console
// expression. Only the segment after the last dot is completed.
func (r *Runtime) Completions(ctx context.Context, text string) []string {
	text = strings.TrimSpace(text)
	parts := strings.Split(text, ".")
	last := parts[len(parts)-1]

	var candidates []string
	switch len(parts) {
	case 1:
		candidates = []string{"bundle"}
	case 2:
		if parts[0] != "bundle" {
			return nil
		}
		for _, k := range scope.Kinds {
			candidates = append(candidates, string(k))
		}
	case 3:
		if parts[0] != "bundle" {
			return nil
		}
		candidates = r.namesOf(ctx, scope.Kind(parts[1]))
	default:
		return nil
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, last) {
			out = append(out, c)
		}
	}
	return out
}

func (r *Runtime) namesOf(ctx context.Context, kind scope.Kind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	switch kind {
	case scope.KindParameter:
		for name := range r.inputs.Parameters {
			names = append(names, name)
		}
		sort.Strings(names)
	case scope.KindCredential:
		creds, err := r.boundCredentialsLocked(ctx)
		if err != nil {
			return nil
		}
		for _, c := range creds {
			names = append(names, c.Name)
		}
	case scope.KindOutput:
		names = r.producedOutputsLocked()
	}
	return names
}
