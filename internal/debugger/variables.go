package debugger

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/porterlens/internal/credentials"
)

// NotYetKnown is shown for an output with no simulated value.
const NotYetKnown = "<not yet known>"

// Variable is one entry of a variables view.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	// Err is set when the value could not be produced; Value then holds a
	// message for display.
	Err error `json:"-"`
}

// Parameters returns the launch parameters sorted by name.
func (r *Runtime) Parameters() []Variable {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.inputs.Parameters))
	for name := range r.inputs.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]Variable, 0, len(names))
	for _, name := range names {
		vars = append(vars, Variable{Name: name, Value: r.inputs.Parameters[name]})
	}
	return vars
}

// Credentials resolves every credential of the launch credential set. A
// credential that fails to resolve is reported in place rather than failing
// the whole view; only a missing set is an error.
func (r *Runtime) Credentials(ctx context.Context) ([]Variable, error) {
	creds, err := r.boundCredentials(ctx)
	if err != nil {
		return nil, err
	}
	vars := make([]Variable, 0, len(creds))
	for _, c := range creds {
		v, err := c.Value(ctx)
		if err != nil {
			vars = append(vars, Variable{Name: c.Name, Value: evaluationFailed(err), Err: err})
			continue
		}
		vars = append(vars, Variable{Name: c.Name, Value: v})
	}
	return vars, nil
}

// Outputs returns the outputs of steps starting before the current line.
func (r *Runtime) Outputs() []Variable {
	r.mu.Lock()
	defer r.mu.Unlock()

	var vars []Variable
	for _, name := range r.producedOutputsLocked() {
		v, ok := r.inputs.Outputs[name]
		if !ok {
			v = NotYetKnown
		}
		vars = append(vars, Variable{Name: name, Value: v})
	}
	return vars
}

func (r *Runtime) producedOutputsLocked() []string {
	action := r.activeActionLocked()
	if action == nil {
		return nil
	}
	var names []string
	for _, s := range action.Steps {
		if s.StartLine >= r.currentLine {
			continue
		}
		for _, o := range s.Outputs {
			names = append(names, o.Name)
		}
	}
	return names
}

// boundCredentials snapshots the bound credentials so they can be resolved
// without holding the runtime lock.
func (r *Runtime) boundCredentials(ctx context.Context) ([]*credentials.Lazy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.boundCredentialsLocked(ctx)
}

func (r *Runtime) boundCredentialsLocked(ctx context.Context) ([]*credentials.Lazy, error) {
	if r.creds != nil || r.inputs.CredentialSet == "" {
		return r.creds, nil
	}
	if r.sets == nil || r.registry == nil {
		return nil, fmt.Errorf("credential set %q: no credential store configured", r.inputs.CredentialSet)
	}
	set, err := r.sets.Get(ctx, r.inputs.CredentialSet)
	if err != nil {
		return nil, err
	}
	r.creds = credentials.Bind(r.registry, set)
	r.logger.Debug("Bound credential set.", "set", set.Name, "count", len(r.creds))
	return r.creds, nil
}

func evaluationFailed(err error) string {
	return "evaluation failed: " + err.Error()
}
