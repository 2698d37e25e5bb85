// Package credentials models Porter credential sets and resolves their
// values through pluggable, per-kind resolvers.
//
// A credential set file looks like:
//
//	name: mycreds
//	credentials:
//	  - name: kubeconfig
//	    source:
//	      path: ~/.kube/config
//	  - name: token
//	    source:
//	      env: GITHUB_TOKEN
//
// Resolution never reads the outside world directly: environment, files and
// shell commands go through the collaborators in Host.
package credentials

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceKind tags a credential source.
type SourceKind string

const (
	SourceValue   SourceKind = "value"
	SourceEnv     SourceKind = "env"
	SourcePath    SourceKind = "path"
	SourceCommand SourceKind = "command"
)

var knownKinds = map[SourceKind]bool{
	SourceValue:   true,
	SourceEnv:     true,
	SourcePath:    true,
	SourceCommand: true,
}

// Source says where a credential value comes from. Value is the literal,
// the variable name, the file path or the command line depending on Kind.
type Source struct {
	Kind  SourceKind
	Value string
}

func (s Source) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.Value)
}

// UnmarshalYAML accepts a mapping with exactly one known key.
func (s *Source) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("credential source must be a mapping of strings: %w", err)
	}
	if len(raw) != 1 {
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Errorf("credential source must have exactly one of value, env, path or command, got [%s]", strings.Join(keys, ", "))
	}
	for k, v := range raw {
		kind := SourceKind(k)
		if !knownKinds[kind] {
			return fmt.Errorf("unknown credential source %q", k)
		}
		s.Kind, s.Value = kind, v
	}
	return nil
}

// MarshalYAML writes the source back in its single-key form.
func (s Source) MarshalYAML() (any, error) {
	return map[string]string{string(s.Kind): s.Value}, nil
}

// Credential is one named entry of a set.
type Credential struct {
	Name   string `yaml:"name" json:"name"`
	Source Source `yaml:"source" json:"source"`
}

// Set is a named credential set.
type Set struct {
	Name        string       `yaml:"name" json:"name"`
	Credentials []Credential `yaml:"credentials" json:"credentials"`
}
