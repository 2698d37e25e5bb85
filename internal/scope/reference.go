package scope

import "strings"

// Kind is the category segment of a bundle reference.
type Kind string

const (
	KindParameter  Kind = "parameters"
	KindCredential Kind = "credentials"
	KindOutput     Kind = "outputs"
)

// Kinds lists the categories in resolver order.
var Kinds = []Kind{KindParameter, KindCredential, KindOutput}

// Qualify returns the full reference text for name.
func (k Kind) Qualify(name string) string {
	return "bundle." + string(k) + "." + name
}

// Reference is a parsed `bundle.<kind>.<name>` expression.
type Reference struct {
	Kind Kind
	Name string
}

// String returns the reference in its dotted form.
func (r Reference) String() string {
	return r.Kind.Qualify(r.Name)
}

// ParseReference recognises exactly three dot-separated segments: "bundle",
// one of the kinds, and a non-empty name. Anything else is not a reference.
func ParseReference(text string) (Reference, bool) {
	parts := strings.Split(text, ".")
	if len(parts) != 3 || parts[0] != "bundle" || parts[2] == "" {
		return Reference{}, false
	}
	kind := Kind(parts[1])
	switch kind {
	case KindParameter, KindCredential, KindOutput:
		return Reference{Kind: kind, Name: parts[2]}, true
	}
	return Reference{}, false
}
