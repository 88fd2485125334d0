package analyze

import (
	"strings"
)

// TypeStringer renders shapes as short, readable summaries for listings.
type TypeStringer struct{}

// Members returns "Name Type" pairs, annotating non-settable members.
// Examples:
//   - "Name string"
//   - "Price *domain.Money (readonly)"
func (TypeStringer) Members(s *Shape) string {
	parts := make([]string, 0, len(s.Members))

	for _, m := range s.Members {
		part := m.Name + " " + m.Type.String()
		if m.Mutability != Settable {
			part += " (" + m.Mutability.String() + ")"
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, ", ")
}

// Creation lists constructors and factories, marking private ones and the
// primary constructor of value shapes.
func (TypeStringer) Creation(s *Shape) string {
	var parts []string

	for i := range s.Constructors {
		c := &s.Constructors[i]

		part := "ctor " + c.Signature()
		if !c.IsPublic() {
			part = "private " + part
		}

		if s.IsValue && i == s.Primary {
			part += " [primary]"
		}

		parts = append(parts, part)
	}

	for i := range s.Factories {
		f := &s.Factories[i]

		part := "factory " + f.Signature()
		if !f.IsPublic() {
			part = "private " + part
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, "; ")
}

// Kind returns "value", "dto of X" or "class".
func (TypeStringer) Kind(s *Shape) string {
	switch {
	case s.IsValue:
		return "value"
	case s.DtoOf != nil:
		return "dto of " + s.DtoOf.Short()
	default:
		return "class"
	}
}
