package registry

import (
	"errors"
	"fmt"

	"mapper-planner/internal/analyze"
	"mapper-planner/internal/policy"
)

var (
	// ErrDuplicateMapper is returned when two definitions share a name.
	ErrDuplicateMapper = errors.New("duplicate mapper")
	// ErrUnknownType is returned when a definition references a type the
	// catalog has no shape for.
	ErrUnknownType = errors.New("unknown type")
)

// PlaceholderSuffix is appended to a DTO type name to name its implicit
// mapper.
const PlaceholderSuffix = "Mapper"

// Definition declares a mapper between Source and Destination.
//
// Projection plans go Source -> Destination; Creation and Modification
// plans go Destination -> Source.
type Definition struct {
	Name        string
	Source      analyze.TypeID
	Destination analyze.TypeID
	// Implicit marks a synthesized placeholder.
	Implicit bool
	// Policy configures the plans of this mapper. Nil means defaults.
	Policy *policy.Config
}

// Bridges reports whether the definition maps a and b, in either order.
func (d *Definition) Bridges(a, b analyze.TypeID) bool {
	return (d.Source == a && d.Destination == b) || (d.Source == b && d.Destination == a)
}

// String returns "Name(Source -> Destination)".
func (d *Definition) String() string {
	return fmt.Sprintf("%s(%s -> %s)", d.Name, d.Source.Short(), d.Destination.Short())
}

// Snapshot is the immutable set of definitions of a run.
type Snapshot struct {
	defs []Definition
}

// NewSnapshot returns a snapshot over a copy of defs, without validation.
func NewSnapshot(defs ...Definition) *Snapshot {
	return &Snapshot{defs: append([]Definition(nil), defs...)}
}

// Definitions returns a copy of the definitions in enumeration order.
func (s *Snapshot) Definitions() []Definition {
	return append([]Definition(nil), s.defs...)
}

// Len returns the number of definitions.
func (s *Snapshot) Len() int {
	return len(s.defs)
}

// Lookup returns the first definition, in enumeration order, mapping a and
// b in either order.
func (s *Snapshot) Lookup(a, b analyze.TypeID) (*Definition, bool) {
	for i := range s.defs {
		if s.defs[i].Bridges(a, b) {
			return &s.defs[i], true
		}
	}

	return nil, false
}

// ByName returns the definition with the given name.
func (s *Snapshot) ByName(name string) (*Definition, bool) {
	for i := range s.defs {
		if s.defs[i].Name == name {
			return &s.defs[i], true
		}
	}

	return nil, false
}

// Builder assembles a Snapshot.
type Builder struct {
	catalog analyze.Catalog
	defs    []Definition
	names   map[string]struct{}
}

// NewBuilder returns a builder validating against catalog.
func NewBuilder(catalog analyze.Catalog) *Builder {
	return &Builder{
		catalog: catalog,
		names:   make(map[string]struct{}),
	}
}

// Add registers an explicit definition.
func (b *Builder) Add(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("mapper %s -> %s: empty name", def.Source, def.Destination)
	}

	if _, dup := b.names[def.Name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateMapper, def.Name)
	}

	for _, id := range []analyze.TypeID{def.Source, def.Destination} {
		if _, ok := b.catalog.Shape(id); !ok {
			return fmt.Errorf("mapper %s: %w: %s", def.Name, ErrUnknownType, id)
		}
	}

	def.Implicit = false
	b.names[def.Name] = struct{}{}
	b.defs = append(b.defs, def)

	return nil
}

// Build appends placeholders and returns the snapshot. For every catalog
// shape annotated as a DTO of another type, a placeholder named
// "<Dto>Mapper" is added unless a definition of that name exists.
// Placeholders follow the explicit definitions, in catalog ID order.
func (b *Builder) Build() *Snapshot {
	defs := append([]Definition(nil), b.defs...)

	for _, id := range b.catalog.IDs() {
		shape, ok := b.catalog.Shape(id)
		if !ok || shape.DtoOf == nil {
			continue
		}

		name := id.Name + PlaceholderSuffix
		if _, exists := b.names[name]; exists {
			continue
		}

		defs = append(defs, Definition{
			Name:        name,
			Source:      *shape.DtoOf,
			Destination: id,
			Implicit:    true,
		})
	}

	return &Snapshot{defs: defs}
}
