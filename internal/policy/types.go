package policy

import (
	"sort"
	"strconv"
	"strings"

	"mapper-planner/internal/common"
)

// Kind is the plan kind a policy applies to.
type Kind int

const (
	// KindCreation builds a new destination value ("Build").
	KindCreation Kind = iota
	// KindModification applies source data onto an existing value ("Apply").
	KindModification
	// KindProjection projects a source value into a new value ("Project").
	KindProjection
)

// Kinds lists every plan kind.
func Kinds() []Kind {
	return []Kind{KindProjection, KindCreation, KindModification}
}

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindCreation:
		return "creation"
	case KindModification:
		return "modification"
	case KindProjection:
		return "projection"
	default:
		return common.UnknownStr
	}
}

// EntryPoint returns the root call name of chains configuring this kind.
func (k Kind) EntryPoint() string {
	switch k {
	case KindCreation:
		return EntryCreation
	case KindModification:
		return EntryModification
	case KindProjection:
		return EntryProjection
	default:
		return ""
	}
}

// CreatesValue reports whether plans of this kind construct a new value.
func (k Kind) CreatesValue() bool {
	return k == KindCreation || k == KindProjection
}

// KindForEntryPoint maps a root call name back to its kind.
func KindForEntryPoint(name string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.EntryPoint() == name {
			return k, true
		}
	}

	return 0, false
}

// Strategy is one resolution technique. Values are stable.
type Strategy int

const (
	UseConstructors    Strategy = 1
	UseStaticFactories Strategy = 2
	UseSetters         Strategy = 3
)

// String returns the strategy name as written in policies.
func (s Strategy) String() string {
	switch s {
	case UseConstructors:
		return "UseConstructors"
	case UseStaticFactories:
		return "UseStaticFactories"
	case UseSetters:
		return "UseSetters"
	default:
		return common.UnknownStr
	}
}

// IsValid reports whether s is a known strategy.
func (s Strategy) IsValid() bool {
	return s >= UseConstructors && s <= UseSetters
}

// IsStructural reports whether the strategy selects a creation method.
func (s Strategy) IsStructural() bool {
	return s == UseConstructors || s == UseStaticFactories
}

// ParseStrategy accepts a strategy name (case-insensitive, with or without
// the "Use" prefix) or its numeric value.
func ParseStrategy(s string) (Strategy, bool) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		st := Strategy(n)
		return st, st.IsValid()
	}

	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "use")
	name = strings.TrimPrefix(name, "public")

	switch name {
	case "constructors":
		return UseConstructors, true
	case "staticfactories", "factories":
		return UseStaticFactories, true
	case "setters":
		return UseSetters, true
	default:
		return 0, false
	}
}

// Expr references a host expression. The planner never looks inside it.
type Expr struct {
	Text string
}

// IsZero reports whether the expression is empty.
func (e Expr) IsZero() bool {
	return strings.TrimSpace(e.Text) == ""
}

// Descriptor is the normalized policy for one (mapper, plan kind).
type Descriptor struct {
	// Strategies is the ordered list of techniques to try.
	Strategies []Strategy
	// MemberOverrides maps destination member names to expressions.
	MemberOverrides map[string]Expr
	// ParameterOverrides maps lowercased parameter names to expressions.
	ParameterOverrides map[string]Expr
	// Ignored holds member names excluded from member matching.
	Ignored map[string]struct{}
}

// NewDescriptor returns an empty descriptor with initialized maps.
func NewDescriptor() Descriptor {
	return Descriptor{
		MemberOverrides:    make(map[string]Expr),
		ParameterOverrides: make(map[string]Expr),
		Ignored:            make(map[string]struct{}),
	}
}

// Default returns the zero-configuration policy of a plan kind.
func Default(kind Kind) Descriptor {
	d := NewDescriptor()

	switch kind {
	case KindCreation:
		d.Strategies = CreationDefaults()
	case KindModification:
		d.Strategies = []Strategy{UseSetters}
		d.Ignored[IDMember] = struct{}{}
	case KindProjection:
		d.Strategies = []Strategy{UseConstructors, UseSetters}
	}

	return d
}

// CreationDefaults returns the default Creation strategy order.
func CreationDefaults() []Strategy {
	return []Strategy{UseConstructors, UseStaticFactories, UseSetters}
}

// IDMember is the member name IgnoreId() ignores.
const IDMember = "Id"

// IsIgnored reports whether a member is ignored, comparing names
// case-insensitively.
func (d *Descriptor) IsIgnored(name string) bool {
	if _, ok := d.Ignored[name]; ok {
		return true
	}

	for ignored := range d.Ignored {
		if strings.EqualFold(ignored, name) {
			return true
		}
	}

	return false
}

// ParameterOverride returns the override for a parameter, matched
// case-insensitively.
func (d *Descriptor) ParameterOverride(name string) (Expr, bool) {
	e, ok := d.ParameterOverrides[strings.ToLower(name)]
	return e, ok
}

// IgnoredNames returns the ignore set sorted.
func (d *Descriptor) IgnoredNames() []string {
	names := make([]string, 0, len(d.Ignored))
	for n := range d.Ignored {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// MemberOverrideNames returns overridden destination members sorted.
func (d *Descriptor) MemberOverrideNames() []string {
	names := make([]string, 0, len(d.MemberOverrides))
	for n := range d.MemberOverrides {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// WithIgnored returns a copy whose ignore set also contains names.
func (d Descriptor) WithIgnored(names ...string) Descriptor {
	c := d.Clone()
	for _, n := range names {
		c.Ignored[n] = struct{}{}
	}

	return c
}

// Clone returns a deep copy.
func (d Descriptor) Clone() Descriptor {
	c := NewDescriptor()
	c.Strategies = append([]Strategy(nil), d.Strategies...)

	for k, v := range d.MemberOverrides {
		c.MemberOverrides[k] = v
	}

	for k, v := range d.ParameterOverrides {
		c.ParameterOverrides[k] = v
	}

	for k := range d.Ignored {
		c.Ignored[k] = struct{}{}
	}

	return c
}
