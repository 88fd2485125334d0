package plan

import (
	"mapper-planner/internal/analyze"
	"mapper-planner/internal/common"
	"mapper-planner/internal/diagnostic"
	"mapper-planner/internal/policy"
	"mapper-planner/internal/registry"
)

// MappingPlan is the output of planning one (mapper, plan kind) pair.
type MappingPlan struct {
	// Kind is the plan kind.
	Kind policy.Kind
	// Mapper is the name of the mapper definition.
	Mapper string
	// Source is the shape values are read from.
	Source *analyze.Shape
	// Destination is the shape being built or updated.
	Destination *analyze.Shape
	// Creation describes how the destination value is created.
	Creation CreationPlan
	// Instructions populate destination members, in order.
	Instructions []Instruction
	// Diagnostics holds what planning reported about this plan.
	Diagnostics diagnostic.Diagnostics
}

// TypePair returns "Source -> Destination" using short type names.
func (p *MappingPlan) TypePair() string {
	return shapeName(p.Source) + " -> " + shapeName(p.Destination)
}

func shapeName(s *analyze.Shape) string {
	if s == nil {
		return common.UnknownStr
	}

	return s.ID.Short()
}

// Emittable reports whether the plan can be turned into code. Plans that
// create a value need a creation method.
func (p *MappingPlan) Emittable() bool {
	if p.Kind.CreatesValue() && p.Creation.Method == CreationNone {
		return false
	}

	return !p.Diagnostics.HasErrors()
}

// InstructionFor returns the instruction populating a destination member.
func (p *MappingPlan) InstructionFor(dest string) (Instruction, bool) {
	for _, in := range p.Instructions {
		if in.Destination() == dest {
			return in, true
		}
	}

	return nil, false
}

// location scopes a diagnostic to this plan.
func (p *MappingPlan) location(member string) diagnostic.Location {
	return diagnostic.Location{
		Mapper:   p.Mapper,
		TypePair: p.Kind.String() + " " + p.TypePair(),
		Member:   member,
	}
}

// CreationMethod is how a destination value is obtained.
type CreationMethod int

const (
	// CreationNone means no usable constructor or factory was found.
	CreationNone CreationMethod = iota
	// CreationParameterless uses a public parameterless constructor.
	CreationParameterless
	// CreationParameterized uses a constructor with parameters.
	CreationParameterized
	// CreationFactory uses a static factory function.
	CreationFactory
)

// String returns a human-readable method name.
func (m CreationMethod) String() string {
	switch m {
	case CreationNone:
		return "none"
	case CreationParameterless:
		return "parameterless_constructor"
	case CreationParameterized:
		return "parameterized_constructor"
	case CreationFactory:
		return "factory_method"
	default:
		return common.UnknownStr
	}
}

// CreationPlan is the selected creation method and its parameter bindings.
type CreationPlan struct {
	Method CreationMethod
	// Candidate is the selected constructor or factory. Nil for None.
	Candidate *analyze.Method
	// Bindings are in parameter order. Parameters that are optional or
	// nullable and have no matching source member are left unbound.
	Bindings []ParameterBinding
}

// Binding returns the binding for a parameter name.
func (c *CreationPlan) Binding(param string) (*ParameterBinding, bool) {
	for i := range c.Bindings {
		if c.Bindings[i].Param.Name == param {
			return &c.Bindings[i], true
		}
	}

	return nil, false
}

// ParameterBinding says where one creation parameter gets its value.
// Exactly one of SourceMember and Override is set.
type ParameterBinding struct {
	Param analyze.Param
	// SourceMember is the source member read for the parameter.
	SourceMember string
	// Mapper converts the source member when its type differs.
	Mapper *registry.Definition
	// Override is the policy expression supplying the parameter.
	Override *policy.Expr
}

// IsOverride reports whether the parameter comes from a policy expression.
func (b *ParameterBinding) IsOverride() bool {
	return b.Override != nil
}

// InstructionKind tags an Instruction.
type InstructionKind int

const (
	InstructionSimpleMember InstructionKind = iota
	InstructionNestedObject
	InstructionCollection
	InstructionComposite
	InstructionMethodCall
	InstructionCustomExpression
)

// String returns a human-readable instruction kind.
func (k InstructionKind) String() string {
	switch k {
	case InstructionSimpleMember:
		return "simple"
	case InstructionNestedObject:
		return "nested"
	case InstructionCollection:
		return "collection"
	case InstructionComposite:
		return "composite"
	case InstructionMethodCall:
		return "method_call"
	case InstructionCustomExpression:
		return "custom"
	default:
		return common.UnknownStr
	}
}

// Instruction populates one destination member.
type Instruction interface {
	Destination() string
	Kind() InstructionKind
}

// SimpleMember copies a source member of identical type.
type SimpleMember struct {
	Source string
	Dest   string
}

func (i SimpleMember) Destination() string   { return i.Dest }
func (i SimpleMember) Kind() InstructionKind { return InstructionSimpleMember }

// NestedObject converts a source member through a registered mapper.
type NestedObject struct {
	Source string
	Dest   string
	Mapper *registry.Definition
}

func (i NestedObject) Destination() string   { return i.Dest }
func (i NestedObject) Kind() InstructionKind { return InstructionNestedObject }

// Collection converts every element of a source sequence through a mapper.
type Collection struct {
	Source        string
	Dest          string
	ElementMapper *registry.Definition
}

func (i Collection) Destination() string   { return i.Dest }
func (i Collection) Kind() InstructionKind { return InstructionCollection }

// Composite formats several source members into one destination member.
type Composite struct {
	Sources []string
	Format  string
	Dest    string
}

func (i Composite) Destination() string   { return i.Dest }
func (i Composite) Kind() InstructionKind { return InstructionComposite }

// MethodCall passes source members to a method and stores its result.
type MethodCall struct {
	Sources []string
	Method  string
	Dest    string
}

func (i MethodCall) Destination() string   { return i.Dest }
func (i MethodCall) Kind() InstructionKind { return InstructionMethodCall }

// CustomExpression assigns a policy expression.
type CustomExpression struct {
	Expr policy.Expr
	Dest string
}

func (i CustomExpression) Destination() string   { return i.Dest }
func (i CustomExpression) Kind() InstructionKind { return InstructionCustomExpression }
