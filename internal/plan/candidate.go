package plan

import (
	"sort"
	"strings"

	"mapper-planner/internal/analyze"
	"mapper-planner/internal/policy"
	"mapper-planner/internal/registry"
)

// MapperLookup finds a registered mapper between two types in either
// direction. *registry.Snapshot implements it.
type MapperLookup interface {
	Lookup(a, b analyze.TypeID) (*registry.Definition, bool)
}

// CandidateResolver selects creation methods and matches members. It only
// mutates the plan it is given and never fails.
type CandidateResolver struct {
	mappers MapperLookup
}

// NewCandidateResolver creates a resolver consulting mappers.
func NewCandidateResolver(mappers MapperLookup) *CandidateResolver {
	return &CandidateResolver{mappers: mappers}
}

// request bundles the inputs shared by every resolver step.
type request struct {
	src    *analyze.Shape
	dst    *analyze.Shape
	policy *policy.Descriptor
}

// findBestConstructor resolves a constructor of the destination.
//
// A value shape with a primary constructor only considers that constructor
// and never falls back to a parameterless one. Otherwise the greatest
// satisfiable arity among public constructors wins, then a public
// parameterless constructor.
func (r *CandidateResolver) findBestConstructor(req request, p *MappingPlan) {
	if primary, ok := req.dst.PrimaryConstructor(); ok {
		r.findBestCandidate([]*analyze.Method{primary}, req, p, CreationParameterized)

		if p.Creation.Method != CreationParameterized {
			p.Creation = CreationPlan{Method: CreationNone}
		}

		return
	}

	ctors := publicMethods(req.dst.Constructors)
	if len(ctors) == 0 {
		return
	}

	if r.findBestCandidate(ctors, req, p, CreationParameterized) {
		return
	}

	for _, c := range ctors {
		if c.Arity() == 0 {
			p.Creation = CreationPlan{Method: CreationParameterless, Candidate: c}
			return
		}
	}
}

// findBestFactory resolves a public static factory returning exactly the
// destination type.
func (r *CandidateResolver) findBestFactory(req request, p *MappingPlan) {
	r.findBestCandidate(exactFactories(req.dst), req, p, CreationFactory)
}

// exactFactories lists the public static factories of s returning s.
func exactFactories(s *analyze.Shape) []*analyze.Method {
	var factories []*analyze.Method

	for _, f := range publicMethods(s.Factories) {
		if f.Static && returnsExactly(f, s.ID) {
			factories = append(factories, f)
		}
	}

	return factories
}

// returnsExactly accepts both T and *T, the two ways a Go function hands
// back a new T.
func returnsExactly(m *analyze.Method, id analyze.TypeID) bool {
	ret := m.Returns.Deref()
	return ret.Kind == analyze.TypeKindNamed && ret.ID == id
}

// findBestCandidate picks the satisfiable candidate with the most
// parameters. Zero-parameter candidates are never picked here.
func (r *CandidateResolver) findBestCandidate(
	candidates []*analyze.Method,
	req request,
	p *MappingPlan,
	method CreationMethod,
) bool {
	best := r.bestCandidate(candidates, req, true)
	if best == nil {
		return false
	}

	p.Creation = CreationPlan{
		Method:    method,
		Candidate: best,
		Bindings:  r.bind(best, req),
	}

	return true
}

// bestCandidate orders candidates with at least one parameter by arity,
// descending and stable, and returns the first one that is satisfiable
// (or simply the first one when satisfiable is false).
func (r *CandidateResolver) bestCandidate(candidates []*analyze.Method, req request, satisfiable bool) *analyze.Method {
	ordered := make([]*analyze.Method, 0, len(candidates))

	for _, c := range candidates {
		if c.Arity() > 0 {
			ordered = append(ordered, c)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Arity() > ordered[j].Arity()
	})

	for _, c := range ordered {
		if !satisfiable || r.canSatisfy(c, req) {
			return c
		}
	}

	return nil
}

// canSatisfy reports whether every parameter of m can be supplied.
func (r *CandidateResolver) canSatisfy(m *analyze.Method, req request) bool {
	for i := range m.Params {
		if !r.canSatisfyParam(&m.Params[i], req) {
			return false
		}
	}

	return true
}

// canSatisfyParam: the parameter is optional or nullable, or overridden by
// the policy, or a same-named (case-insensitive) source member has an
// identical type or a registered mapper to the parameter type.
func (r *CandidateResolver) canSatisfyParam(param *analyze.Param, req request) bool {
	if param.Optional || param.Nullable {
		return true
	}

	if _, ok := parameterOverride(param.Name, req); ok {
		return true
	}

	member, ok := req.src.FindMember(param.Name)
	if !ok {
		return false
	}

	if member.Type.Identical(param.Type) {
		return true
	}

	_, ok = r.FindMapper(member.Type, param.Type)

	return ok
}

// bind builds the parameter bindings of the selected candidate.
func (r *CandidateResolver) bind(m *analyze.Method, req request) []ParameterBinding {
	bindings := make([]ParameterBinding, 0, len(m.Params))

	for _, param := range m.Params {
		if expr, ok := parameterOverride(param.Name, req); ok {
			bindings = append(bindings, ParameterBinding{Param: param, Override: &expr})
			continue
		}

		member, ok := req.src.FindMember(param.Name)
		if !ok {
			continue
		}

		b := ParameterBinding{Param: param, SourceMember: member.Name}
		if !member.Type.Identical(param.Type) {
			b.Mapper, _ = r.FindMapper(member.Type, param.Type)
		}

		bindings = append(bindings, b)
	}

	return bindings
}

// parameterOverride returns the expression supplying a parameter: an
// explicit parameter override, else a member override on the same-named
// (case-insensitive) destination member.
func parameterOverride(name string, req request) (policy.Expr, bool) {
	if expr, ok := req.policy.ParameterOverride(name); ok {
		return expr, true
	}

	for _, member := range req.policy.MemberOverrideNames() {
		if strings.EqualFold(member, name) {
			if _, ok := req.dst.FindMember(member); ok {
				return req.policy.MemberOverrides[member], true
			}
		}
	}

	return policy.Expr{}, false
}

// mapRemainingMembers emits instructions for destination members that are
// not yet bound or instructed, not ignored and publicly settable, matching
// source members by case-insensitive name.
func (r *CandidateResolver) mapRemainingMembers(req request, p *MappingPlan) {
	mapped := alreadyMapped(p)

	for i := range req.dst.Members {
		dst := &req.dst.Members[i]

		if _, done := mapped[dst.Name]; done {
			continue
		}

		if req.policy.IsIgnored(dst.Name) || !dst.CanSet() {
			continue
		}

		src, ok := req.src.FindMember(dst.Name)
		if !ok {
			continue
		}

		if in, ok := r.memberInstruction(src, dst); ok {
			p.Instructions = append(p.Instructions, in)
			mapped[dst.Name] = struct{}{}
		}
	}
}

func (r *CandidateResolver) memberInstruction(src, dst *analyze.Member) (Instruction, bool) {
	if src.Type.Identical(dst.Type) {
		return SimpleMember{Source: src.Name, Dest: dst.Name}, true
	}

	if def, ok := r.FindMapper(src.Type, dst.Type); ok {
		return NestedObject{Source: src.Name, Dest: dst.Name, Mapper: def}, true
	}

	srcElem, sok := src.Type.ElemType()
	dstElem, dok := dst.Type.ElemType()

	if sok && dok {
		if def, ok := r.FindMapper(srcElem, dstElem); ok {
			return Collection{Source: src.Name, Dest: dst.Name, ElementMapper: def}, true
		}
	}

	return nil, false
}

// alreadyMapped collects the destination members that receive a value
// through a parameter binding, override or not, and the destinations of
// existing instructions.
func alreadyMapped(p *MappingPlan) map[string]struct{} {
	mapped := make(map[string]struct{})

	for _, b := range p.Creation.Bindings {
		if m, ok := p.Destination.FindMember(b.Param.Name); ok {
			mapped[m.Name] = struct{}{}
		}
	}

	for _, in := range p.Instructions {
		mapped[in.Destination()] = struct{}{}
	}

	return mapped
}

// FindMapper returns the first registered mapper between the types of a
// and b, in either order. A single pointer level is looked through.
func (r *CandidateResolver) FindMapper(a, b analyze.TypeRef) (*registry.Definition, bool) {
	if r.mappers == nil {
		return nil, false
	}

	ka, ok := a.MapperKey()
	if !ok {
		return nil, false
	}

	kb, ok := b.MapperKey()
	if !ok {
		return nil, false
	}

	return r.mappers.Lookup(ka, kb)
}

// boundByParameter reports whether a destination member receives its value
// through a creation parameter of the same name.
func boundByParameter(c *CreationPlan, member string) bool {
	if c.Candidate == nil {
		return false
	}

	for _, b := range c.Bindings {
		if strings.EqualFold(b.Param.Name, member) {
			return true
		}
	}

	return false
}

func publicMethods(methods []analyze.Method) []*analyze.Method {
	out := make([]*analyze.Method, 0, len(methods))

	for i := range methods {
		if methods[i].IsPublic() {
			out = append(out, &methods[i])
		}
	}

	return out
}
