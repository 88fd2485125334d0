package plan

import (
	"mapper-planner/internal/analyze"
	"mapper-planner/internal/diagnostic"
	"mapper-planner/internal/match"
	"mapper-planner/internal/policy"
)

// maxSuggestions bounds the "did you mean" list of a diagnostic.
const maxSuggestions = 3

// Request is one planning job.
type Request struct {
	Kind        policy.Kind
	Mapper      string
	Source      *analyze.Shape
	Destination *analyze.Shape
	// Policy is the parsed descriptor for Kind. The planner derives the
	// effective policy from it (see EffectivePolicy).
	Policy policy.Descriptor
}

// Planner runs the strategies of a policy against two shapes.
type Planner struct {
	resolver *CandidateResolver
}

// NewPlanner creates a planner consulting mappers for nested lookups.
func NewPlanner(mappers MapperLookup) *Planner {
	return &Planner{resolver: NewCandidateResolver(mappers)}
}

// EffectivePolicy applies the planner rules on top of a parsed descriptor:
// an empty strategy list becomes the Creation defaults, and Modification
// always ignores "Id".
func EffectivePolicy(kind policy.Kind, d policy.Descriptor) policy.Descriptor {
	eff := d.Clone()

	if len(eff.Strategies) == 0 {
		eff.Strategies = policy.CreationDefaults()
	}

	if kind == policy.KindModification {
		eff.Ignored[policy.IDMember] = struct{}{}
	}

	return eff
}

// Plan builds the mapping plan for req. It never fails: problems are
// reported as diagnostics on the plan.
func (pl *Planner) Plan(req Request) *MappingPlan {
	desc := EffectivePolicy(req.Kind, req.Policy)

	p := &MappingPlan{
		Kind:        req.Kind,
		Mapper:      req.Mapper,
		Source:      req.Source,
		Destination: req.Destination,
	}

	in := request{src: req.Source, dst: req.Destination, policy: &desc}

	applyMemberOverrides(in, p)

	for _, s := range desc.Strategies {
		if s.IsStructural() && creationResolved(p) {
			continue
		}

		switch s {
		case policy.UseConstructors:
			if req.Kind.CreatesValue() {
				pl.resolver.findBestConstructor(in, p)
			}
		case policy.UseStaticFactories:
			if req.Kind.CreatesValue() {
				pl.resolver.findBestFactory(in, p)
			}
		case policy.UseSetters:
			pl.resolver.mapRemainingMembers(in, p)
		}
	}

	dropBoundOverrides(p)
	pl.diagnose(in, p)

	return p
}

// dropBoundOverrides removes member overrides whose member is supplied by a
// creation parameter. The parameter binding already carries the expression.
func dropBoundOverrides(p *MappingPlan) {
	kept := p.Instructions[:0]

	for _, in := range p.Instructions {
		if _, ok := in.(CustomExpression); ok && boundByParameter(&p.Creation, in.Destination()) {
			continue
		}

		kept = append(kept, in)
	}

	p.Instructions = kept
}

// creationResolved reports whether a structural strategy already won.
// A parameterless constructor does not count: a later strategy may still
// find something better.
func creationResolved(p *MappingPlan) bool {
	return p.Creation.Method != CreationNone && p.Creation.Method != CreationParameterless
}

// applyMemberOverrides turns policy member overrides into custom
// expressions, in member name order. Overrides naming no destination member
// are dropped.
func applyMemberOverrides(in request, p *MappingPlan) {
	for _, name := range in.policy.MemberOverrideNames() {
		m, ok := in.dst.FindMember(name)
		if !ok {
			continue
		}

		p.Instructions = append(p.Instructions, CustomExpression{
			Expr: in.policy.MemberOverrides[name],
			Dest: m.Name,
		})
	}
}

func (pl *Planner) diagnose(in request, p *MappingPlan) {
	if p.Kind.CreatesValue() && p.Creation.Method == CreationNone {
		p.Diagnostics.Report(diagnostic.NoValidCreationMethod, p.location(""), in.dst.ID.Short())
		pl.explainUnsatisfied(in, p)
	}

	unused := unusedSourceMembers(in.src, p)

	for i := range in.dst.Members {
		m := &in.dst.Members[i]

		if _, ok := p.InstructionFor(m.Name); ok {
			continue
		}

		if boundByParameter(&p.Creation, m.Name) || in.policy.IsIgnored(m.Name) {
			continue
		}

		d := diagnostic.New(diagnostic.UnmappedDestinationMember, p.location(m.Name), m.Name, in.dst.ID.Short())
		p.Diagnostics.Add(d.WithSuggestions(match.Suggest(*m, unused, maxSuggestions)))
	}
}

// explainUnsatisfied reports every unsatisfiable parameter of the candidate
// that came closest: the primary constructor of a value shape, else the
// largest public constructor, else the largest factory.
func (pl *Planner) explainUnsatisfied(in request, p *MappingPlan) {
	var best *analyze.Method

	if primary, ok := in.dst.PrimaryConstructor(); ok {
		best = primary
	} else {
		best = pl.resolver.bestCandidate(publicMethods(in.dst.Constructors), in, false)
		if best == nil {
			best = pl.resolver.bestCandidate(exactFactories(in.dst), in, false)
		}
	}

	if best == nil {
		return
	}

	names := in.src.MemberNames()

	for i := range best.Params {
		param := &best.Params[i]
		if pl.resolver.canSatisfyParam(param, in) {
			continue
		}

		d := diagnostic.New(diagnostic.UnmappableConstructorParameter, p.location(param.Name), param.Name, best.Signature())
		p.Diagnostics.Add(d.WithSuggestions(match.SuggestNames(param.Name, names, maxSuggestions)))
	}
}

// unusedSourceMembers returns source members read by no binding and no
// instruction.
func unusedSourceMembers(src *analyze.Shape, p *MappingPlan) []analyze.Member {
	used := make(map[string]struct{})

	for _, b := range p.Creation.Bindings {
		used[b.SourceMember] = struct{}{}
	}

	for _, in := range p.Instructions {
		for _, s := range instructionSources(in) {
			used[s] = struct{}{}
		}
	}

	var out []analyze.Member

	for _, m := range src.Members {
		if _, ok := used[m.Name]; !ok {
			out = append(out, m)
		}
	}

	return out
}

func instructionSources(in Instruction) []string {
	switch v := in.(type) {
	case SimpleMember:
		return []string{v.Source}
	case NestedObject:
		return []string{v.Source}
	case Collection:
		return []string{v.Source}
	case Composite:
		return v.Sources
	case MethodCall:
		return v.Sources
	default:
		return nil
	}
}
