package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"mapper-planner/internal/analyze"
	"mapper-planner/internal/policy"
	"mapper-planner/internal/registry"
)

// PolicyConfig converts the policies of a mapper into a recorded policy
// expression. A mapper without policies yields nil, meaning defaults.
func (m *MapperDef) PolicyConfig() *policy.Config {
	if len(m.Policies) == 0 {
		return nil
	}

	cfg := policy.NewConfig()
	for _, p := range m.Policies {
		cfg.Append(p.Chain())
	}

	return cfg
}

// Chain converts one policy entry into a chain rooted at its entry point.
func (p PolicyDef) Chain() *policy.Chain {
	chain := &policy.Chain{
		Origin: policy.OriginParameter,
		Calls:  make([]policy.Call, 0, len(p.Calls)+1),
	}

	chain.Calls = append(chain.Calls, policy.Call{Name: p.For})
	for _, c := range p.Calls {
		chain.Calls = append(chain.Calls, c.Call())
	}

	return chain
}

// Call converts a call into its recorded form. Arguments are typed by the
// call they belong to: strategies, member selectors, parameter names or
// expressions.
func (c CallDef) Call() policy.Call {
	call := policy.Call{Name: c.Name}

	for _, raw := range c.Args {
		call.Args = append(call.Args, argFor(c.Name, raw))
	}

	return call
}

func argFor(call, raw string) policy.Arg {
	switch call {
	case policy.CallTry:
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return policy.IntArg(n)
		}

		return policy.StringArg(raw)
	case policy.CallIgnore, policy.CallMap:
		return policy.MemberArg(raw)
	case policy.CallFrom, policy.CallFromSource:
		return policy.ExprArg(raw)
	default:
		return policy.StringArg(raw)
	}
}

// Catalog returns the shape catalog of the file: the Go packages it names,
// loaded from dir, extended with its inline shapes.
func Catalog(mf *MappingFile, dir string) (*analyze.TypeGraph, error) {
	graph := analyze.NewTypeGraph()

	if len(mf.Packages) > 0 {
		loaded, err := analyze.NewLoader(dir).LoadPackages(mf.Packages...)
		if err != nil {
			return nil, err
		}

		graph = loaded
	}

	if err := analyze.ExtendGraph(graph, mf.Shapes); err != nil {
		return nil, err
	}

	return graph, nil
}

// Definitions resolves the mappers of the file against graph.
func Definitions(mf *MappingFile, graph *analyze.TypeGraph) ([]registry.Definition, error) {
	defs := make([]registry.Definition, 0, len(mf.Mappers))

	for i := range mf.Mappers {
		m := &mf.Mappers[i]

		src, ok := graph.Resolve(m.Source)
		if !ok {
			return nil, fmt.Errorf("mapper %s: source %q: %w", m.Name, m.Source, registry.ErrUnknownType)
		}

		dst, ok := graph.Resolve(m.Destination)
		if !ok {
			return nil, fmt.Errorf("mapper %s: destination %q: %w", m.Name, m.Destination, registry.ErrUnknownType)
		}

		defs = append(defs, registry.Definition{
			Name:        m.Name,
			Source:      src,
			Destination: dst,
			Policy:      m.PolicyConfig(),
		})
	}

	return defs, nil
}

// BuildRegistry validates the file and returns the registry snapshot of
// its mappers plus the implicit placeholders of graph.
func BuildRegistry(mf *MappingFile, graph *analyze.TypeGraph) (*registry.Snapshot, error) {
	if err := Validate(mf, graph); err != nil {
		return nil, err
	}

	defs, err := Definitions(mf, graph)
	if err != nil {
		return nil, err
	}

	b := registry.NewBuilder(graph)
	for _, def := range defs {
		if err := b.Add(def); err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}
