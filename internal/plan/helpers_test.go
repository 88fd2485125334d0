package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mapper-planner/internal/analyze"
	"mapper-planner/internal/policy"
	"mapper-planner/internal/registry"
)

var (
	moneyID      = analyze.TypeID{PkgPath: "shop/domain", Name: "Money"}
	moneyDtoID   = analyze.TypeID{PkgPath: "shop/dtos", Name: "MoneyDto"}
	productID    = analyze.TypeID{PkgPath: "shop/domain", Name: "Product"}
	productDtoID = analyze.TypeID{PkgPath: "shop/dtos", Name: "ProductDto"}
)

func str() analyze.TypeRef   { return analyze.Basic("string") }
func num() analyze.TypeRef   { return analyze.Basic("int") }
func money() analyze.TypeRef { return analyze.Named(moneyID) }

func moneyDto() analyze.TypeRef { return analyze.Named(moneyDtoID) }

func settable(name string, t analyze.TypeRef) analyze.Member {
	return analyze.Member{Name: name, Type: t, Mutability: analyze.Settable}
}

func readonly(name string, t analyze.TypeRef) analyze.Member {
	return analyze.Member{Name: name, Type: t, Mutability: analyze.ReadOnly}
}

func param(name string, t analyze.TypeRef) analyze.Param {
	return analyze.Param{Name: name, Type: t}
}

func ctor(params ...analyze.Param) analyze.Method {
	return analyze.Method{Params: params, Visibility: analyze.Public}
}

func privateCtor(params ...analyze.Param) analyze.Method {
	m := ctor(params...)
	m.Visibility = analyze.Private

	return m
}

func factory(name string, returns analyze.TypeID, params ...analyze.Param) analyze.Method {
	return analyze.Method{
		Name:       name,
		Params:     params,
		Returns:    analyze.PointerTo(analyze.Named(returns)),
		Visibility: analyze.Public,
		Static:     true,
	}
}

func shape(id analyze.TypeID, members []analyze.Member, ctors ...analyze.Method) *analyze.Shape {
	return &analyze.Shape{ID: id, Members: members, Constructors: ctors, Primary: -1}
}

func moneyMapper() *registry.Snapshot {
	return registry.NewSnapshot(registry.Definition{
		Name:        "MoneyDtoMapper",
		Source:      moneyID,
		Destination: moneyDtoID,
	})
}

func run(mappers MapperLookup, kind policy.Kind, src, dst *analyze.Shape, d policy.Descriptor) *MappingPlan {
	return NewPlanner(mappers).Plan(Request{
		Kind:        kind,
		Mapper:      "TestMapper",
		Source:      src,
		Destination: dst,
		Policy:      d,
	})
}

func instructionKinds(p *MappingPlan) map[string]InstructionKind {
	out := make(map[string]InstructionKind, len(p.Instructions))
	for _, in := range p.Instructions {
		out[in.Destination()] = in.Kind()
	}

	return out
}

func requireInstruction[T Instruction](t *testing.T, p *MappingPlan, dest string) T {
	t.Helper()

	in, ok := p.InstructionFor(dest)
	require.True(t, ok, "no instruction for %s", dest)

	v, ok := in.(T)
	require.True(t, ok, "instruction for %s is %s", dest, in.Kind())

	return v
}
