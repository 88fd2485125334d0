package plan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapper-planner/internal/analyze"
	"mapper-planner/internal/diagnostic"
	"mapper-planner/internal/policy"
)

func TestPlan_IdenticalMembersBecomeSimpleMembers(t *testing.T) {
	members := []analyze.Member{settable("Name", str()), settable("Stars", num()), settable("Comment", str())}
	src := shape(analyze.TypeID{PkgPath: "shop/domain", Name: "Review"}, members)
	dst := shape(analyze.TypeID{PkgPath: "shop/dtos", Name: "ReviewDto"}, members, ctor())

	for _, kind := range policy.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			p := run(nil, kind, src, dst, policy.Default(kind))

			require.Len(t, p.Instructions, 3)

			for _, m := range members {
				in := requireInstruction[SimpleMember](t, p, m.Name)
				assert.Equal(t, m.Name, in.Source)
			}

			assert.Empty(t, p.Diagnostics.Warnings)
			assert.True(t, p.Emittable())
		})
	}
}

func TestPlan_Deterministic(t *testing.T) {
	src := shape(productID, []analyze.Member{
		settable("Name", str()),
		settable("Price", money()),
		settable("Prices", analyze.SequenceOf(money())),
		settable("Sku", str()),
	})
	dst := shape(productDtoID, []analyze.Member{
		settable("Name", str()),
		settable("Price", moneyDto()),
		settable("Prices", analyze.SequenceOf(moneyDto())),
		settable("SKU", str()),
		settable("Unknown", str()),
	}, ctor(), ctor(param("name", str())))

	cfg := policy.NewConfig()
	cfg.ForProjection().Map("Unknown").From("\"n/a\"")
	d, _ := policy.Parse(cfg, policy.KindProjection)

	first := run(moneyMapper(), policy.KindProjection, src, dst, d)

	for range 10 {
		again := run(moneyMapper(), policy.KindProjection, src, dst, d)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("plan changed between runs (-first +again):\n%s", diff)
		}
	}

	assert.Equal(t, CreationParameterized, first.Creation.Method)
	assert.Equal(t, map[string]InstructionKind{
		"Unknown": InstructionCustomExpression,
		"Price":   InstructionNestedObject,
		"Prices":  InstructionCollection,
		"SKU":     InstructionSimpleMember,
	}, instructionKinds(first))
}

func TestPlan_ArityRule(t *testing.T) {
	src := shape(productID, []analyze.Member{
		settable("A", str()), settable("B", str()), settable("C", str()),
	})

	t.Run("largest satisfiable wins", func(t *testing.T) {
		dst := shape(productDtoID, nil,
			ctor(param("a", str())),
			ctor(param("a", str()), param("b", str()), param("c", str())),
			ctor(param("a", str()), param("b", str())),
		)

		p := run(nil, policy.KindCreation, src, dst, policy.Default(policy.KindCreation))
		require.Equal(t, CreationParameterized, p.Creation.Method)
		assert.Equal(t, 3, p.Creation.Candidate.Arity())
		assert.Len(t, p.Creation.Bindings, 3)
	})

	t.Run("falls back to next arity", func(t *testing.T) {
		dst := shape(productDtoID, nil,
			ctor(param("a", str())),
			ctor(param("a", str()), param("b", str()), param("missing", str())),
			ctor(param("a", str()), param("b", str())),
		)

		p := run(nil, policy.KindCreation, src, dst, policy.Default(policy.KindCreation))
		require.Equal(t, CreationParameterized, p.Creation.Method)
		assert.Equal(t, 2, p.Creation.Candidate.Arity())

		for _, b := range p.Creation.Bindings {
			_, ok := p.Creation.Candidate.Param(b.Param.Name)
			assert.True(t, ok, "binding %s does not belong to the candidate", b.Param.Name)
		}
	})

	t.Run("type mismatch without mapper is unsatisfiable", func(t *testing.T) {
		dst := shape(productDtoID, nil, ctor(param("a", num())), ctor())

		p := run(nil, policy.KindCreation, src, dst, policy.Default(policy.KindCreation))
		assert.Equal(t, CreationParameterless, p.Creation.Method)
	})
}

func TestPlan_ParameterOverride(t *testing.T) {
	src := shape(productDtoID, []analyze.Member{settable("Name", str())})
	dst := shape(productID, []analyze.Member{readonly("Name", str()), readonly("Price", money())},
		ctor(param("name", str()), param("price", money())),
	)

	cfg := policy.NewConfig()
	cfg.ForCreation().MapParameter("Price").FromSource("domain.NewMoney(src.PriceAmount, src.PriceCurrency)")
	d, _ := policy.Parse(cfg, policy.KindCreation)

	p := run(nil, policy.KindCreation, src, dst, d)

	require.Equal(t, CreationParameterized, p.Creation.Method)

	b, ok := p.Creation.Binding("price")
	require.True(t, ok)
	require.True(t, b.IsOverride())
	assert.Equal(t, "domain.NewMoney(src.PriceAmount, src.PriceCurrency)", b.Override.Text)
	assert.Empty(t, b.SourceMember)

	b, ok = p.Creation.Binding("name")
	require.True(t, ok)
	assert.Equal(t, "Name", b.SourceMember)

	assert.Zero(t, p.Diagnostics.Len(), "members bound by parameters are not unmapped")
}

func TestPlan_OverriddenParameterIsNotSetAgain(t *testing.T) {
	src := shape(productDtoID, []analyze.Member{settable("Name", str()), settable("Price", money())})
	dst := shape(productID, []analyze.Member{settable("Name", str()), settable("Price", money())},
		ctor(param("name", str()), param("price", money())),
	)

	cfg := policy.NewConfig()
	cfg.ForCreation().MapParameter("price").FromSource("domain.NewMoney(src.Amount, src.Currency)")
	d, _ := policy.Parse(cfg, policy.KindCreation)

	p := run(nil, policy.KindCreation, src, dst, d)

	require.Equal(t, CreationParameterized, p.Creation.Method)

	b, ok := p.Creation.Binding("price")
	require.True(t, ok)
	require.True(t, b.IsOverride())

	_, ok = p.InstructionFor("Price")
	assert.False(t, ok, "a setter would overwrite the parameter override")
	assert.Empty(t, p.Instructions)
	assert.Zero(t, p.Diagnostics.Len())
}

func TestPlan_MemberOverrideFeedsConstructorParameter(t *testing.T) {
	dst := shape(productID, []analyze.Member{settable("Name", str()), settable("Price", money())},
		ctor(param("name", str()), param("price", money())),
	)

	cfg := policy.NewConfig()
	cfg.ForCreation().Map("Price").From("domain.Free()")
	d, _ := policy.Parse(cfg, policy.KindCreation)

	tests := []struct {
		name    string
		members []analyze.Member
	}{
		{"source has the member", []analyze.Member{settable("Name", str()), settable("Price", money())}},
		{"source lacks the member", []analyze.Member{settable("Name", str())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := run(nil, policy.KindCreation, shape(productDtoID, tt.members), dst, d)

			require.Equal(t, CreationParameterized, p.Creation.Method)

			b, ok := p.Creation.Binding("price")
			require.True(t, ok)
			require.True(t, b.IsOverride())
			assert.Equal(t, "domain.Free()", b.Override.Text)

			_, ok = p.InstructionFor("Price")
			assert.False(t, ok, "the member is assigned once, through the constructor")
			assert.Zero(t, p.Diagnostics.Len())
		})
	}
}

func TestPlan_ModificationIgnoresID(t *testing.T) {
	members := []analyze.Member{settable("Id", num()), settable("Name", str())}
	src := shape(productDtoID, members)
	dst := shape(productID, members, ctor())

	explicit := policy.NewConfig()
	explicit.ForModification().Try(policy.UseSetters)
	explicitDesc, _ := policy.Parse(explicit, policy.KindModification)

	tests := []struct {
		name string
		desc policy.Descriptor
	}{
		{"default policy", policy.Default(policy.KindModification)},
		{"explicit policy without IgnoreId", explicitDesc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := run(nil, policy.KindModification, src, dst, tt.desc)

			_, ok := p.InstructionFor("Id")
			assert.False(t, ok)
			requireInstruction[SimpleMember](t, p, "Name")

			assert.Equal(t, CreationNone, p.Creation.Method, "modification never selects a creation method")
			assert.Empty(t, p.Diagnostics.Errors)
			assert.True(t, p.Emittable())
		})
	}
}

func TestPlan_NestedObjectThroughMapper(t *testing.T) {
	src := shape(productID, []analyze.Member{settable("Price", money())})
	dst := shape(productDtoID, []analyze.Member{settable("Price", moneyDto())}, ctor())

	p := run(moneyMapper(), policy.KindProjection, src, dst, policy.Default(policy.KindProjection))

	in := requireInstruction[NestedObject](t, p, "Price")
	assert.Equal(t, "Price", in.Source)
	require.NotNil(t, in.Mapper)
	assert.Equal(t, "MoneyDtoMapper", in.Mapper.Name)

	t.Run("reverse direction uses the same mapper", func(t *testing.T) {
		p := run(moneyMapper(), policy.KindCreation, dst, shape(productID, src.Members, ctor()),
			policy.Default(policy.KindCreation))

		in := requireInstruction[NestedObject](t, p, "Price")
		assert.Equal(t, "MoneyDtoMapper", in.Mapper.Name)
	})

	t.Run("pointer member", func(t *testing.T) {
		src := shape(productID, []analyze.Member{settable("Price", analyze.PointerTo(money()))})
		p := run(moneyMapper(), policy.KindProjection, src, dst, policy.Default(policy.KindProjection))

		requireInstruction[NestedObject](t, p, "Price")
	})

	t.Run("no mapper leaves member unmapped", func(t *testing.T) {
		p := run(nil, policy.KindProjection, src, dst, policy.Default(policy.KindProjection))

		assert.Empty(t, p.Instructions)
		warnings := p.Diagnostics.ByCode(diagnostic.UnmappedDestinationMember.Code)
		require.Len(t, warnings, 1)
		assert.Equal(t, "Price", warnings[0].Location.Member)
	})
}

func TestPlan_CollectionThroughElementMapper(t *testing.T) {
	src := shape(productID, []analyze.Member{settable("Items", analyze.SequenceOf(money()))})
	dst := shape(productDtoID, []analyze.Member{settable("Items", analyze.SequenceOf(moneyDto()))}, ctor())

	p := run(moneyMapper(), policy.KindProjection, src, dst, policy.Default(policy.KindProjection))

	in := requireInstruction[Collection](t, p, "Items")
	assert.Equal(t, "Items", in.Source)
	assert.Equal(t, "MoneyDtoMapper", in.ElementMapper.Name)
	assert.Empty(t, p.Diagnostics.Warnings)
}

func TestPlan_PrivateConstructorsOnly(t *testing.T) {
	entity := shape(productID, []analyze.Member{settable("Name", str()), settable("Id", num())},
		privateCtor(), privateCtor(param("name", str())))
	dto := shape(productDtoID, []analyze.Member{settable("Name", str()), settable("Id", num())}, ctor())

	creation := run(nil, policy.KindCreation, dto, entity, policy.Default(policy.KindCreation))
	assert.Equal(t, CreationNone, creation.Creation.Method)
	assert.Nil(t, creation.Creation.Candidate)
	assert.Len(t, creation.Diagnostics.ByCode(diagnostic.NoValidCreationMethod.Code), 1)
	assert.Len(t, creation.Diagnostics.Errors, 1)
	assert.False(t, creation.Emittable())

	projection := run(nil, policy.KindProjection, entity, dto, policy.Default(policy.KindProjection))
	assert.Equal(t, CreationParameterless, projection.Creation.Method)
	assert.True(t, projection.Emittable())

	modification := run(nil, policy.KindModification, dto, entity, policy.Default(policy.KindModification))
	assert.True(t, modification.Emittable())
	requireInstruction[SimpleMember](t, modification, "Name")
}

func TestPlan_StrategyOrder(t *testing.T) {
	src := shape(productDtoID, []analyze.Member{settable("Name", str())})
	dst := shape(productID, []analyze.Member{settable("Name", str())},
		ctor(), ctor(param("name", str())))
	dst.Factories = []analyze.Method{factory("CreateProduct", productID, param("name", str()))}

	tests := []struct {
		name       string
		strategies []policy.Strategy
		want       CreationMethod
	}{
		{"constructors first", []policy.Strategy{policy.UseConstructors, policy.UseStaticFactories}, CreationParameterized},
		{"factories first", []policy.Strategy{policy.UseStaticFactories, policy.UseConstructors}, CreationFactory},
		{"setters only", []policy.Strategy{policy.UseSetters}, CreationNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.NewDescriptor()
			d.Strategies = tt.strategies

			p := run(nil, policy.KindCreation, src, dst, d)
			assert.Equal(t, tt.want, p.Creation.Method)
		})
	}
}

func TestPlan_FactoryReplacesParameterless(t *testing.T) {
	src := shape(productDtoID, []analyze.Member{settable("Name", str())})
	dst := shape(productID, []analyze.Member{readonly("Name", str())}, ctor())
	dst.Factories = []analyze.Method{
		factory("Empty", productID),
		factory("CreateProduct", productID, param("name", str())),
	}

	p := run(nil, policy.KindCreation, src, dst, policy.Default(policy.KindCreation))

	require.Equal(t, CreationFactory, p.Creation.Method)
	assert.Equal(t, "CreateProduct", p.Creation.Candidate.Name)
	assert.Empty(t, p.Diagnostics.Warnings)
}

func TestPlan_UnsatisfiedFactoryExplainsMatchingFactoryOnly(t *testing.T) {
	src := shape(productDtoID, []analyze.Member{settable("Title", str())})
	dst := shape(productID, []analyze.Member{readonly("Name", str())})
	dst.Factories = []analyze.Method{
		factory("ParseMoney", moneyID, param("amount", num()), param("currency", str())),
		factory("CreateProduct", productID, param("name", str())),
	}

	p := run(nil, policy.KindCreation, src, dst, policy.Default(policy.KindCreation))

	require.Equal(t, CreationNone, p.Creation.Method)

	infos := p.Diagnostics.ByCode(diagnostic.UnmappableConstructorParameter.Code)
	require.Len(t, infos, 1)
	assert.Equal(t, "name", infos[0].Location.Member)
}

func TestPlan_ValueShapeHasNoFallback(t *testing.T) {
	value := &analyze.Shape{
		ID:      moneyID,
		Members: []analyze.Member{readonly("Amount", num()), readonly("Currency", str())},
		Constructors: []analyze.Method{
			ctor(param("amount", num()), param("currency", str())),
			ctor(),
		},
		IsValue: true,
		Primary: 0,
	}

	t.Run("primary satisfied", func(t *testing.T) {
		src := shape(moneyDtoID, []analyze.Member{settable("Amount", num()), settable("Currency", str())})
		p := run(nil, policy.KindCreation, src, value, policy.Default(policy.KindCreation))

		assert.Equal(t, CreationParameterized, p.Creation.Method)
		assert.Zero(t, p.Diagnostics.Len())
	})

	t.Run("primary unsatisfied", func(t *testing.T) {
		src := shape(moneyDtoID, []analyze.Member{settable("Amount", num()), settable("Curency", str())})
		p := run(nil, policy.KindCreation, src, value, policy.Default(policy.KindCreation))

		assert.Equal(t, CreationNone, p.Creation.Method, "no fallback to the parameterless constructor")
		require.Len(t, p.Diagnostics.ByCode(diagnostic.NoValidCreationMethod.Code), 1)

		infos := p.Diagnostics.ByCode(diagnostic.UnmappableConstructorParameter.Code)
		require.Len(t, infos, 1)
		assert.Equal(t, "currency", infos[0].Location.Member)
		assert.Equal(t, []string{"Curency"}, infos[0].Suggestions)
	})
}

func TestPlan_MemberOverrides(t *testing.T) {
	src := shape(productID, []analyze.Member{settable("Name", str()), settable("Title", str())})
	dst := shape(productDtoID, []analyze.Member{settable("Name", str()), settable("Title", str())}, ctor())

	d := policy.NewDescriptor()
	d.MemberOverrides["title"] = policy.Expr{Text: "strings.ToUpper(src.Title)"}
	d.MemberOverrides["Missing"] = policy.Expr{Text: "x"}

	p := run(nil, policy.KindProjection, src, dst, d)

	require.Len(t, p.Instructions, 2)
	custom := requireInstruction[CustomExpression](t, p, "Title")
	assert.Equal(t, "strings.ToUpper(src.Title)", custom.Expr.Text)
	requireInstruction[SimpleMember](t, p, "Name")

	assert.Equal(t, InstructionCustomExpression, p.Instructions[0].Kind(), "overrides come before strategies")
}

func TestPlan_IgnoredAndNonSettableMembers(t *testing.T) {
	src := shape(productID, []analyze.Member{
		settable("Name", str()), settable("Slug", str()), settable("Version", num()), settable("Created", str()),
	})
	dst := shape(productDtoID, []analyze.Member{
		settable("Name", str()),
		settable("slug", str()),
		{Name: "Version", Type: num(), Mutability: analyze.InitOnly},
		readonly("Created", str()),
	}, ctor())

	d := policy.Default(policy.KindProjection).WithIgnored("Slug")
	p := run(nil, policy.KindProjection, src, dst, d)

	assert.Equal(t, map[string]InstructionKind{"Name": InstructionSimpleMember}, instructionKinds(p))

	var unmapped []string
	for _, w := range p.Diagnostics.Warnings {
		unmapped = append(unmapped, w.Location.Member)
	}

	assert.Equal(t, []string{"Version", "Created"}, unmapped)
}

func TestPlan_UnmappedWarningSuggestions(t *testing.T) {
	src := shape(productID, []analyze.Member{settable("Name", str()), settable("Titel", str())})
	dst := shape(productDtoID, []analyze.Member{settable("Name", str()), settable("Title", str())}, ctor())

	p := run(nil, policy.KindProjection, src, dst, policy.Default(policy.KindProjection))

	warnings := p.Diagnostics.ByCode(diagnostic.UnmappedDestinationMember.Code)
	require.Len(t, warnings, 1)
	assert.Equal(t, diagnostic.DiagnosticWarning, warnings[0].Severity)
	assert.Equal(t, []string{"Titel"}, warnings[0].Suggestions, "Name is already used and never suggested")
	assert.Contains(t, warnings[0].Message, "'Title'")
	assert.Equal(t, "TestMapper", warnings[0].Location.Mapper)
}

func TestEffectivePolicy(t *testing.T) {
	empty := policy.NewDescriptor()

	assert.Equal(t, policy.CreationDefaults(), EffectivePolicy(policy.KindProjection, empty).Strategies)
	modification := EffectivePolicy(policy.KindModification, empty)
	creation := EffectivePolicy(policy.KindCreation, empty)
	assert.True(t, modification.IsIgnored("id"))
	assert.False(t, creation.IsIgnored("id"))
	assert.Empty(t, empty.Strategies, "input is not modified")
}
