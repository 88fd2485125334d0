package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapper-planner/internal/registry"
)

func TestDependencies(t *testing.T) {
	moneyDef := &registry.Definition{Name: "MoneyMapper"}
	reviewDef := &registry.Definition{Name: "ReviewMapper"}

	plans := []*MappingPlan{
		{Mapper: "ProductMapper", Instructions: []Instruction{
			NestedObject{Source: "Price", Dest: "Price", Mapper: moneyDef},
			Collection{Source: "Reviews", Dest: "Reviews", ElementMapper: reviewDef},
		}},
		{Mapper: "ProductMapper", Creation: CreationPlan{Bindings: []ParameterBinding{
			{SourceMember: "Price", Mapper: moneyDef},
		}}},
		{Mapper: "MoneyMapper", Instructions: []Instruction{
			NestedObject{Source: "Self", Dest: "Self", Mapper: moneyDef},
		}},
	}

	assert.Equal(t, map[string][]string{
		"ProductMapper": {"MoneyMapper", "ReviewMapper"},
		"MoneyMapper":   {},
	}, Dependencies(plans))
}

func TestEmissionOrder(t *testing.T) {
	names := []string{"ProductMapper", "CategoryMapper", "MoneyMapper", "ReviewMapper"}
	deps := map[string][]string{
		"ProductMapper": {"MoneyMapper", "ReviewMapper"},
		"ReviewMapper":  {"MoneyMapper", "UnknownMapper"},
	}

	got, err := EmissionOrder(names, deps)
	require.NoError(t, err)
	assert.Equal(t, []string{"CategoryMapper", "MoneyMapper", "ReviewMapper", "ProductMapper"}, got)
}

func TestEmissionOrder_Cycle(t *testing.T) {
	_, err := EmissionOrder([]string{"A", "B"}, map[string][]string{"A": {"B"}, "B": {"A"}})
	require.ErrorIs(t, err, ErrMapperCycle)
}
