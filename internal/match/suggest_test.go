package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapper-planner/internal/analyze"
)

var (
	moneyID    = analyze.TypeID{PkgPath: "shop/domain", Name: "Money"}
	moneyDtoID = analyze.TypeID{PkgPath: "shop/dtos", Name: "MoneyDto"}
)

func TestCompatibility(t *testing.T) {
	money := analyze.Named(moneyID)
	moneyDto := analyze.Named(moneyDtoID)

	tests := []struct {
		name   string
		source analyze.TypeRef
		target analyze.TypeRef
		want   TypeCompatibility
	}{
		{"identical", analyze.Basic("string"), analyze.Basic("string"), TypeIdentical},
		{"pointer", analyze.PointerTo(money), money, TypeIndirect},
		{"numeric", analyze.Basic("int"), analyze.Basic("float64"), TypeConvertible},
		{"named pair", money, moneyDto, TypeNeedsMapper},
		{"sequences of named", analyze.SequenceOf(money), analyze.SequenceOf(moneyDto), TypeNeedsMapper},
		{"string vs int", analyze.Basic("string"), analyze.Basic("int"), TypeIncompatible},
		{"sequence vs named", analyze.SequenceOf(money), moneyDto, TypeIncompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compatibility(tt.source, tt.target))
		})
	}
}

func TestRank_OrdersByScoreThenName(t *testing.T) {
	target := analyze.Member{Name: "Title", Type: analyze.Basic("string")}
	sources := []analyze.Member{
		{Name: "Titel", Type: analyze.Basic("string")},
		{Name: "Tittle", Type: analyze.Basic("int")},
		{Name: "Bbb", Type: analyze.Basic("int")},
		{Name: "Aaa", Type: analyze.Basic("int")},
	}

	got := Rank(target, sources)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"Titel", "Tittle", "Aaa", "Bbb"}, got.Names())
	assert.Equal(t, TypeIdentical, got[0].TypeCompat)
}

func TestSuggest(t *testing.T) {
	target := analyze.Member{Name: "Title", Type: analyze.Basic("string")}
	sources := []analyze.Member{
		{Name: "Name", Type: analyze.Basic("string")},
		{Name: "Titel", Type: analyze.Basic("string")},
		{Name: "TitleText", Type: analyze.Basic("string")},
	}

	assert.Equal(t, []string{"Titel", "TitleText"}, Suggest(target, sources, 3))
	assert.Equal(t, []string{"Titel"}, Suggest(target, sources, 1))
	assert.Empty(t, Suggest(target, nil, 3))
}

func TestSuggestNames(t *testing.T) {
	got := SuggestNames("customerId", []string{"CustomerID", "Customer", "Total"}, 5)
	assert.Equal(t, []string{"Customer", "CustomerID"}, got)
}
