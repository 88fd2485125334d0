package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Report(t *testing.T) {
	var d Diagnostics

	loc := Location{Mapper: "ProductDtoMapper", TypePair: "creation dtos.ProductDto -> domain.Product"}

	d.Report(NoValidCreationMethod, loc, "domain.Product")
	d.Report(UnmappedDestinationMember, Location{Mapper: "ProductDtoMapper", Member: "Slug"}, "Slug", "dtos.CategoryDto")
	d.Report(UnmappableConstructorParameter, loc, "price", "CreateProduct")

	require.Len(t, d.Errors, 1)
	require.Len(t, d.Warnings, 1)
	require.Len(t, d.Infos, 1)
	assert.Equal(t, 3, d.Len())
	assert.True(t, d.HasErrors())
	assert.False(t, d.IsValid())

	codes := make([]string, 0, d.Len())
	for _, diag := range d.All() {
		codes = append(codes, diag.Code)
	}

	assert.Equal(t, []string{"PR0003", "PR0005", "PR0004"}, codes, "errors, then warnings, then infos")
	assert.Len(t, d.ByCode("PR0004"), 1)
	assert.Empty(t, d.ByCode("PR0002"))
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics

	a.Report(UnexpectedError, Location{Mapper: "A"}, "boom")
	b.Report(UnmappedDestinationMember, Location{Mapper: "B"}, "X", "dtos.Y")

	a.Merge(b)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, "B", a.Warnings[0].Location.Mapper)
}

func TestDiagnostics_Error(t *testing.T) {
	var d Diagnostics
	require.NoError(t, d.Error())

	d.Report(UnmappedDestinationMember, Location{Mapper: "M"}, "X", "dtos.Y")
	require.NoError(t, d.Error(), "warnings alone are not an error")

	d.Report(NoValidCreationMethod, Location{Mapper: "M", TypePair: "creation a.B -> c.D"}, "c.D")
	d.Report(UnexpectedError, Location{Mapper: "N"}, "boom")

	err := d.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "M [creation a.B -> c.D]: [PR0003]")
	assert.Contains(t, err.Error(), "; N: [PR0001] An unexpected error occurred during mapper planning: 'boom'")
}

func TestDiagnostic_String(t *testing.T) {
	diag := New(UnmappedDestinationMember, Location{Mapper: "M", Member: "Curency"}, "Curency", "dtos.MoneyDto").
		WithSuggestions([]string{"Currency"})

	assert.Equal(t,
		"M Curency: [PR0005] the member 'Curency' on destination type 'dtos.MoneyDto' was not mapped (did you mean Currency?)",
		diag.String())
	assert.Equal(t, DiagnosticWarning, diag.Severity)
}

func TestWithSuggestions_Copies(t *testing.T) {
	in := []string{"a"}
	diag := New(UnexpectedError, Location{}, "x").WithSuggestions(in)
	in[0] = "b"

	assert.Equal(t, []string{"a"}, diag.Suggestions)
	assert.Nil(t, New(UnexpectedError, Location{}, "x").WithSuggestions(nil).Suggestions)
}

func TestKinds(t *testing.T) {
	seen := map[string]bool{}

	for _, k := range Kinds() {
		assert.False(t, seen[k.Code], "duplicate code %s", k.Code)
		seen[k.Code] = true
	}

	assert.Len(t, seen, 5)
	assert.Equal(t, "error", NoValidCreationMethod.Severity.String())
	assert.Equal(t, "info", UnmappableConstructorParameter.Severity.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}
