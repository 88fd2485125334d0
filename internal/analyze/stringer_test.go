package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeStringer(t *testing.T) {
	money := TypeID{PkgPath: "shop/domain", Name: "Money"}
	shape := &Shape{
		ID:      money,
		IsValue: true,
		Primary: 0,
		Members: []Member{
			{Name: "Amount", Type: Basic("float64"), Mutability: ReadOnly},
			{Name: "Currency", Type: Basic("string")},
		},
		Constructors: []Method{
			{Name: "NewMoney", Params: []Param{{Name: "amount", Type: Basic("float64")}}},
		},
		Factories: []Method{
			{Name: "parse", Params: []Param{{Name: "s", Type: Basic("string")}}, Visibility: Private, Static: true},
		},
	}

	var s TypeStringer

	assert.Equal(t, "Amount float64 (readonly), Currency string", s.Members(shape))
	assert.Equal(t, "ctor NewMoney(amount float64) [primary]; private factory parse(s string)", s.Creation(shape))
	assert.Equal(t, "value", s.Kind(shape))

	dto := &Shape{ID: TypeID{PkgPath: "shop/dtos", Name: "MoneyDto"}, DtoOf: &money, Primary: -1}
	assert.Equal(t, "dto of domain.Money", s.Kind(dto))
	assert.Equal(t, "class", s.Kind(&Shape{Primary: -1}))
}
