// Package domain holds sample domain types used by loader tests and the
// sample mapping file.
package domain

import "errors"

// Money is an immutable monetary value.
//
//mapper:value
type Money struct {
	Amount   float64 `mapper:"readonly"`
	Currency string  `mapper:"readonly"`
}

// NewMoney is the only way to build a Money.
func NewMoney(amount float64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Review is a product review.
type Review struct {
	ID      string
	Stars   int
	Comment string
}

// Product can only be created through CreateProduct.
//
//mapper:opaque
type Product struct {
	ID      string   `mapper:"readonly"`
	Name    string   `mapper:"readonly"`
	Price   Money    `mapper:"readonly"`
	Reviews []Review `mapper:"readonly"`
}

// CreateProduct validates and builds a Product. A nil price means zero USD.
func CreateProduct(name string, price *Money) (*Product, error) {
	if name == "" {
		return nil, errors.New("product name cannot be empty")
	}

	p := newProduct()
	p.Name = name
	p.Price = NewMoney(0, "USD")

	if price != nil {
		p.Price = *price
	}

	return p, nil
}

func newProduct() *Product {
	return &Product{}
}

// Rename changes the product name when the new name is not empty.
func (p *Product) Rename(name string) {
	if name != "" {
		p.Name = name
	}
}

// Entity is embedded by types carrying an identifier.
type Entity struct {
	ID string
}

// Category groups products.
type Category struct {
	Entity
	Name string
}

// NewCategory builds a Category.
func NewCategory(id, name string) *Category {
	return &Category{Entity: Entity{ID: id}, Name: name}
}

// NewCategoryNamed builds a Category without an identifier.
func NewCategoryNamed(name string, tags ...string) *Category {
	return &Category{Name: name}
}
