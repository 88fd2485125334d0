// Package dtos holds sample transfer objects for the domain package.
package dtos

// MoneyDto mirrors domain.Money.
//
//mapper:dto=domain.Money
type MoneyDto struct {
	Amount   float64
	Currency string
}

// ReviewDto mirrors domain.Review without its identifier.
//
//mapper:dto=domain.Review
type ReviewDto struct {
	Stars   int
	Comment string
}

// ProductDto is the read model of domain.Product.
//
//mapper:dto=domain.Product
type ProductDto struct {
	ID      string
	Name    string
	Price   MoneyDto
	Reviews []ReviewDto
}

// CreateProductDto carries the input for creating a product.
type CreateProductDto struct {
	Name          string
	PriceAmount   float64
	PriceCurrency string
}

// UpdateProductDto carries the editable part of a product.
//
//mapper:dto=domain.Product
type UpdateProductDto struct {
	Name string
}

// CategoryDto mirrors domain.Category.
//
//mapper:dto=domain.Category
type CategoryDto struct {
	ID   string
	Name string
	// Slug is derived on read and never mapped.
	Slug string `mapper:"-"`
}
