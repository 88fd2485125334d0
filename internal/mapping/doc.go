// Package mapping reads mapping files.
//
// A mapping file declares the mappers of a run and, optionally, inline
// shapes and the Go packages to load shapes from:
//
//	version: "1"
//	packages: [./sample/...]
//	mappers:
//	  - name: ProductDtoMapper
//	    source: domain.Product
//	    destination: dtos.ProductDto
//	    policies:
//	      - for: ForCreation
//	        calls:
//	          - Try: UseStaticFactories
//	          - MapParameter: price
//	          - FromSource: "domain.NewMoney(src.Price.Amount, src.Price.Currency)"
//	      - for: ForModification
//	        calls:
//	          - IgnoreId
//	          - Ignore: d => d.Reviews
//
// Each policy entry becomes one recorded policy chain rooted at its "for"
// entry point; Definitions converts mappers into registry definitions.
package mapping
