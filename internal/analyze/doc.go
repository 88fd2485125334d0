// Package analyze provides the shape catalog consumed by the planner.
//
// A Shape describes one type: its ordered members, its constructors and its
// static factories. Shapes come from two loaders:
//   - Loader, which uses golang.org/x/tools/go/packages with AST and
//     go/types to read exported structs, New<T> constructors and factory funcs
//   - ParseShapes, which reads shapes declared in YAML
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeRef: structural reference (basic/named/pointer/sequence/map)
//   - Shape, Member, Method, Param
//   - TypeGraph: the in-memory Catalog
package analyze
