package analyze

import (
	"errors"
	"sort"
	"strings"

	"mapper-planner/internal/common"
)

// ErrShapeNotFound is returned when a catalog has no shape for a type.
var ErrShapeNotFound = errors.New("shape not found")

// TypeID uniquely identifies a type by its package path and name.
// Comparison is case-sensitive.
type TypeID struct {
	PkgPath string // e.g., "mapper-planner/sample/domain"
	Name    string // e.g., "Product"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the package alias qualified name, e.g. "domain.Product".
func (t TypeID) Short() string {
	if alias := common.PkgAlias(t.PkgPath); alias != "" {
		return alias + "." + t.Name
	}

	return t.Name
}

// IsZero reports whether the ID is empty.
func (t TypeID) IsZero() bool {
	return t.PkgPath == "" && t.Name == ""
}

// ParseTypeID splits "pkg/path.Name" at the last dot.
func ParseTypeID(s string) TypeID {
	lastDot := strings.LastIndex(s, ".")
	if lastDot < 0 {
		return TypeID{Name: s}
	}

	return TypeID{PkgPath: s[:lastDot], Name: s[lastDot+1:]}
}

// TypeKind represents the kind of a type reference.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindNamed             // named type with a shape or an opaque named type
	TypeKindPointer           // pointer to another type
	TypeKindSequence          // slice or array of another type
	TypeKindMap               // map from Key to Elem
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindNamed:
		return "named"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSequence:
		return "sequence"
	case TypeKindMap:
		return "map"
	default:
		return common.UnknownStr
	}
}

// TypeRef is a structural reference to a type used by members and parameters.
type TypeRef struct {
	Kind TypeKind
	ID   TypeID   // set for basic and named kinds
	Elem *TypeRef // pointer, sequence and map element
	Key  *TypeRef // map key
}

// Basic returns a reference to a predeclared type.
func Basic(name string) TypeRef {
	return TypeRef{Kind: TypeKindBasic, ID: TypeID{Name: name}}
}

// Named returns a reference to a named type.
func Named(id TypeID) TypeRef {
	return TypeRef{Kind: TypeKindNamed, ID: id}
}

// PointerTo returns a pointer reference to elem.
func PointerTo(elem TypeRef) TypeRef {
	return TypeRef{Kind: TypeKindPointer, Elem: &elem}
}

// SequenceOf returns a sequence reference with the given element type.
func SequenceOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: TypeKindSequence, Elem: &elem}
}

// MapOf returns a map reference.
func MapOf(key, elem TypeRef) TypeRef {
	return TypeRef{Kind: TypeKindMap, Key: &key, Elem: &elem}
}

// Identical reports whether two references denote the same type.
func (t TypeRef) Identical(o TypeRef) bool {
	if t.Kind != o.Kind || t.ID != o.ID {
		return false
	}

	if !identicalPtr(t.Elem, o.Elem) {
		return false
	}

	return identicalPtr(t.Key, o.Key)
}

func identicalPtr(a, b *TypeRef) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Identical(*b)
}

// IsSequence reports whether the type is a recognized collection shape.
func (t TypeRef) IsSequence() bool {
	return t.Kind == TypeKindSequence && t.Elem != nil
}

// ElemType returns the element type of a sequence.
func (t TypeRef) ElemType() (TypeRef, bool) {
	if !t.IsSequence() {
		return TypeRef{}, false
	}

	return *t.Elem, true
}

// Deref strips one level of pointer indirection.
func (t TypeRef) Deref() TypeRef {
	if t.Kind == TypeKindPointer && t.Elem != nil {
		return *t.Elem
	}

	return t
}

// IsNullable reports whether the reference admits a nil value.
func (t TypeRef) IsNullable() bool {
	return t.Kind == TypeKindPointer
}

// MapperKey returns the type ID used to look up mappers for this reference.
// A single pointer level is looked through.
func (t TypeRef) MapperKey() (TypeID, bool) {
	d := t.Deref()
	if d.Kind != TypeKindNamed {
		return TypeID{}, false
	}

	return d.ID, true
}

// String returns Go-like notation for the reference.
func (t TypeRef) String() string {
	switch t.Kind {
	case TypeKindBasic:
		return t.ID.Name
	case TypeKindNamed:
		return t.ID.Short()
	case TypeKindPointer:
		return "*" + elemString(t.Elem)
	case TypeKindSequence:
		return "[]" + elemString(t.Elem)
	case TypeKindMap:
		return "map[" + elemString(t.Key) + "]" + elemString(t.Elem)
	default:
		if t.ID.Name != "" {
			return t.ID.Name
		}

		return common.UnknownStr
	}
}

func elemString(t *TypeRef) string {
	if t == nil {
		return common.UnknownStr
	}

	return t.String()
}

// Mutability describes how a member can be written.
type Mutability int

const (
	Settable Mutability = iota // public setter
	InitOnly                   // settable only during construction
	ReadOnly                   // no setter
)

// String returns a human-readable representation of the Mutability.
func (m Mutability) String() string {
	switch m {
	case Settable:
		return "settable"
	case InitOnly:
		return "init-only"
	case ReadOnly:
		return "readonly"
	default:
		return common.UnknownStr
	}
}

// Member is a data member of a shape.
type Member struct {
	Name       string
	Type       TypeRef
	Mutability Mutability
}

// CanSet reports whether the member has a public, non init-only setter.
func (m *Member) CanSet() bool {
	return m.Mutability == Settable
}

// Visibility of a constructor or factory.
type Visibility int

const (
	Public Visibility = iota
	Private
)

// String returns a human-readable representation of the Visibility.
func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Private:
		return "private"
	default:
		return common.UnknownStr
	}
}

// Param is a constructor or factory parameter.
type Param struct {
	Name     string
	Type     TypeRef
	Optional bool
	Nullable bool
}

// Method describes a constructor or a static factory.
type Method struct {
	Name       string
	Params     []Param
	Returns    TypeRef
	Visibility Visibility
	Static     bool
}

// IsPublic reports whether the method is publicly callable.
func (m *Method) IsPublic() bool {
	return m.Visibility == Public
}

// Arity returns the number of parameters.
func (m *Method) Arity() int {
	return len(m.Params)
}

// Param returns the parameter with the given exact name.
func (m *Method) Param(name string) (*Param, bool) {
	for i := range m.Params {
		if m.Params[i].Name == name {
			return &m.Params[i], true
		}
	}

	return nil, false
}

// Signature returns "Name(a T, b U)".
func (m *Method) Signature() string {
	parts := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		parts = append(parts, p.Name+" "+p.Type.String())
	}

	name := m.Name
	if name == "" {
		name = "<ctor>"
	}

	return name + "(" + strings.Join(parts, ", ") + ")"
}

// Shape is the structural description of one type. Shapes are immutable
// once added to a catalog.
type Shape struct {
	ID           TypeID
	Members      []Member
	Constructors []Method
	Factories    []Method
	// IsValue marks an immutable value shape. When Primary is set only the
	// primary constructor may be used to create it.
	IsValue bool
	// Primary is the index of the canonical constructor, -1 when absent.
	Primary int
	// DtoOf is set when the shape is annotated as a DTO of another type.
	DtoOf *TypeID
}

// PrimaryConstructor returns the canonical constructor of a value shape.
func (s *Shape) PrimaryConstructor() (*Method, bool) {
	if !s.IsValue || s.Primary < 0 || s.Primary >= len(s.Constructors) {
		return nil, false
	}

	return &s.Constructors[s.Primary], true
}

// Member returns the member with the exact name.
func (s *Shape) Member(name string) (*Member, bool) {
	for i := range s.Members {
		if s.Members[i].Name == name {
			return &s.Members[i], true
		}
	}

	return nil, false
}

// FindMember returns the first member whose name matches case-insensitively.
func (s *Shape) FindMember(name string) (*Member, bool) {
	for i := range s.Members {
		if strings.EqualFold(s.Members[i].Name, name) {
			return &s.Members[i], true
		}
	}

	return nil, false
}

// MemberNames returns member names in declaration order.
func (s *Shape) MemberNames() []string {
	names := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		names = append(names, m.Name)
	}

	return names
}

// Catalog supplies shapes by type identity.
type Catalog interface {
	Shape(id TypeID) (*Shape, bool)
	IDs() []TypeID
}

// TypeGraph is the in-memory Catalog built by loaders.
type TypeGraph struct {
	// Shapes maps TypeID to the shape of every named struct type.
	Shapes map[TypeID]*Shape
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Shapes:   make(map[TypeID]*Shape),
		Packages: make(map[string]*PackageInfo),
	}
}

// Add registers a shape, replacing any previous shape with the same ID.
func (g *TypeGraph) Add(s *Shape) {
	g.Shapes[s.ID] = s

	pkg, ok := g.Packages[s.ID.PkgPath]
	if !ok {
		pkg = &PackageInfo{Path: s.ID.PkgPath, Name: common.PkgAlias(s.ID.PkgPath)}
		g.Packages[s.ID.PkgPath] = pkg
	}

	for _, id := range pkg.Types {
		if id == s.ID {
			return
		}
	}

	pkg.Types = append(pkg.Types, s.ID)
}

// Shape returns the shape for a TypeID.
func (g *TypeGraph) Shape(id TypeID) (*Shape, bool) {
	s, ok := g.Shapes[id]
	return s, ok
}

// IDs returns all shape IDs in sorted order.
func (g *TypeGraph) IDs() []TypeID {
	ids := make([]TypeID, 0, len(g.Shapes))
	for id := range g.Shapes {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	return ids
}

// Resolve resolves a type reference string like:
//   - "domain.Product" (package alias)
//   - "mapper-planner/sample/domain.Product" (full)
//   - "Product" (name only).
//
// Candidates are examined in sorted order so ambiguous short names resolve
// the same way on every run.
func (g *TypeGraph) Resolve(ref string) (TypeID, bool) {
	if ref == "" {
		return TypeID{}, false
	}

	if !strings.Contains(ref, ".") {
		for _, id := range g.IDs() {
			if id.Name == ref {
				return id, true
			}
		}

		return TypeID{}, false
	}

	want := ParseTypeID(ref)
	if want.PkgPath == "" || want.Name == "" {
		return TypeID{}, false
	}

	if _, ok := g.Shapes[want]; ok {
		return want, true
	}

	for _, id := range g.IDs() {
		if id.Name != want.Name {
			continue
		}

		if strings.HasSuffix(id.PkgPath, "/"+want.PkgPath) {
			return id, true
		}
	}

	return TypeID{}, false
}

// Merge copies all shapes of other into g.
func (g *TypeGraph) Merge(other *TypeGraph) {
	for _, id := range other.IDs() {
		g.Add(other.Shapes[id])
	}
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}
