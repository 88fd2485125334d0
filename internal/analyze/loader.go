package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Doc directives recognized on type declarations.
const (
	directivePrefix = "mapper:"
	directiveValue  = "value"
	directiveOpaque = "opaque"
	directiveDto    = "dto="
)

// Struct tag values recognized under the "mapper" key.
const (
	tagKey      = "mapper"
	tagReadOnly = "readonly"
	tagInitOnly = "init"
	tagSkip     = "-"
)

// Loader loads Go packages and builds a catalog of shapes.
//
// Go has no constructors, so the loader maps Go conventions onto shapes:
//   - every exported struct can be built with a composite literal, which is
//     its public parameterless constructor (unless marked opaque or value)
//   - funcs named New<T>... returning T or *T are constructors
//   - other funcs returning T or *T are static factories
//   - a trailing variadic parameter is optional, pointer parameters are nullable
type Loader struct {
	dir   string
	graph *TypeGraph
	// dtoRefs holds unresolved dto annotations until all packages are loaded.
	dtoRefs map[TypeID]string
}

// NewLoader creates a Loader resolving patterns relative to dir
// (empty means the current directory).
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:     dir,
		graph:   NewTypeGraph(),
		dtoRefs: make(map[TypeID]string),
	}
}

// LoadPackages loads the specified packages and returns the shape catalog.
// Patterns are standard Go package patterns (e.g., "./sample/...").
func (l *Loader) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  l.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		l.processPackage(pkg)
	}

	if err := l.resolveDtoRefs(); err != nil {
		return nil, err
	}

	return l.graph, nil
}

// Graph returns the current catalog.
func (l *Loader) Graph() *TypeGraph {
	return l.graph
}

// processPackage extracts shapes, constructors and factories from a package.
func (l *Loader) processPackage(pkg *packages.Package) {
	directives := collectDirectives(pkg.Syntax)
	scope := pkg.Types.Scope()

	// Shapes first, so funcs can attach to them regardless of name order.
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		st, ok := typeName.Type().Underlying().(*types.Struct)
		if !ok {
			continue
		}

		id := TypeID{PkgPath: pkg.PkgPath, Name: name}
		l.graph.Add(l.buildShape(id, st, directives[name]))
	}

	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok {
			continue
		}

		l.attachFunc(pkg.PkgPath, fn)
	}

	for _, id := range l.graph.Packages[pkg.PkgPath].typesOrNil() {
		if s := l.graph.Shapes[id]; s.IsValue {
			s.Primary = primaryIndex(s)
		}
	}
}

func (p *PackageInfo) typesOrNil() []TypeID {
	if p == nil {
		return nil
	}

	return p.Types
}

func (l *Loader) buildShape(id TypeID, st *types.Struct, directives []string) *Shape {
	shape := &Shape{ID: id, Primary: -1}

	opaque := false

	for _, d := range directives {
		switch {
		case d == directiveValue:
			shape.IsValue = true
		case d == directiveOpaque:
			opaque = true
		case strings.HasPrefix(d, directiveDto):
			l.dtoRefs[id] = strings.TrimSpace(strings.TrimPrefix(d, directiveDto))
		}
	}

	if !shape.IsValue && !opaque {
		shape.Constructors = append(shape.Constructors, Method{
			Returns:    Named(id),
			Visibility: Public,
		})
	}

	seen := make(map[string]bool)
	shape.Members = appendStructMembers(shape.Members, st, seen)

	return shape
}

// appendStructMembers appends exported fields. Fields of embedded structs are
// promoted unless shadowed by an outer field.
func appendStructMembers(members []Member, st *types.Struct, seen map[string]bool) []Member {
	var embedded []*types.Struct

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)

		if field.Embedded() {
			if inner, ok := field.Type().Underlying().(*types.Struct); ok {
				embedded = append(embedded, inner)
				continue
			}
		}

		if !field.Exported() || seen[field.Name()] {
			continue
		}

		mut := Settable

		switch reflect.StructTag(st.Tag(i)).Get(tagKey) {
		case tagSkip:
			continue
		case tagReadOnly:
			mut = ReadOnly
		case tagInitOnly:
			mut = InitOnly
		}

		seen[field.Name()] = true
		members = append(members, Member{
			Name:       field.Name(),
			Type:       typeRef(field.Type()),
			Mutability: mut,
		})
	}

	for _, inner := range embedded {
		members = appendStructMembers(members, inner, seen)
	}

	return members
}

// attachFunc records fn as a constructor or factory of the shape it returns.
func (l *Loader) attachFunc(pkgPath string, fn *types.Func) {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() != nil || sig.TypeParams().Len() > 0 {
		return
	}

	ret, ok := returnedShape(sig)
	if !ok || ret.PkgPath != pkgPath {
		return
	}

	shape, ok := l.graph.Shapes[ret]
	if !ok {
		return
	}

	m := Method{
		Name:       fn.Name(),
		Params:     params(sig),
		Returns:    Named(ret),
		Visibility: Private,
	}
	if fn.Exported() {
		m.Visibility = Public
	}

	if isConstructorName(fn.Name(), ret.Name) {
		shape.Constructors = append(shape.Constructors, m)
		return
	}

	m.Static = true
	shape.Factories = append(shape.Factories, m)
}

// returnedShape accepts T, *T, (T, error) and (*T, error).
func returnedShape(sig *types.Signature) (TypeID, bool) {
	res := sig.Results()

	switch res.Len() {
	case 1:
	case 2:
		if res.At(1).Type().String() != "error" {
			return TypeID{}, false
		}
	default:
		return TypeID{}, false
	}

	t := res.At(0).Type()
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return TypeID{}, false
	}

	return TypeID{PkgPath: named.Obj().Pkg().Path(), Name: named.Obj().Name()}, true
}

func isConstructorName(fn, typeName string) bool {
	return strings.HasPrefix(fn, "New"+typeName) || strings.HasPrefix(fn, "new"+typeName)
}

func params(sig *types.Signature) []Param {
	tuple := sig.Params()
	out := make([]Param, 0, tuple.Len())

	for i := 0; i < tuple.Len(); i++ {
		v := tuple.At(i)
		ref := typeRef(v.Type())
		out = append(out, Param{
			Name:     v.Name(),
			Type:     ref,
			Optional: sig.Variadic() && i == tuple.Len()-1,
			Nullable: ref.IsNullable(),
		})
	}

	return out
}

// primaryIndex returns the index of the public New<T> constructor of a value
// shape if it is the only public constructor.
func primaryIndex(s *Shape) int {
	idx := -1

	for i := range s.Constructors {
		c := &s.Constructors[i]
		if !c.IsPublic() {
			continue
		}

		if idx >= 0 {
			return -1
		}

		idx = i
	}

	return idx
}

// typeRef converts a go/types type into a TypeRef.
func typeRef(t types.Type) TypeRef {
	switch tt := types.Unalias(t).(type) {
	case *types.Named:
		obj := tt.Obj()

		id := TypeID{Name: obj.Name()}
		if obj.Pkg() != nil {
			id.PkgPath = obj.Pkg().Path()
		}

		return Named(id)
	case *types.Basic:
		return Basic(tt.Name())
	case *types.Pointer:
		return PointerTo(typeRef(tt.Elem()))
	case *types.Slice:
		return SequenceOf(typeRef(tt.Elem()))
	case *types.Array:
		return SequenceOf(typeRef(tt.Elem()))
	case *types.Map:
		return MapOf(typeRef(tt.Key()), typeRef(tt.Elem()))
	default:
		return TypeRef{Kind: TypeKindUnknown, ID: TypeID{Name: t.String()}}
	}
}

// collectDirectives returns mapper: directives keyed by type name.
func collectDirectives(files []*ast.File) map[string][]string {
	out := make(map[string][]string)

	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				if d := ExtractDirectives(doc); len(d) > 0 {
					out[ts.Name.Name] = d
				}
			}
		}
	}

	return out
}

// ExtractDirectives returns the text after "mapper:" of every directive
// comment in doc, e.g. "//mapper:dto=domain.Product" yields "dto=domain.Product".
func ExtractDirectives(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}

	var out []string

	for _, comment := range doc.List {
		text := strings.TrimSpace(comment.Text)

		if strings.HasPrefix(text, "//") {
			text = strings.TrimSpace(text[2:])
		} else if strings.HasPrefix(text, "/*") && strings.HasSuffix(text, "*/") {
			text = strings.TrimSpace(text[2 : len(text)-2])
		}

		if after, ok := strings.CutPrefix(text, directivePrefix); ok {
			out = append(out, strings.TrimSpace(after))
		}
	}

	return out
}

// resolveDtoRefs turns dto annotations into type IDs once every package is
// known.
func (l *Loader) resolveDtoRefs() error {
	ids := make([]TypeID, 0, len(l.dtoRefs))
	for id := range l.dtoRefs {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		ref := l.dtoRefs[id]

		target, ok := l.graph.Resolve(ref)
		if !ok {
			return fmt.Errorf("%s: dto annotation references unknown type %q: %w", id, ref, ErrShapeNotFound)
		}

		l.graph.Shapes[id].DtoOf = &target
	}

	clear(l.dtoRefs)

	return nil
}
