package analyze

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ShapeSpec is the YAML form of a Shape.
type ShapeSpec struct {
	ID           string       `yaml:"id"`
	Value        bool         `yaml:"value,omitempty"`
	Primary      *int         `yaml:"primary,omitempty"`
	DtoOf        string       `yaml:"dto_of,omitempty"`
	Members      []MemberSpec `yaml:"members,omitempty"`
	Constructors []MethodSpec `yaml:"constructors,omitempty"`
	Factories    []MethodSpec `yaml:"factories,omitempty"`
}

// MemberSpec is the YAML form of a Member.
type MemberSpec struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Access string `yaml:"access,omitempty"` // settable (default), init, readonly
}

// MethodSpec is the YAML form of a constructor or factory.
type MethodSpec struct {
	Name       string      `yaml:"name,omitempty"`
	Params     []ParamSpec `yaml:"params,omitempty"`
	Returns    string      `yaml:"returns,omitempty"`
	Visibility string      `yaml:"visibility,omitempty"` // public (default) or private
}

// ParamSpec is the YAML form of a Param.
type ParamSpec struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional,omitempty"`
	Nullable bool   `yaml:"nullable,omitempty"`
}

type shapesFile struct {
	Shapes []ShapeSpec `yaml:"shapes"`
}

// LoadShapesFile reads a YAML shapes file.
func LoadShapesFile(path string) (*TypeGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shapes file %s: %w", path, err)
	}

	return ParseShapes(data)
}

// ParseShapes parses a YAML document with a top-level "shapes" list.
func ParseShapes(data []byte) (*TypeGraph, error) {
	var f shapesFile

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse shapes YAML: %w", err)
	}

	return BuildGraph(f.Shapes)
}

// BuildGraph converts shape specs into a catalog. Dto references are
// resolved against the resulting graph.
func BuildGraph(specs []ShapeSpec) (*TypeGraph, error) {
	graph := NewTypeGraph()
	if err := ExtendGraph(graph, specs); err != nil {
		return nil, err
	}

	return graph, nil
}

// ExtendGraph adds shape specs to an existing graph. A spec may not redefine
// a shape already present. Dto references resolve against the whole graph.
func ExtendGraph(graph *TypeGraph, specs []ShapeSpec) error {
	dtoRefs := make(map[TypeID]string)

	for i := range specs {
		shape, err := specs[i].Shape()
		if err != nil {
			return fmt.Errorf("shape %d (%s): %w", i, specs[i].ID, err)
		}

		if _, dup := graph.Shapes[shape.ID]; dup {
			return fmt.Errorf("duplicate shape %s", shape.ID)
		}

		graph.Add(shape)

		if specs[i].DtoOf != "" {
			dtoRefs[shape.ID] = specs[i].DtoOf
		}
	}

	for _, id := range graph.IDs() {
		ref, ok := dtoRefs[id]
		if !ok {
			continue
		}

		target, ok := graph.Resolve(ref)
		if !ok {
			return fmt.Errorf("%s: dto_of references unknown type %q: %w", id, ref, ErrShapeNotFound)
		}

		graph.Shapes[id].DtoOf = &target
	}

	return nil
}

// Shape converts the spec into a Shape.
func (s *ShapeSpec) Shape() (*Shape, error) {
	if s.ID == "" {
		return nil, errors.New("shape id is required")
	}

	id := ParseTypeID(s.ID)
	shape := &Shape{ID: id, IsValue: s.Value, Primary: -1}

	for _, m := range s.Members {
		member, err := m.member()
		if err != nil {
			return nil, err
		}

		shape.Members = append(shape.Members, member)
	}

	for _, c := range s.Constructors {
		method, err := c.method(Named(id))
		if err != nil {
			return nil, err
		}

		shape.Constructors = append(shape.Constructors, method)
	}

	for _, f := range s.Factories {
		method, err := f.method(Named(id))
		if err != nil {
			return nil, err
		}

		method.Static = true
		shape.Factories = append(shape.Factories, method)
	}

	switch {
	case s.Primary != nil:
		if *s.Primary < 0 || *s.Primary >= len(shape.Constructors) {
			return nil, fmt.Errorf("primary constructor index %d out of range", *s.Primary)
		}

		shape.Primary = *s.Primary
	case s.Value && len(shape.Constructors) == 1:
		shape.Primary = 0
	}

	return shape, nil
}

func (m MemberSpec) member() (Member, error) {
	if m.Name == "" {
		return Member{}, errors.New("member name is required")
	}

	t, err := ParseTypeRef(m.Type)
	if err != nil {
		return Member{}, fmt.Errorf("member %s: %w", m.Name, err)
	}

	member := Member{Name: m.Name, Type: t}

	switch strings.ToLower(m.Access) {
	case "", "settable":
		member.Mutability = Settable
	case "init", "init-only", "initonly":
		member.Mutability = InitOnly
	case "readonly", "read-only":
		member.Mutability = ReadOnly
	default:
		return Member{}, fmt.Errorf("member %s: unknown access %q", m.Name, m.Access)
	}

	return member, nil
}

func (m MethodSpec) method(owner TypeRef) (Method, error) {
	method := Method{Name: m.Name, Returns: owner}

	switch strings.ToLower(m.Visibility) {
	case "", "public":
		method.Visibility = Public
	case "private":
		method.Visibility = Private
	default:
		return Method{}, fmt.Errorf("method %s: unknown visibility %q", m.Name, m.Visibility)
	}

	if m.Returns != "" {
		ret, err := ParseTypeRef(m.Returns)
		if err != nil {
			return Method{}, fmt.Errorf("method %s: %w", m.Name, err)
		}

		method.Returns = ret
	}

	for _, p := range m.Params {
		t, err := ParseTypeRef(p.Type)
		if err != nil {
			return Method{}, fmt.Errorf("method %s param %s: %w", m.Name, p.Name, err)
		}

		method.Params = append(method.Params, Param{
			Name:     p.Name,
			Type:     t,
			Optional: p.Optional,
			Nullable: p.Nullable || t.IsNullable(),
		})
	}

	return method, nil
}

// predeclared lists Go's predeclared type names.
var predeclared = map[string]bool{
	"bool": true, "string": true, "error": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"byte": true, "rune": true, "float32": true, "float64": true,
	"complex64": true, "complex128": true,
}

// ParseTypeRef parses Go-like type notation: "int", "domain.Money",
// "*domain.Money", "[]domain.Money", "[4]int", "map[string]int".
func ParseTypeRef(s string) (TypeRef, error) {
	s = strings.TrimSpace(s)

	switch {
	case s == "":
		return TypeRef{}, errors.New("empty type")
	case strings.HasPrefix(s, "*"):
		elem, err := ParseTypeRef(s[1:])
		if err != nil {
			return TypeRef{}, err
		}

		return PointerTo(elem), nil
	case strings.HasPrefix(s, "map["):
		return parseMapRef(s)
	case strings.HasPrefix(s, "["):
		end := strings.Index(s, "]")
		if end < 0 {
			return TypeRef{}, fmt.Errorf("unterminated sequence type %q", s)
		}

		elem, err := ParseTypeRef(s[end+1:])
		if err != nil {
			return TypeRef{}, err
		}

		return SequenceOf(elem), nil
	case predeclared[s]:
		return Basic(s), nil
	default:
		return Named(ParseTypeID(s)), nil
	}
}

func parseMapRef(s string) (TypeRef, error) {
	depth := 0

	for i := len("map"); i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth > 0 {
				continue
			}

			key, err := ParseTypeRef(s[len("map["):i])
			if err != nil {
				return TypeRef{}, err
			}

			elem, err := ParseTypeRef(s[i+1:])
			if err != nil {
				return TypeRef{}, err
			}

			return MapOf(key, elem), nil
		}
	}

	return TypeRef{}, fmt.Errorf("unterminated map type %q", s)
}
