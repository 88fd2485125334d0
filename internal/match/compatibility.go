package match

import (
	"mapper-planner/internal/analyze"
)

// TypeCompatibility is how close two member types are. Higher is better.
type TypeCompatibility int

const (
	// TypeIncompatible means the shapes of the types differ.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsMapper means both sides are named types or sequences of them,
	// so a registered mapper could bridge them.
	TypeNeedsMapper
	// TypeConvertible means both sides are numeric basic types.
	TypeConvertible
	// TypeIndirect means the types are identical behind one pointer level.
	TypeIndirect
	// TypeIdentical means the types are identical.
	TypeIdentical
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return "identical"
	case TypeIndirect:
		return "indirect"
	case TypeConvertible:
		return "convertible"
	case TypeNeedsMapper:
		return "needs_mapper"
	case TypeIncompatible:
		return "incompatible"
	default:
		return "unknown"
	}
}

// weight maps compatibility onto 0..1.
func (c TypeCompatibility) weight() float64 {
	switch c {
	case TypeIdentical:
		return 1
	case TypeIndirect:
		return 0.9
	case TypeConvertible:
		return 0.7
	case TypeNeedsMapper:
		return 0.4
	default:
		return 0
	}
}

var numeric = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "float32": true, "float64": true, "byte": true, "rune": true,
}

// Compatibility compares a source member type with a target member type.
func Compatibility(source, target analyze.TypeRef) TypeCompatibility {
	switch {
	case source.Identical(target):
		return TypeIdentical
	case source.Deref().Identical(target.Deref()):
		return TypeIndirect
	case isNumeric(source) && isNumeric(target):
		return TypeConvertible
	case bridgeable(source, target):
		return TypeNeedsMapper
	default:
		return TypeIncompatible
	}
}

func isNumeric(t analyze.TypeRef) bool {
	return t.Kind == analyze.TypeKindBasic && numeric[t.ID.Name]
}

func bridgeable(source, target analyze.TypeRef) bool {
	if se, ok := source.ElemType(); ok {
		te, ok := target.ElemType()
		return ok && bridgeable(se, te)
	}

	_, sok := source.MapperKey()
	_, tok := target.MapperKey()

	return sok && tok
}
