package mapping

import (
	"errors"
	"fmt"

	"mapper-planner/internal/analyze"
	"mapper-planner/internal/policy"
)

var (
	// ErrUnsupportedVersion is returned for an unknown file format version.
	ErrUnsupportedVersion = errors.New("unsupported mapping file version")
	// ErrInvalidMapper is returned for a malformed mapper definition.
	ErrInvalidMapper = errors.New("invalid mapper")
)

// Validate checks a mapping file against a catalog. All problems are
// returned joined together.
//
// Unknown calls inside a policy are not errors: the policy parser skips
// them, the same way it skips any malformed fragment.
func Validate(mf *MappingFile, graph *analyze.TypeGraph) error {
	var errs []error

	if mf.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnsupportedVersion, mf.Version))
	}

	seen := make(map[string]int)

	for i := range mf.Mappers {
		m := &mf.Mappers[i]
		errs = append(errs, validateMapper(i, m, graph)...)

		if m.Name == "" {
			continue
		}

		if prev, dup := seen[m.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: mappers[%d]: name %q already used by mappers[%d]",
				ErrInvalidMapper, i, m.Name, prev))

			continue
		}

		seen[m.Name] = i
	}

	return errors.Join(errs...)
}

func validateMapper(i int, m *MapperDef, graph *analyze.TypeGraph) []error {
	var errs []error

	where := fmt.Sprintf("mappers[%d]", i)
	if m.Name != "" {
		where += " (" + m.Name + ")"
	}

	if m.Name == "" {
		errs = append(errs, fmt.Errorf("%w: %s: name is required", ErrInvalidMapper, where))
	}

	refs := []struct{ field, ref string }{
		{"source", m.Source},
		{"destination", m.Destination},
	}

	for _, r := range refs {
		field, ref := r.field, r.ref
		if ref == "" {
			errs = append(errs, fmt.Errorf("%w: %s: %s is required", ErrInvalidMapper, where, field))
			continue
		}

		if _, ok := graph.Resolve(ref); !ok {
			errs = append(errs, fmt.Errorf("%w: %s: %s type %q: %w",
				ErrInvalidMapper, where, field, ref, analyze.ErrShapeNotFound))
		}
	}

	for j, p := range m.Policies {
		if _, ok := policy.KindForEntryPoint(p.For); !ok {
			errs = append(errs, fmt.Errorf("%w: %s: policies[%d]: unknown entry point %q",
				ErrInvalidMapper, where, j, p.For))
		}
	}

	return errs
}
