package diagnostic

import "fmt"

// Kind describes a class of diagnostics. Codes and message templates are
// stable; external reporting tools match on them.
type Kind struct {
	Code     string
	Title    string
	Template string
	Severity DiagnosticSeverity
}

var (
	// UnexpectedError is reported when planning a mapper faulted. Only that
	// mapper is abandoned.
	UnexpectedError = Kind{
		Code:     "PR0001",
		Title:    "An unexpected error occurred",
		Template: "An unexpected error occurred during mapper planning: '%s'",
		Severity: DiagnosticError,
	}

	// MapperGenerationFailed is reserved. Nothing reports it yet.
	MapperGenerationFailed = Kind{
		Code:     "PR0002",
		Title:    "Mapper generation failed",
		Template: "Failed to generate an implementation for mapper '%s'",
		Severity: DiagnosticError,
	}

	// NoValidCreationMethod blocks emission of the creation path of one mapper.
	NoValidCreationMethod = Kind{
		Code:     "PR0003",
		Title:    "No valid creation method found",
		Template: "could not find a valid constructor or static factory method to create an instance of '%s' based on the source type",
		Severity: DiagnosticError,
	}

	// UnmappableConstructorParameter explains which parameter kept a
	// candidate from being selected.
	UnmappableConstructorParameter = Kind{
		Code:     "PR0004",
		Title:    "Unmappable constructor parameter",
		Template: "the parameter '%s' of '%s' could not be mapped from any source member",
		Severity: DiagnosticInfo,
	}

	// UnmappedDestinationMember is a non-fatal partial mapping.
	UnmappedDestinationMember = Kind{
		Code:     "PR0005",
		Title:    "Unmapped destination member",
		Template: "the member '%s' on destination type '%s' was not mapped",
		Severity: DiagnosticWarning,
	}
)

// Kinds lists every known kind in code order.
func Kinds() []Kind {
	return []Kind{
		UnexpectedError,
		MapperGenerationFailed,
		NoValidCreationMethod,
		UnmappableConstructorParameter,
		UnmappedDestinationMember,
	}
}

// New builds a diagnostic from a kind, using the kind's default severity.
func New(kind Kind, loc Location, args ...any) Diagnostic {
	return Diagnostic{
		Severity: kind.Severity,
		Code:     kind.Code,
		Kind:     kind,
		Message:  fmt.Sprintf(kind.Template, args...),
		Location: loc,
	}
}

// WithSuggestions returns a copy of d carrying the given suggestions.
func (d Diagnostic) WithSuggestions(s []string) Diagnostic {
	if len(s) == 0 {
		return d
	}

	d.Suggestions = append([]string(nil), s...)

	return d
}
