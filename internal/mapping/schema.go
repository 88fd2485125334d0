package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"mapper-planner/internal/analyze"
	"mapper-planner/internal/common"
)

// CurrentVersion is the mapping file format version.
const CurrentVersion = "1"

// MappingFile is the root of a mapping file.
type MappingFile struct {
	// Version of the file format.
	Version string `yaml:"version"`
	// Packages are Go package patterns to load shapes from.
	Packages []string `yaml:"packages,omitempty"`
	// Shapes are declared inline, in addition to loaded packages.
	Shapes []analyze.ShapeSpec `yaml:"shapes,omitempty"`
	// Mappers are the explicit mapper definitions.
	Mappers []MapperDef `yaml:"mappers"`

	// Path is the file the mapping was loaded from, if any.
	Path string `yaml:"-"`
}

// MapperDef declares one mapper.
type MapperDef struct {
	// Name of the mapper. Defaults to "<Destination type>Mapper".
	Name string `yaml:"name,omitempty"`
	// Source type reference, e.g. "domain.Product".
	Source string `yaml:"source"`
	// Destination type reference, e.g. "dtos.ProductDto".
	Destination string `yaml:"destination"`
	// Policies configure the plans of the mapper.
	Policies []PolicyDef `yaml:"policies,omitempty"`
}

// PolicyDef is one policy chain: an entry point and its calls.
type PolicyDef struct {
	// For is the entry point: ForCreation, ForModification or ForProjection.
	For   string    `yaml:"for"`
	Calls []CallDef `yaml:"calls,omitempty"`
}

// CallDef is one call of a policy chain. In YAML it is either a bare name
// ("IgnoreId") or a single-key map from the call name to its argument(s)
// ("Try: UseSetters", "Map: Name").
type CallDef struct {
	Name string
	Args StringOrArray
}

// UnmarshalYAML implements custom YAML unmarshaling for CallDef.
func (c *CallDef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}

		*c = CallDef{Name: name}

		return nil

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: a call must have exactly one key, got %d", node.Line, len(node.Content)/2)
		}

		var name string
		if err := node.Content[0].Decode(&name); err != nil {
			return err
		}

		var args StringOrArray

		value := node.Content[1]
		if !(value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
			if err := value.Decode(&args); err != nil {
				return fmt.Errorf("line %d: call %s: %w", node.Line, name, err)
			}
		}

		*c = CallDef{Name: name, Args: args}

		return nil

	default:
		return fmt.Errorf("line %d: expected call name or single-key map", node.Line)
	}
}

// MarshalYAML implements custom YAML marshaling for CallDef.
func (c CallDef) MarshalYAML() (any, error) {
	if c.Args.IsEmpty() {
		return c.Name, nil
	}

	return map[string]StringOrArray{c.Name: c.Args}, nil
}

// StringOrArray holds one or more strings. YAML accepts a scalar or a list.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if v, ok := common.Single(s); ok {
		return v, nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return len(s) == 0
}
