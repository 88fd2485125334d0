package plan

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"mapper-planner/internal/diagnostic"
	"mapper-planner/internal/registry"
)

// Document is the serialized form of a planning run.
type Document struct {
	RunID string    `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	Plans []PlanDoc `yaml:"plans" json:"plans"`
}

// PlanDoc is one serialized MappingPlan.
type PlanDoc struct {
	Mapper       string           `yaml:"mapper" json:"mapper"`
	Kind         string           `yaml:"kind" json:"kind"`
	Source       string           `yaml:"source" json:"source"`
	Destination  string           `yaml:"destination" json:"destination"`
	Emittable    bool             `yaml:"emittable" json:"emittable"`
	Creation     CreationDoc      `yaml:"creation" json:"creation"`
	Instructions []InstructionDoc `yaml:"instructions,omitempty" json:"instructions,omitempty"`
	Diagnostics  []DiagnosticDoc  `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// CreationDoc is a serialized CreationPlan.
type CreationDoc struct {
	Method    string       `yaml:"method" json:"method"`
	Candidate string       `yaml:"candidate,omitempty" json:"candidate,omitempty"`
	Bindings  []BindingDoc `yaml:"bindings,omitempty" json:"bindings,omitempty"`
}

// BindingDoc is a serialized ParameterBinding.
type BindingDoc struct {
	Param  string `yaml:"param" json:"param"`
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
	Mapper string `yaml:"mapper,omitempty" json:"mapper,omitempty"`
	Expr   string `yaml:"expr,omitempty" json:"expr,omitempty"`
}

// InstructionDoc is a serialized Instruction.
type InstructionDoc struct {
	Kind    string   `yaml:"kind" json:"kind"`
	Dest    string   `yaml:"dest" json:"dest"`
	Source  string   `yaml:"source,omitempty" json:"source,omitempty"`
	Sources []string `yaml:"sources,omitempty" json:"sources,omitempty"`
	Mapper  string   `yaml:"mapper,omitempty" json:"mapper,omitempty"`
	Format  string   `yaml:"format,omitempty" json:"format,omitempty"`
	Method  string   `yaml:"method,omitempty" json:"method,omitempty"`
	Expr    string   `yaml:"expr,omitempty" json:"expr,omitempty"`
}

// DiagnosticDoc is a serialized diagnostic.
type DiagnosticDoc struct {
	Code        string   `yaml:"code" json:"code"`
	Severity    string   `yaml:"severity" json:"severity"`
	Location    string   `yaml:"location" json:"location"`
	Message     string   `yaml:"message" json:"message"`
	Suggestions []string `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
}

// NewDocument serializes plans in the given order.
func NewDocument(runID string, plans []*MappingPlan) *Document {
	doc := &Document{RunID: runID, Plans: make([]PlanDoc, 0, len(plans))}
	for _, p := range plans {
		doc.Plans = append(doc.Plans, ExportPlan(p))
	}

	return doc
}

// YAML encodes the document as YAML.
func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// JSON encodes the document as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// ExportPlan serializes one plan.
func ExportPlan(p *MappingPlan) PlanDoc {
	doc := PlanDoc{
		Mapper:    p.Mapper,
		Kind:      p.Kind.String(),
		Source:    shapeName(p.Source),
		Emittable: p.Emittable(),
		Creation:  exportCreation(&p.Creation),
	}
	doc.Destination = shapeName(p.Destination)

	for _, in := range p.Instructions {
		doc.Instructions = append(doc.Instructions, ExportInstruction(in))
	}

	for _, d := range p.Diagnostics.All() {
		doc.Diagnostics = append(doc.Diagnostics, ExportDiagnostic(d))
	}

	return doc
}

func exportCreation(c *CreationPlan) CreationDoc {
	doc := CreationDoc{Method: c.Method.String()}
	if c.Candidate != nil {
		doc.Candidate = c.Candidate.Signature()
	}

	for _, b := range c.Bindings {
		bd := BindingDoc{Param: b.Param.Name, Source: b.SourceMember, Mapper: mapperName(b.Mapper)}
		if b.Override != nil {
			bd.Expr = b.Override.Text
		}

		doc.Bindings = append(doc.Bindings, bd)
	}

	return doc
}

// ExportInstruction serializes one instruction.
func ExportInstruction(in Instruction) InstructionDoc {
	doc := InstructionDoc{Kind: in.Kind().String(), Dest: in.Destination()}

	switch v := in.(type) {
	case SimpleMember:
		doc.Source = v.Source
	case NestedObject:
		doc.Source = v.Source
		doc.Mapper = mapperName(v.Mapper)
	case Collection:
		doc.Source = v.Source
		doc.Mapper = mapperName(v.ElementMapper)
	case Composite:
		doc.Sources = v.Sources
		doc.Format = v.Format
	case MethodCall:
		doc.Sources = v.Sources
		doc.Method = v.Method
	case CustomExpression:
		doc.Expr = v.Expr.Text
	}

	return doc
}

// ExportDiagnostic serializes one diagnostic.
func ExportDiagnostic(d diagnostic.Diagnostic) DiagnosticDoc {
	return DiagnosticDoc{
		Code:        d.Code,
		Severity:    d.Severity.String(),
		Location:    d.Location.String(),
		Message:     d.Message,
		Suggestions: d.Suggestions,
	}
}

func mapperName(def *registry.Definition) string {
	if def == nil {
		return ""
	}

	return def.Name
}
