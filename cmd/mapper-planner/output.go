package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"mapper-planner/internal/analyze"
	"mapper-planner/internal/diagnostic"
	"mapper-planner/internal/pipeline"
)

// Output formats.
const (
	formatYAML  = "yaml"
	formatJSON  = "json"
	formatTable = "table"
)

func validFormat(f string) error {
	switch f {
	case formatYAML, formatJSON, formatTable:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want yaml, json or table)", f)
	}
}

func writeReport(w io.Writer, report *pipeline.Report, format string) error {
	switch format {
	case formatYAML:
		data, err := report.Document().YAML()
		if err != nil {
			return fmt.Errorf("failed to encode plans: %w", err)
		}

		_, err = w.Write(data)

		return err
	case formatJSON:
		data, err := report.Document().JSON()
		if err != nil {
			return fmt.Errorf("failed to encode plans: %w", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	case formatTable:
		writePlanTable(w, report)
		writeDiagnostics(w, &report.Diagnostics)

		return nil
	default:
		return validFormat(format)
	}
}

func writePlanTable(w io.Writer, report *pipeline.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Mapper", "Kind", "Types", "Creation", "Instructions", "Emittable"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)

	for _, p := range report.Plans() {
		table.Append([]string{
			p.Mapper,
			p.Kind.String(),
			p.TypePair(),
			p.Creation.Method.String(),
			strconv.Itoa(len(p.Instructions)),
			strconv.FormatBool(p.Emittable()),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d mappers", len(report.Mappers)),
		"", "", "", "",
		fmt.Sprintf("%d plans", len(report.Plans())),
	})
	table.Render()
}

func writeDiagnostics(w io.Writer, d *diagnostic.Diagnostics) {
	for _, diag := range d.All() {
		_, _ = fmt.Fprintf(w, "%s: %s\n", diag.Severity, diag.String())
	}
}

func writeShapeTable(w io.Writer, catalog analyze.Catalog) {
	var s analyze.TypeStringer

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Shape", "Kind", "Members", "Creation"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)

	ids := catalog.IDs()
	for _, id := range ids {
		shape, ok := catalog.Shape(id)
		if !ok {
			continue
		}

		table.Append([]string{id.Short(), s.Kind(shape), s.Members(shape), s.Creation(shape)})
	}

	table.SetFooter([]string{fmt.Sprintf("%d shapes", len(ids)), "", "", ""})
	table.Render()
}
