package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/inkline-labs/tabreport/internal/cli/output"
	"github.com/inkline-labs/tabreport/internal/dataset"
	"github.com/inkline-labs/tabreport/internal/report"
	"github.com/inkline-labs/tabreport/internal/summary"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	var previewRows int

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Preview a tabular input file",
		Long: `Load a CSV or XLSX file and show its columns, inferred types, summary
statistics for numeric columns, and the first rows of data.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Preview a CSV file
  tabreport inspect input/sales_data.csv

  # Show more rows
  tabreport inspect input/sales_data.csv --rows 25

  # Machine-readable column profile
  tabreport inspect input/sales_data.csv --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], previewRows)
		},
	}

	cmd.Flags().IntVarP(&previewRows, "rows", "n", 10, "Number of rows to preview")

	return cmd
}

func runInspect(cmd *cobra.Command, path string, previewRows int) error {
	r := output.FromContext(cmd.Context())

	ds, err := dataset.Load(path)
	if err != nil {
		return err
	}
	stats := summary.Describe(ds)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return inspectJSON(r, ds, stats)
	case output.ModeMarkdown:
		return inspectMarkdown(r, ds, stats, previewRows)
	default:
		return inspectText(r, ds, stats, previewRows)
	}
}

func inspectText(r *output.Renderer, ds *dataset.DataSet, stats []summary.ColumnStats, previewRows int) error {
	r.Header(1, fmt.Sprintf("%s (%d rows, %d columns)", ds.Source, len(ds.Rows), len(ds.Columns)))
	r.Println("")

	r.Header(2, "Columns")
	for _, col := range ds.Columns {
		r.StatusLine(col, "success", string(ds.Types[col]))
	}

	if len(stats) > 0 {
		r.Println("")
		r.Header(2, "Numeric Columns")
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Column", "Count", "Mean", "Median", "Std Dev", "Min", "Max"})
		for _, s := range stats {
			t.AppendRow(table.Row{
				s.Column, s.Count,
				report.FormatFloat(s.Mean),
				report.FormatFloat(s.Median),
				report.FormatFloat(s.StdDev),
				report.FormatFloat(s.Min),
				report.FormatFloat(s.Max),
			})
		}
		r.Println(t.Render())
	}

	r.Println("")
	r.Header(2, "Preview")
	r.Println(previewTable(ds, previewRows).Render())
	if len(ds.Rows) > previewRows {
		r.Muted(fmt.Sprintf("... %d more rows", len(ds.Rows)-previewRows))
	}

	return nil
}

func inspectMarkdown(r *output.Renderer, ds *dataset.DataSet, stats []summary.ColumnStats, previewRows int) error {
	r.Println(output.FormatHeader(1, fmt.Sprintf("%s (%d rows, %d columns)", ds.Source, len(ds.Rows), len(ds.Columns))))
	r.Println("")

	r.Println(output.FormatHeader(2, "Columns"))
	for _, col := range ds.Columns {
		r.Println(output.FormatKeyValue(col, string(ds.Types[col])))
	}

	if len(stats) > 0 {
		r.Println("")
		r.Println(output.FormatHeader(2, "Numeric Columns"))
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Column", "Count", "Mean", "Median", "Std Dev", "Min", "Max"})
		for _, s := range stats {
			t.AppendRow(table.Row{
				s.Column, s.Count,
				report.FormatFloat(s.Mean),
				report.FormatFloat(s.Median),
				report.FormatFloat(s.StdDev),
				report.FormatFloat(s.Min),
				report.FormatFloat(s.Max),
			})
		}
		r.Println(t.RenderMarkdown())
	}

	r.Println("")
	r.Println(output.FormatHeader(2, "Preview"))
	r.Println(previewTable(ds, previewRows).RenderMarkdown())

	return nil
}

func inspectJSON(r *output.Renderer, ds *dataset.DataSet, stats []summary.ColumnStats) error {
	type columnInfo struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	columns := make([]columnInfo, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		columns = append(columns, columnInfo{Name: col, Type: string(ds.Types[col])})
	}

	return r.JSON(struct {
		Source  string                `json:"source"`
		Rows    int                   `json:"rows"`
		Columns []columnInfo          `json:"columns"`
		Stats   []summary.ColumnStats `json:"stats,omitempty"`
	}{
		Source:  ds.Source,
		Rows:    len(ds.Rows),
		Columns: columns,
		Stats:   stats,
	})
}

// previewTable builds a go-pretty table with the first n rows.
func previewTable(ds *dataset.DataSet, n int) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		header = append(header, col)
	}
	t.AppendHeader(header)

	if n > len(ds.Rows) {
		n = len(ds.Rows)
	}
	for _, row := range ds.Rows[:n] {
		cells := make(table.Row, 0, len(ds.Columns))
		for _, col := range ds.Columns {
			cells = append(cells, row[col])
		}
		t.AppendRow(cells)
	}
	return t
}
