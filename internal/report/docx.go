package report

import (
	"fmt"
	"io"
	"os"

	"github.com/benjaminschreck/go-stencil/pkg/stencil"
)

// DOCXRenderer fills a user-supplied Word template. The template uses
// stencil placeholder syntax ({{title}}, {{for row in rows}}...); the
// renderer only supplies the data.
type DOCXRenderer struct {
	TemplatePath string
}

func (d *DOCXRenderer) Format() Format { return FormatDOCX }

func (d *DOCXRenderer) Render(r *Report) ([]byte, error) {
	if d.TemplatePath == "" {
		return nil, fmt.Errorf("docx output requires a template: put report.docx in the templates directory")
	}
	if _, err := os.Stat(d.TemplatePath); err != nil {
		return nil, fmt.Errorf("docx template not readable: %w", err)
	}

	tmpl, err := stencil.PrepareFile(d.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare docx template %s: %w", d.TemplatePath, err)
	}
	defer tmpl.Close()

	out, err := tmpl.Render(d.templateData(r))
	if err != nil {
		return nil, fmt.Errorf("failed to render docx template: %w", err)
	}

	data, err := io.ReadAll(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered docx: %w", err)
	}
	return data, nil
}

// templateData flattens the report into the loosely typed shape the
// stencil engine consumes.
func (d *DOCXRenderer) templateData(r *Report) stencil.TemplateData {
	rows := make([]map[string]interface{}, 0, len(r.Table.Groups))
	for _, g := range r.Table.Groups {
		row := map[string]interface{}{
			"key":   g.Key,
			"count": g.Count,
		}
		values := make([]string, len(g.Values))
		for i, v := range g.Values {
			values[i] = FormatMeasure(r.Table.Measures[i], v)
		}
		row["values"] = values
		rows = append(rows, row)
	}

	totals := make([]string, len(r.Table.Totals))
	for i, v := range r.Table.Totals {
		totals[i] = FormatMeasure(r.Table.Measures[i], v)
	}

	measures := make([]string, len(r.Table.Measures))
	for i, m := range r.Table.Measures {
		measures[i] = m.DisplayLabel()
	}

	stats := make([]map[string]interface{}, 0, len(r.Stats))
	for _, s := range r.Stats {
		stats = append(stats, map[string]interface{}{
			"column": s.Column,
			"count":  s.Count,
			"mean":   FormatFloat(s.Mean),
			"median": FormatFloat(s.Median),
			"stddev": FormatFloat(s.StdDev),
			"min":    FormatFloat(s.Min),
			"max":    FormatFloat(s.Max),
		})
	}

	return stencil.TemplateData{
		"title":       r.Title,
		"description": r.Description,
		"source":      r.Source,
		"generatedAt": r.GeneratedAt.UTC().Format("2006-01-02"),
		"summary":     r.ExecutiveSummary(),
		"groupBy":     r.Table.GroupBy,
		"measures":    measures,
		"rows":        rows,
		"totals":      totals,
		"topGroup":    r.TopGroup(),
		"stats":       stats,
	}
}
