package report

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
)

//go:embed templates/report.html.tmpl
var htmlTemplates embed.FS

// HTMLRenderer renders a report as a standalone HTML page. When
// TemplatePath names an existing file it is parsed instead of the
// embedded default, so projects can restyle reports without rebuilding.
type HTMLRenderer struct {
	TemplatePath string
}

func (h *HTMLRenderer) Format() Format { return FormatHTML }

// htmlRow is one pre-formatted table row handed to the template.
type htmlRow struct {
	Key    string
	Values []string
	Count  int
}

// htmlData is the full template context.
type htmlData struct {
	Title        string
	Description  string
	GeneratedAt  string
	Source       string
	Summary      string
	GroupBy      string
	MeasureNames []string
	Rows         []htmlRow
	Totals       []string
	Stats        []htmlStatsRow
	ChartURI     template.URL
	ChartTitle   string
}

type htmlStatsRow struct {
	Column string
	Count  int
	Mean   string
	Median string
	StdDev string
	Min    string
	Max    string
}

func (h *HTMLRenderer) Render(r *Report) ([]byte, error) {
	tmpl, err := h.load()
	if err != nil {
		return nil, err
	}

	data := htmlData{
		Title:       r.Title,
		Description: r.Description,
		GeneratedAt: r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
		Source:      r.Source,
		Summary:     r.ExecutiveSummary(),
		GroupBy:     r.Table.GroupBy,
		ChartTitle:  r.ChartTitle,
	}

	for _, m := range r.Table.Measures {
		data.MeasureNames = append(data.MeasureNames, m.DisplayLabel())
	}
	for _, g := range r.Table.Groups {
		row := htmlRow{Key: g.Key, Count: g.Count}
		for i, v := range g.Values {
			row.Values = append(row.Values, FormatMeasure(r.Table.Measures[i], v))
		}
		data.Rows = append(data.Rows, row)
	}
	for i, v := range r.Table.Totals {
		data.Totals = append(data.Totals, FormatMeasure(r.Table.Measures[i], v))
	}
	for _, s := range r.Stats {
		data.Stats = append(data.Stats, htmlStatsRow{
			Column: s.Column,
			Count:  s.Count,
			Mean:   FormatFloat(s.Mean),
			Median: FormatFloat(s.Median),
			StdDev: FormatFloat(s.StdDev),
			Min:    FormatFloat(s.Min),
			Max:    FormatFloat(s.Max),
		})
	}

	if len(r.ChartPNG) > 0 {
		data.ChartURI = template.URL("data:image/png;base64," +
			base64.StdEncoding.EncodeToString(r.ChartPNG))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}
	return buf.Bytes(), nil
}

func (h *HTMLRenderer) load() (*template.Template, error) {
	if h.TemplatePath != "" {
		if _, err := os.Stat(h.TemplatePath); err == nil {
			tmpl, err := template.ParseFiles(h.TemplatePath)
			if err != nil {
				return nil, fmt.Errorf("failed to parse HTML template %s: %w", h.TemplatePath, err)
			}
			return tmpl, nil
		}
	}
	tmpl, err := template.ParseFS(htmlTemplates, "templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded HTML template: %w", err)
	}
	return tmpl, nil
}
