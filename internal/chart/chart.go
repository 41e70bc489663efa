// Package chart renders summary tables into PNG chart images for
// embedding in generated documents.
package chart

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/inkline-labs/tabreport/internal/summary"
)

// Spec selects what to chart from an aggregation table.
type Spec struct {
	Measure string // measure column; empty selects the first measure
	Title   string
}

const (
	chartWidth  = 6 * vg.Inch
	chartHeight = 3 * vg.Inch
)

var barWidth = vg.Points(24)

// Bar renders a bar chart of one measure per group and returns the
// encoded PNG. Rendering is deterministic for identical tables.
func Bar(t *summary.Table, spec Spec) ([]byte, error) {
	if len(t.Groups) == 0 {
		return nil, fmt.Errorf("cannot chart an empty aggregation table")
	}

	idx, err := measureIndex(t, spec.Measure)
	if err != nil {
		return nil, err
	}

	values := make(plotter.Values, len(t.Groups))
	names := make([]string, len(t.Groups))
	for i, g := range t.Groups {
		values[i] = g.Values[idx]
		names[i] = g.Key
	}

	p := plot.New()
	p.Title.Text = spec.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("%s by %s", t.Measures[idx].DisplayLabel(), t.GroupBy)
	}
	p.Y.Label.Text = t.Measures[idx].DisplayLabel()
	p.X.Label.Text = t.GroupBy

	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 54, G: 110, B: 186, A: 255}
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(names...)

	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func measureIndex(t *summary.Table, measure string) (int, error) {
	if measure == "" {
		return 0, nil
	}
	for i, m := range t.Measures {
		if m.Column == measure {
			return i, nil
		}
	}
	return 0, fmt.Errorf("chart measure %q is not an aggregated column", measure)
}
