// Package report turns summarized data into rendered documents. Each
// output format has its own renderer; all of them consume the same
// Report value, so a report renders identically regardless of format.
package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkline-labs/tabreport/internal/summary"
)

// Format identifies a target document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name from config or flags.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatPDF, FormatDOCX, FormatHTML:
		return Format(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("unsupported output format: %q (want pdf, docx, or html)", s)
}

// Report is a rendered-format-independent document model. It is built
// once per input file and handed to every requested renderer.
type Report struct {
	Title       string
	Description string
	Source      string
	GeneratedAt time.Time
	Table       *summary.Table
	Stats       []summary.ColumnStats
	ChartPNG    []byte
	ChartTitle  string
}

// BaseName derives the output file stem from the input file name.
func (r *Report) BaseName() string {
	base := filepath.Base(r.Source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_report"
}

// ExecutiveSummary produces the lead paragraph: totals for each
// aggregated measure and the top group.
func (r *Report) ExecutiveSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "This report summarizes %d rows from %s",
		r.Table.SourceRows, filepath.Base(r.Source))
	if r.Table.DroppedRows > 0 {
		fmt.Fprintf(&b, " (%d rows dropped due to non-numeric values)", r.Table.DroppedRows)
	}
	b.WriteString(". ")

	for i, m := range r.Table.Measures {
		label := strings.ToLower(m.DisplayLabel())
		if m.Op == summary.OpSum {
			fmt.Fprintf(&b, "The %s is %s. ", label, FormatMeasure(m, r.Table.Totals[i]))
		} else {
			fmt.Fprintf(&b, "The overall %s is %s. ", label, FormatMeasure(m, r.Table.Totals[i]))
		}
	}

	if r.TopGroup() != "" {
		fmt.Fprintf(&b, "The top %s by %s is %q.",
			strings.ToLower(r.Table.GroupBy),
			strings.ToLower(r.Table.Measures[0].DisplayLabel()),
			r.TopGroup())
	}
	return b.String()
}

// TopGroup returns the leading group by the primary measure.
func (r *Report) TopGroup() string {
	return r.Table.TopGroup
}

// Renderer converts a Report into document bytes for one format.
type Renderer interface {
	Format() Format
	Render(r *Report) ([]byte, error)
}

// Ext returns the file extension (with dot) for a format.
func (f Format) Ext() string {
	return "." + string(f)
}
