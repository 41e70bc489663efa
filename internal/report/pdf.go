package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer lays the report out programmatically: title header and
// numbered footer on every page, executive summary, grouped table,
// optional chart, and column statistics.
type PDFRenderer struct{}

func (p *PDFRenderer) Format() Format { return FormatPDF }

func (p *PDFRenderer) Render(r *Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// The creation date is the only timestamp fpdf embeds; pinning it
	// to the injected clock keeps output bytes reproducible.
	pdf.SetCreationDate(r.GeneratedAt.UTC())
	pdf.SetTitle(r.Title, true)
	pdf.SetCreator("tabreport", true)

	pdf.AliasNbPages("")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 15)
		pdf.CellFormat(0, 10, tr(r.Title), "", 1, "C", false, 0, "")
		pdf.Ln(6)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	if r.Description != "" {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 6, tr(r.Description), "", "L", false)
		pdf.Ln(4)
	}

	p.sectionTitle(pdf, "Executive Summary")
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 8, tr(r.ExecutiveSummary()), "", "L", false)
	pdf.Ln(6)

	p.sectionTitle(pdf, fmt.Sprintf("%s Breakdown", r.Table.GroupBy))
	p.groupTable(pdf, tr, r)
	pdf.Ln(6)

	if len(r.ChartPNG) > 0 {
		title := r.ChartTitle
		if title == "" {
			title = "Chart"
		}
		p.sectionTitle(pdf, title)
		p.chartImage(pdf, r.ChartPNG)
		pdf.Ln(6)
	}

	if len(r.Stats) > 0 {
		p.sectionTitle(pdf, "Column Statistics")
		p.statsTable(pdf, tr, r)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *PDFRenderer) sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (p *PDFRenderer) groupTable(pdf *fpdf.Fpdf, tr func(string) string, r *Report) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	// Group column gets a third of the width; measures and the row
	// count share the rest.
	keyW := usable / 3
	numCols := len(r.Table.Measures) + 1
	colW := (usable - keyW) / float64(numCols)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 242, 245)
	pdf.CellFormat(keyW, 9, tr(r.Table.GroupBy), "1", 0, "C", true, 0, "")
	for _, m := range r.Table.Measures {
		pdf.CellFormat(colW, 9, tr(m.DisplayLabel()), "1", 0, "C", true, 0, "")
	}
	pdf.CellFormat(colW, 9, "Rows", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, g := range r.Table.Groups {
		pdf.CellFormat(keyW, 8, tr(g.Key), "1", 0, "L", false, 0, "")
		for i, v := range g.Values {
			pdf.CellFormat(colW, 8, FormatMeasure(r.Table.Measures[i], v), "1", 0, "R", false, 0, "")
		}
		pdf.CellFormat(colW, 8, fmt.Sprintf("%d", g.Count), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(keyW, 8, "Total", "1", 0, "L", true, 0, "")
	for i, v := range r.Table.Totals {
		pdf.CellFormat(colW, 8, FormatMeasure(r.Table.Measures[i], v), "1", 0, "R", true, 0, "")
	}
	pdf.CellFormat(colW, 8, "", "1", 1, "R", true, 0, "")
}

func (p *PDFRenderer) statsTable(pdf *fpdf.Fpdf, tr func(string) string, r *Report) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	headers := []string{"Column", "Count", "Mean", "Median", "Std Dev", "Min", "Max"}
	colW := usable / float64(len(headers))

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(240, 242, 245)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(colW, 8, h, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, s := range r.Stats {
		pdf.CellFormat(colW, 7, tr(s.Column), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW, 7, fmt.Sprintf("%d", s.Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW, 7, FormatFloat(s.Mean), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW, 7, FormatFloat(s.Median), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW, 7, FormatFloat(s.StdDev), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW, 7, FormatFloat(s.Min), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW, 7, FormatFloat(s.Max), "1", 1, "R", false, 0, "")
	}
}

func (p *PDFRenderer) chartImage(pdf *fpdf.Fpdf, png []byte) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("summary-chart", opts, bytes.NewReader(png))

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	pdf.ImageOptions("summary-chart", left, pdf.GetY(), usable, 0, true, opts, 0, "")
}
