package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkline-labs/tabreport/internal/summary"
)

func sampleReport() *Report {
	return &Report{
		Title:       "Monthly Sales Performance Report",
		Description: "Overview of sales performance by product.",
		Source:      "input/sales_data.csv",
		GeneratedAt: time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC),
		Table: &summary.Table{
			GroupBy: "Product",
			Measures: []summary.Measure{
				{Column: "TotalPrice", Op: summary.OpSum, Label: "Total Revenue", Currency: true},
				{Column: "Quantity", Op: summary.OpSum, Label: "Total Quantity"},
			},
			Groups: []summary.Group{
				{Key: "Widget", Values: []float64{1259.37, 63}, Count: 3},
				{Key: "Gadget", Values: []float64{841.50, 17}, Count: 2},
			},
			Totals:     []float64{2100.87, 80},
			TopGroup:   "Widget",
			SourceRows: 5,
		},
		Stats: []summary.ColumnStats{
			{Column: "Quantity", Count: 5, Mean: 16, Median: 12, StdDev: 8.5, Min: 5, Max: 30},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatPDF, false},
		{"PDF", FormatPDF, false},
		{"docx", FormatDOCX, false},
		{"html", FormatHTML, false},
		{"doc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormat_Ext(t *testing.T) {
	assert.Equal(t, ".pdf", FormatPDF.Ext())
	assert.Equal(t, ".docx", FormatDOCX.Ext())
	assert.Equal(t, ".html", FormatHTML.Ext())
}

func TestReport_BaseName(t *testing.T) {
	r := &Report{Source: "/data/input/sales_data.csv"}
	assert.Equal(t, "sales_data_report", r.BaseName())

	r = &Report{Source: "inventory.xlsx"}
	assert.Equal(t, "inventory_report", r.BaseName())
}

func TestReport_ExecutiveSummary(t *testing.T) {
	s := sampleReport().ExecutiveSummary()

	assert.Contains(t, s, "summarizes 5 rows from sales_data.csv")
	assert.Contains(t, s, "The total revenue is $2,100.87.")
	assert.Contains(t, s, "The total quantity is 80.")
	assert.Contains(t, s, `The top product by total revenue is "Widget".`)
	assert.NotContains(t, s, "dropped")
}

func TestReport_ExecutiveSummary_DroppedRows(t *testing.T) {
	r := sampleReport()
	r.Table.DroppedRows = 2

	assert.Contains(t, r.ExecutiveSummary(), "(2 rows dropped due to non-numeric values)")
}

func TestFormatMeasure(t *testing.T) {
	currency := summary.Measure{Currency: true}
	plain := summary.Measure{}

	assert.Equal(t, "$1,234.50", FormatMeasure(currency, 1234.5))
	assert.Equal(t, "$0.10", FormatMeasure(currency, 0.1))
	assert.Equal(t, "1,234", FormatMeasure(plain, 1234))
	assert.Equal(t, "12.34", FormatMeasure(plain, 12.34))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1,200.50", FormatFloat(1200.5))
	assert.Equal(t, "3.00", FormatFloat(3))
}
