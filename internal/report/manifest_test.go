package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkline-labs/tabreport/internal/dataset"
	"github.com/inkline-labs/tabreport/internal/summary"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func manifestDataSet() *dataset.DataSet {
	return &dataset.DataSet{
		Source:  "sales_data.csv",
		Columns: []string{"Region", "Product", "Quantity", "UnitPrice"},
		Rows: []dataset.Row{
			{"Region": "North", "Product": "Widget", "Quantity": "10", "UnitPrice": "2.00"},
		},
		Types: map[string]dataset.ColumnType{
			"Region":    dataset.TypeString,
			"Product":   dataset.TypeString,
			"Quantity":  dataset.TypeInteger,
			"UnitPrice": dataset.TypeNumeric,
		},
	}
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `title: Sales Report
group_by: Product
top_n: 5
derived:
  - name: TotalPrice
    multiply: [Quantity, UnitPrice]
measures:
  - column: TotalPrice
    op: sum
    label: Total Revenue
    currency: true
chart:
  measure: TotalPrice
  title: Revenue by Product
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "Sales Report", m.Title)
	assert.Equal(t, "Product", m.GroupBy)
	assert.Equal(t, 5, m.TopN)
	require.Len(t, m.Derived, 1)
	assert.Equal(t, []string{"Quantity", "UnitPrice"}, m.Derived[0].Multiply)
	require.Len(t, m.Measures, 1)
	assert.True(t, m.Measures[0].Currency)
	require.NotNil(t, m.Chart)
	assert.Equal(t, "TotalPrice", m.Chart.Measure)
}

func TestLoadManifest_Invalid(t *testing.T) {
	path := writeManifest(t, "title: [unclosed")
	_, err := LoadManifest(path)
	assert.Error(t, err)
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestManifest_Spec_Explicit(t *testing.T) {
	m := &Manifest{
		GroupBy: "Product",
		Derived: []DerivedManifest{{Name: "TotalPrice", Multiply: []string{"Quantity", "UnitPrice"}}},
		Measures: []MeasureManifest{
			{Column: "TotalPrice", Op: "sum", Label: "Total Revenue", Currency: true},
		},
		TopN: 3,
	}

	spec, err := m.Spec(manifestDataSet())
	require.NoError(t, err)

	assert.Equal(t, "Product", spec.GroupBy)
	assert.Equal(t, 3, spec.TopN)
	require.Len(t, spec.Measures, 1)
	assert.Equal(t, summary.OpSum, spec.Measures[0].Op)
	require.Len(t, spec.Derived, 1)
	assert.Equal(t, [2]string{"Quantity", "UnitPrice"}, spec.Derived[0].Multiply)
}

func TestManifest_Spec_InfersDefaults(t *testing.T) {
	spec, err := (&Manifest{}).Spec(manifestDataSet())
	require.NoError(t, err)

	// First string column groups, every numeric column is summed
	assert.Equal(t, "Region", spec.GroupBy)
	require.Len(t, spec.Measures, 2)
	assert.Equal(t, "Quantity", spec.Measures[0].Column)
	assert.Equal(t, summary.OpSum, spec.Measures[0].Op)
	assert.Equal(t, "UnitPrice", spec.Measures[1].Column)
}

func TestManifest_Spec_Errors(t *testing.T) {
	tests := []struct {
		name string
		m    *Manifest
		ds   *dataset.DataSet
	}{
		{
			name: "no string column to group by",
			m:    &Manifest{},
			ds: &dataset.DataSet{
				Source:  "x.csv",
				Columns: []string{"V"},
				Types:   map[string]dataset.ColumnType{"V": dataset.TypeInteger},
			},
		},
		{
			name: "no numeric columns to aggregate",
			m:    &Manifest{},
			ds: &dataset.DataSet{
				Source:  "x.csv",
				Columns: []string{"Name"},
				Types:   map[string]dataset.ColumnType{"Name": dataset.TypeString},
			},
		},
		{
			name: "bad operator",
			m: &Manifest{
				GroupBy:  "Product",
				Measures: []MeasureManifest{{Column: "Quantity", Op: "median"}},
			},
			ds: manifestDataSet(),
		},
		{
			name: "derived needs two columns",
			m: &Manifest{
				GroupBy: "Product",
				Derived: []DerivedManifest{{Name: "X", Multiply: []string{"Quantity"}}},
			},
			ds: manifestDataSet(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.m.Spec(tt.ds)
			assert.Error(t, err)
		})
	}
}

func TestManifest_TitleFor(t *testing.T) {
	assert.Equal(t, "Custom", (&Manifest{Title: "Custom"}).TitleFor("Product"))
	assert.Equal(t, "Summary Report by Product", (&Manifest{}).TitleFor("Product"))
}
