package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"sales.csv", true},
		{"sales.CSV", true},
		{"sales.xlsx", true},
		{"sales.xls", false},
		{"sales.json", false},
		{"sales", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupported(tt.path), tt.path)
	}
}

func TestLoadCSV_Basic(t *testing.T) {
	path := writeCSV(t, `Product,Quantity,UnitPrice
Widget,12,19.99
Gadget,5,49.50
`)

	ds, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Product", "Quantity", "UnitPrice"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "Widget", ds.Rows[0]["Product"])
	assert.Equal(t, "49.50", ds.Rows[1]["UnitPrice"])
}

func TestLoadCSV_RaggedRows(t *testing.T) {
	path := writeCSV(t, `A,B,C
1,2,3
4,5
6,7,8,9
`)

	ds, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 3)

	// Short rows are padded, long rows truncated
	assert.Equal(t, "", ds.Rows[1]["C"])
	assert.Equal(t, "8", ds.Rows[2]["C"])
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	path := writeCSV(t, "A,B,C\n")

	_, err := LoadCSV(path)
	assert.Error(t, err)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Product", "Quantity"},
		{"Widget", 12},
		{"Gadget", 5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := LoadXLSX(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Product", "Quantity"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "Widget", ds.Rows[0]["Product"])
	assert.Equal(t, "12", ds.Rows[0]["Quantity"])
	assert.Equal(t, TypeInteger, ds.Types["Quantity"])
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("data.parquet")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input format")
}

func TestInferTypes(t *testing.T) {
	path := writeCSV(t, `Name,Count,Price,When,Mixed
Alice,3,1.50,2026-07-01,1
Bob,7,2.25,2026-07-02,x
Carol,2,0.99,2026-07-03,y
`)

	ds, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, TypeString, ds.Types["Name"])
	assert.Equal(t, TypeInteger, ds.Types["Count"])
	assert.Equal(t, TypeNumeric, ds.Types["Price"])
	assert.Equal(t, TypeTimestamp, ds.Types["When"])
	assert.Equal(t, TypeString, ds.Types["Mixed"])
}

func TestInferTypes_EmptyCellsIgnored(t *testing.T) {
	path := writeCSV(t, `V
1
2

3
`)

	ds, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, TypeInteger, ds.Types["V"])
}

func TestFloats(t *testing.T) {
	path := writeCSV(t, `Amount
"1,200.50"
$42
oops
3
`)

	ds, err := LoadCSV(path)
	require.NoError(t, err)

	vals, dropped := ds.Floats("Amount")
	assert.Equal(t, []float64{1200.50, 42, 3}, vals)
	assert.Equal(t, 1, dropped)
}

func TestNumericAndStringColumns(t *testing.T) {
	path := writeCSV(t, `Region,Qty,Price
North,1,2.5
South,2,3.5
`)

	ds, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Qty", "Price"}, ds.NumericColumns())
	assert.Equal(t, []string{"Region"}, ds.StringColumns())
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"42", 42, false},
		{" 19.99 ", 19.99, false},
		{"$1,234.56", 1234.56, false},
		{"-3.5", -3.5, false},
		{"", 0, true},
		{"n/a", 0, true},
	}

	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSampleIndices(t *testing.T) {
	// Small datasets are used in full
	assert.Len(t, sampleIndices(10, 500), 10)

	// Large datasets are capped and span the whole range
	idx := sampleIndices(10000, 500)
	assert.LessOrEqual(t, len(idx), 500)
	assert.Equal(t, 0, idx[0])
	assert.Greater(t, idx[len(idx)-1], 9000)
}
