// Package dataset loads tabular sources (CSV, XLSX) into an in-memory
// DataSet. A DataSet is loaded once per run and treated as immutable
// afterwards; all downstream stages read from it without copying.
package dataset

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ColumnType classifies the values observed in a column.
type ColumnType string

const (
	TypeString    ColumnType = "string"
	TypeNumeric   ColumnType = "numeric"
	TypeInteger   ColumnType = "integer"
	TypeTimestamp ColumnType = "timestamp"
)

// Row maps column name to the raw cell value as loaded from the source.
type Row map[string]string

// DataSet is an ordered collection of rows with a header and inferred
// column types.
type DataSet struct {
	Source  string
	Columns []string
	Rows    []Row
	Types   map[string]ColumnType
}

// SupportedExtensions lists the tabular file extensions Load accepts.
var SupportedExtensions = []string{".csv", ".xlsx"}

// IsSupported reports whether path has a loadable tabular extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Load reads a tabular source chosen by file extension.
func Load(path string) (*DataSet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", filepath.Ext(path))
	}
}

// fromRecords builds a DataSet from raw records, the first record being
// the header. Short rows are padded with empty cells, long rows are
// truncated to the header width. All cells are trimmed.
func fromRecords(source string, records [][]string) (*DataSet, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: need a header row and at least one data row", source)
	}

	columns := make([]string, len(records[0]))
	for i, h := range records[0] {
		columns[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	ds := &DataSet{
		Source:  source,
		Columns: columns,
		Rows:    rows,
	}
	ds.Types = inferTypes(ds)
	return ds, nil
}

// Floats parses a column as float64. Cells that cannot be coerced are
// dropped; the second return value is the number of dropped cells.
func (d *DataSet) Floats(col string) ([]float64, int) {
	vals := make([]float64, 0, len(d.Rows))
	dropped := 0
	for _, row := range d.Rows {
		f, err := parseNumber(row[col])
		if err != nil {
			dropped++
			continue
		}
		vals = append(vals, f)
	}
	return vals, dropped
}

// NumericColumns returns the columns inferred as numeric or integer,
// in header order.
func (d *DataSet) NumericColumns() []string {
	var cols []string
	for _, c := range d.Columns {
		if t := d.Types[c]; t == TypeNumeric || t == TypeInteger {
			cols = append(cols, c)
		}
	}
	return cols
}

// StringColumns returns the columns inferred as string, in header order.
func (d *DataSet) StringColumns() []string {
	var cols []string
	for _, c := range d.Columns {
		if d.Types[c] == TypeString {
			cols = append(cols, c)
		}
	}
	return cols
}

// parseNumber accepts plain floats plus common spreadsheet decorations
// (thousands separators, leading currency sign).
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}

// timestampLayouts are tried in order during type inference.
var timestampLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02.01.2006",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
