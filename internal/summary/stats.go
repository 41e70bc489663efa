package summary

import (
	"github.com/montanaflynn/stats"

	"github.com/inkline-labs/tabreport/internal/dataset"
)

// ColumnStats holds descriptive statistics for one numeric column.
type ColumnStats struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Dropped int     `json:"dropped"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Describe computes descriptive statistics for every numeric column in
// the dataset, in header order. Columns with no coercible values are
// skipped.
func Describe(ds *dataset.DataSet) []ColumnStats {
	var out []ColumnStats
	for _, col := range ds.NumericColumns() {
		vals, dropped := ds.Floats(col)
		if len(vals) == 0 {
			continue
		}

		data := stats.Float64Data(vals)
		mean, _ := data.Mean()
		median, _ := data.Median()
		stddev, _ := data.StandardDeviation()
		minV, _ := data.Min()
		maxV, _ := data.Max()

		out = append(out, ColumnStats{
			Column:  col,
			Count:   len(vals),
			Dropped: dropped,
			Mean:    mean,
			Median:  median,
			StdDev:  stddev,
			Min:     minV,
			Max:     maxV,
		})
	}
	return out
}
