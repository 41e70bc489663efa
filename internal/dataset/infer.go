package dataset

import "math"

// inferSampleSize caps how many rows inference inspects per column.
const inferSampleSize = 500

// typeThreshold is the fraction of non-empty cells that must coerce to
// a type before the column is classified as that type.
const typeThreshold = 0.9

// inferTypes classifies each column by sampling rows evenly across the
// dataset and counting how many cells coerce to each candidate type.
func inferTypes(d *DataSet) map[string]ColumnType {
	types := make(map[string]ColumnType, len(d.Columns))
	sample := sampleIndices(len(d.Rows), inferSampleSize)

	for _, col := range d.Columns {
		var nonEmpty, numeric, integer, timestamp int
		for _, idx := range sample {
			v := d.Rows[idx][col]
			if v == "" {
				continue
			}
			nonEmpty++
			if f, err := parseNumber(v); err == nil {
				numeric++
				if f == math.Trunc(f) {
					integer++
				}
				continue
			}
			if _, ok := parseTimestamp(v); ok {
				timestamp++
			}
		}

		switch {
		case nonEmpty == 0:
			types[col] = TypeString
		case ratio(numeric, nonEmpty) >= typeThreshold && integer == numeric:
			types[col] = TypeInteger
		case ratio(numeric, nonEmpty) >= typeThreshold:
			types[col] = TypeNumeric
		case ratio(timestamp, nonEmpty) >= typeThreshold:
			types[col] = TypeTimestamp
		default:
			types[col] = TypeString
		}
	}
	return types
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// sampleIndices returns up to size row indices distributed evenly
// across totalRows.
func sampleIndices(totalRows, size int) []int {
	if size >= totalRows {
		idx := make([]int, totalRows)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	idx := make([]int, 0, size)
	step := float64(totalRows) / float64(size)
	for i := 0; i < size; i++ {
		j := int(math.Round(float64(i) * step))
		if j < totalRows {
			idx = append(idx, j)
		}
	}
	return idx
}
