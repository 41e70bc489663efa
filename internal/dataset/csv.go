package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
)

// LoadCSV reads a comma-separated file into a DataSet.
func LoadCSV(path string) (*DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Rows narrower or wider than the header are normalized in
	// fromRecords rather than rejected here.
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", path, err)
	}

	return fromRecords(path, records)
}
