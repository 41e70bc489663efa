package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads the first sheet of an Excel workbook into a DataSet.
func LoadXLSX(path string) (*DataSet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	return fromRecords(path, rows)
}
