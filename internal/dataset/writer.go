package dataset

import (
	"bytes"
	"encoding/csv"
)

// WriteCSV serializes the frame back to CSV with a header row.
// Null cells are written as empty strings regardless of their
// original token.
func WriteCSV(f *Frame) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(f.Columns()); err != nil {
		return nil, err
	}

	record := make([]string, len(f.cols))
	for i := 0; i < f.rows; i++ {
		for j, col := range f.cols {
			if col.Null[i] {
				record[j] = ""
			} else {
				record[j] = col.Raw[i]
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
