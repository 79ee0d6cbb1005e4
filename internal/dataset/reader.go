package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrEmptyFile  = errors.New("csv file is empty")
	ErrNoDataRows = errors.New("csv file has a header but no data rows")
)

// ReadCSV parses CSV data into a typed frame. The first record is the header.
// Ragged rows are rejected; duplicate header names get a numeric suffix the
// way spreadsheet tools disambiguate them.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	names := dedupeHeader(header)
	cols := make([]*Column, len(names))
	for i, name := range names {
		cols[i] = &Column{Name: name}
	}

	rows := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// encoding/csv reports ragged rows as ErrFieldCount
			return nil, fmt.Errorf("failed to read csv row %d: %w", rows+2, err)
		}
		for i, cell := range record {
			cols[i].Raw = append(cols[i].Raw, strings.TrimSpace(cell))
			cols[i].Null = append(cols[i].Null, IsNullToken(cell))
		}
		rows++
	}

	if rows == 0 {
		return nil, ErrNoDataRows
	}

	for _, col := range cols {
		col.DType = InferDType(col.Raw, col.Null)
	}

	return NewFrame(cols)
}

// ReadCSVString is a convenience wrapper for tests and the CLI
func ReadCSVString(data string) (*Frame, error) {
	return ReadCSV(strings.NewReader(data))
}

func dedupeHeader(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if count, dup := seen[name]; dup {
			seen[name] = count + 1
			name = fmt.Sprintf("%s_%d", name, count+1)
		}
		if _, exists := seen[name]; !exists {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}
