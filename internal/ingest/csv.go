// Package ingest decodes uploaded transaction exports into datasets.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"findash/internal/core"
)

// ErrUnsupportedFormat reports an upload in a format the dashboard cannot
// parse. The upload UI historically also accepted PDF files, but only CSV
// was ever decoded; everything that is not CSV lands here.
var ErrUnsupportedFormat = errors.New("unsupported file format, upload a CSV export")

// Decode parses an uploaded file into a dataset, dispatching on the
// filename extension. Only ".csv" (any case) is supported.
func Decode(filename string, r io.Reader) (core.Dataset, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return core.Dataset{}, fmt.Errorf("%q: %w", filename, ErrUnsupportedFormat)
	}
	return DecodeCSV(r)
}

// DecodeCSV parses a comma-separated export with a header line naming the
// columns. Every cell is kept as trimmed text; schema checks happen at
// aggregation, not here.
func DecodeCSV(r io.Reader) (core.Dataset, error) {
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	header, err := csvr.Read()
	if err == io.EOF {
		return core.Dataset{}, nil
	}
	if err != nil {
		return core.Dataset{}, fmt.Errorf("parse csv header: %w", err)
	}

	ds := core.Dataset{Columns: make([]string, len(header))}
	for i, col := range header {
		ds.Columns[i] = strings.TrimSpace(col)
	}

	line := 1
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return core.Dataset{}, fmt.Errorf("parse csv line %d: %w", line, err)
		}

		record := make(core.Record, len(ds.Columns))
		for i, col := range ds.Columns {
			if i < len(rec) {
				record[col] = strings.TrimSpace(rec[i])
			}
		}
		ds.Records = append(ds.Records, record)
	}
	return ds, nil
}
