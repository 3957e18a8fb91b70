package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/ofiscan/ofiscan/internal/listing"
)

// CSVWriter writes records as a flat table. Rows are buffered until
// Flush because the header is the sorted union of every key observed
// across the whole run.
type CSVWriter struct {
	w    io.Writer
	rows []map[string]string
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// Write buffers one record.
func (w *CSVWriter) Write(data any) error {
	row, err := flattenRow(data)
	if err != nil {
		return err
	}
	w.rows = append(w.rows, row)
	return nil
}

// WriteAll buffers multiple records.
func (w *CSVWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// flattenRow reduces a record to scalar columns. Image lists and reveal
// tokens have no tabular shape and are left out.
func flattenRow(data any) (map[string]string, error) {
	switch v := data.(type) {
	case listing.Record:
		return v.Flatten(), nil
	case *listing.Record:
		return v.Flatten(), nil
	case map[string]string:
		return v, nil
	default:
		return nil, fmt.Errorf("csv output does not support %T", data)
	}
}

// Flush writes the header and all buffered rows. With no rows it writes
// nothing at all, not even a header.
func (w *CSVWriter) Flush() error {
	if len(w.rows) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, row := range w.rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	header := make([]string, 0, len(seen))
	for k := range seen {
		header = append(header, k)
	}
	sort.Strings(header)

	cw := csv.NewWriter(w.w)
	if err := cw.Write(header); err != nil {
		return err
	}
	cells := make([]string, len(header))
	for _, row := range w.rows {
		for i, k := range header {
			cells[i] = row[k]
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Close flushes the writer.
func (w *CSVWriter) Close() error {
	return w.Flush()
}
