// Package writer exports extracted records to CSV for users who want a
// spreadsheet next to the database.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/insightdelivered/ledger-extractor/internal/models"
)

// attachedColumns are the fields reconciliation adds to every record; they
// trail the report's own columns in the export.
var attachedColumns = []string{"fiscal_year", "period", "account_id"}

// CSVWriter writes one record kind to CSV.
type CSVWriter struct {
	// Columns is the report's column order for this record kind.
	Columns []string
}

// WriteToFile writes the records to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, records []models.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, records)
}

// Write writes the records in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, records []models.Record) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	header := append(append([]string{}, w.Columns...), attachedColumns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := make([]string, 0, len(header))
		for _, col := range header {
			row = append(row, formatValue(rec[col]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}
