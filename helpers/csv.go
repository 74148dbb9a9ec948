package helpers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tcia-tools/apollo-report/table"
)

// ============================================================================
// CSV HELPER — Table ↔ CSV bytes
// ============================================================================
// Export writes UTF-8 CSV with a header row in the table's column order;
// null cells render empty. Parse reads everything back as strings — typing
// is the filter engine's coercion pass, not the reader's job.
// ============================================================================

// WriteCSV streams a table as CSV: header row first, nulls as empty cells.
func WriteCSV(tbl *table.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(tbl.Columns))
	for _, row := range tbl.Rows {
		for i, cell := range row {
			record[i] = cell.Render()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVBytes renders a table to an in-memory CSV document.
func CSVBytes(tbl *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(tbl, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseCSV reads CSV bytes into a table of string cells; empty cells become
// null. Malformed rows are skipped.
func ParseCSV(data []byte) (*table.Table, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	tbl := table.New(headers...)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		cells := make([]table.Value, len(headers))
		for i := range headers {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				cells[i] = table.Str(row[i])
			} else {
				cells[i] = table.Null()
			}
		}
		tbl.AppendRow(cells...)
	}
	return tbl, nil
}
