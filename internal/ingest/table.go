package ingest

import (
	"fmt"
	"strings"
)

// Table is a raw tabular file: every row as read, no header applied yet.
// Ledger exports frequently carry preamble rows (account metadata, date ranges)
// above the real header, so the header is located by content, not position.
type Table struct {
	Rows [][]string
}

// ColIndex maps trimmed column names to their position in a row.
type ColIndex map[string]int

// SchemaError reports a required input column that could not be found.
// It is fatal for the run: no output is produced.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column %q not found in input", e.Column)
}

// Locate scans for the first row containing every required column and returns
// the column index map plus the index of the header row. When no row qualifies,
// the row with the most hits is used to name the first missing column.
func (t *Table) Locate(required []string) (ColIndex, int, error) {
	bestHits := -1
	bestMissing := ""

	for rowIdx, row := range t.Rows {
		cols := make(ColIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		hits := 0
		missing := ""

		for _, name := range required {
			if _, ok := cols[name]; ok {
				hits++
			} else if missing == "" {
				missing = name
			}
		}

		if missing == "" {
			return cols, rowIdx, nil
		}

		if hits > bestHits {
			bestHits = hits
			bestMissing = missing
		}
	}

	if bestMissing == "" && len(required) > 0 {
		bestMissing = required[0]
	}

	return nil, 0, &SchemaError{Column: bestMissing}
}

// Body returns the data rows below the given header row index.
func (t *Table) Body(headerIdx int) [][]string {
	if headerIdx+1 >= len(t.Rows) {
		return nil
	}

	return t.Rows[headerIdx+1:]
}

// Cell safely gets a trimmed cell value from a row.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
