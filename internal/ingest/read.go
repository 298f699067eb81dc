package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	enc "github.com/ledgerkit/keystone/internal/encoding"
)

// Read parses an uploaded tabular file into a Table, choosing the parser by
// file extension. Anything that is not a spreadsheet is treated as CSV.
func Read(filename string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	default:
		return ReadCSV(r)
	}
}

// ReadCSV reads a CSV export. The charset is detected (legacy codepages are
// common in accounting exports) and the delimiter is sniffed between ';' and ','.
func ReadCSV(r io.Reader) (*Table, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return &Table{Rows: rows}, nil
}

// sniffDelimiter picks ';' or ',' by which occurs more in the first chunk.
func sniffDelimiter(br *bufio.Reader) rune {
	head, _ := br.Peek(2048)

	semis := strings.Count(string(head), ";")
	commas := strings.Count(string(head), ",")

	if semis > commas {
		return ';'
	}

	return ','
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return &Table{Rows: rows}, nil
}
