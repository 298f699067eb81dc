package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV renders a single sheet as plain CSV. Styling is lost by nature of
// the format; the subtotal/total labels in the cells keep the rows readable.
func WriteCSV(w io.Writer, sheet *Sheet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(sheet.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range sheet.Rows {
		if err := cw.Write(row.Cells); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}
