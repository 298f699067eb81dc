package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerkit/keystone/internal/report"
)

// WriteXLSX renders the sheets into one workbook: bold bordered headers, a
// merged group band when configured, black rows with white text for subtotals,
// a bold total row, and auto-sized columns.
func WriteXLSX(w io.Writer, sheets ...*Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("add sheet %q: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet); err != nil {
			return fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	return nil
}

func writeSheet(f *excelize.File, sheet *Sheet) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    boxBorder(),
	})
	if err != nil {
		return err
	}

	groupStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    boxBorder(),
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9EAD3"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	subtotalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"000000"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	headerRow := 1

	if sheet.GroupHeader != nil {
		headerRow = 2

		from, err := excelize.CoordinatesToCellName(sheet.GroupHeader.FromCol+1, 1)
		if err != nil {
			return err
		}

		to, err := excelize.CoordinatesToCellName(sheet.GroupHeader.ToCol+1, 1)
		if err != nil {
			return err
		}

		if err := f.MergeCell(sheet.Name, from, to); err != nil {
			return fmt.Errorf("merge group header: %w", err)
		}

		if err := f.SetCellValue(sheet.Name, from, sheet.GroupHeader.Title); err != nil {
			return err
		}

		if err := f.SetCellStyle(sheet.Name, from, to, groupStyle); err != nil {
			return err
		}
	}

	for col, name := range sheet.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return err
		}

		if err := f.SetCellValue(sheet.Name, cell, name); err != nil {
			return err
		}

		if err := f.SetCellStyle(sheet.Name, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, row := range sheet.Rows {
		rowNum := headerRow + 1 + i

		for col, val := range row.Cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}

			if err := f.SetCellValue(sheet.Name, cell, val); err != nil {
				return err
			}
		}

		var style int

		switch row.Kind {
		case report.KindSubtotal:
			style = subtotalStyle
		case report.KindTotal:
			style = totalStyle
		default:
			continue
		}

		first, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}

		last, err := excelize.CoordinatesToCellName(max(len(sheet.Header), 1), rowNum)
		if err != nil {
			return err
		}

		if err := f.SetCellStyle(sheet.Name, first, last, style); err != nil {
			return err
		}
	}

	return autoWidth(f, sheet)
}

// autoWidth sizes each column to its longest value, padded, capped to keep a
// stray description from producing a screen-wide column.
func autoWidth(f *excelize.File, sheet *Sheet) error {
	const maxWidth = 50

	for col, name := range sheet.Header {
		width := len(name)

		for _, row := range sheet.Rows {
			if col < len(row.Cells) && len(row.Cells[col]) > width {
				width = len(row.Cells[col])
			}
		}

		width += 2
		if width > maxWidth {
			width = maxWidth
		}

		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}

		if err := f.SetColWidth(sheet.Name, colName, colName, float64(width)); err != nil {
			return err
		}
	}

	return nil
}

func boxBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
	}
}
