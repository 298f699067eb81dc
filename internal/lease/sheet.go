package lease

import (
	"strconv"

	"github.com/ledgerkit/keystone/internal/export"
	"github.com/ledgerkit/keystone/internal/report"
)

// Sheet renders the schedule as a presentation table with a closing total row.
func (s *Schedule) Sheet(name string) *export.Sheet {
	sheet := &export.Sheet{
		Name: name,
		Header: []string{
			"Period", "Start-End", "Payment", "PV (ROU)",
			"Interest Expense", "Principal", "Ending ROU",
		},
	}

	totals := Period{}

	for _, p := range s.Periods {
		totals.Payment = totals.Payment.Add(p.Payment)
		totals.Interest = totals.Interest.Add(p.Interest)
		totals.Principal = totals.Principal.Add(p.Principal)

		sheet.Rows = append(sheet.Rows, export.Row{
			Kind: report.KindDetail,
			Cells: []string{
				strconv.Itoa(p.Index),
				p.Start.Format("Jan 2006") + " - " + p.End.Format("Jan 2006"),
				p.Payment.String(),
				p.PV.String(),
				p.Interest.String(),
				p.Principal.String(),
				p.Closing.String(),
			},
		})
	}

	sheet.Rows = append(sheet.Rows, export.Row{
		Kind: report.KindTotal,
		Cells: []string{
			"TOTAL", "",
			totals.Payment.String(),
			s.Opening.String(),
			totals.Interest.String(),
			totals.Principal.String(),
			"",
		},
	})

	return sheet
}
