package cleaner

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerkit/keystone/internal/export"
	"github.com/ledgerkit/keystone/internal/ingest"
	"github.com/ledgerkit/keystone/internal/report"
)

// defaultWHTRate applies when the export leaves the rate blank or zero:
// article 23 withholding on services is 2%.
var defaultWHTRate = decimal.NewFromInt(2)

// cleanPrepaidWHT restates a prepaid article-23 withholding export. There is
// no matching here: rows without a customer are dropped, the rate defaults,
// the net withholding is the gross amount less refunds, and a TOTAL row closes
// the table.
func (s *Service) cleanPrepaidWHT(t *ingest.Table) (*Result, error) {
	cols, headerIdx, err := t.Locate([]string{"Customer Name"})
	if err != nil {
		return nil, err
	}

	// Everything except the customer column is optional in this export;
	// absent columns read as blank cells and coerce to zero.
	opt := func(name string) int {
		if i, ok := cols[name]; ok {
			return i
		}

		return -1
	}

	var (
		customerIdx = cols["Customer Name"]
		dateIdx     = opt("Date")
		voucherIdx  = opt("Voucher No")
		invIdx      = opt("Inv No")
		baseIdx     = opt("WHT Base")
		rateIdx     = opt("WHT Rate (%)")
		amountIdx   = opt("WHT Amount (IDR)")
		refundIdx   = opt("Refund/Return WHT (IDR)")
	)

	sheet := &export.Sheet{
		Name: "Prepaid_PPH23",
		Header: []string{
			"Date", "Voucher No", "Invoice No", "Company Name", "Description", "Bukti Potong",
			"Withholding Article 23 Tax Base",
			"Withholding Tax Article 23 Rate (%)",
			"Withholding Tax Amount (IDR)",
		},
	}

	var (
		rowsIn     int
		totalBase  decimal.Decimal
		totalFinal decimal.Decimal
	)

	for _, row := range t.Body(headerIdx) {
		customer := ingest.Cell(row, customerIdx)
		if customer == "" {
			continue
		}

		rowsIn++

		base := ingest.ParseDecimal(ingest.Cell(row, baseIdx))
		rate := ingest.ParseDecimal(ingest.Cell(row, rateIdx))
		amount := ingest.ParseDecimal(ingest.Cell(row, amountIdx))
		refund := ingest.ParseDecimal(ingest.Cell(row, refundIdx))

		if rate.IsZero() {
			rate = defaultWHTRate
		}

		final := amount.Sub(refund)
		totalBase = totalBase.Add(base)
		totalFinal = totalFinal.Add(final)

		sheet.Rows = append(sheet.Rows, export.Row{
			Kind: report.KindDetail,
			Cells: []string{
				formatDate(ingest.ParseDate(ingest.Cell(row, dateIdx))),
				ingest.Cell(row, voucherIdx),
				ingest.Cell(row, invIdx),
				customer,
				"Sales Invoice to " + customer,
				"-",
				base.String(),
				rate.String(),
				final.String(),
			},
		})
	}

	sheet.Rows = append(sheet.Rows, export.Row{
		Kind: report.KindTotal,
		Cells: []string{
			"TOTAL", "", "", "", "", "",
			totalBase.String(),
			"",
			totalFinal.String(),
		},
	})

	return &Result{
		Type:    PrepaidWHT,
		Sheets:  []*export.Sheet{sheet},
		Summary: Summary{RowsIn: rowsIn},
	}, nil
}
