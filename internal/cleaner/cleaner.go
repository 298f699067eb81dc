// Package cleaner wires the full transform for every report type: normalize,
// classify, match, aggregate, stamp vouchers, render. One parameterized
// pipeline replaces the per-report near-duplicates; each report contributes
// only a Spec.
package cleaner

import (
	"errors"
	"fmt"
	"time"

	"github.com/ledgerkit/keystone/internal/classify"
	"github.com/ledgerkit/keystone/internal/export"
	"github.com/ledgerkit/keystone/internal/ingest"
	"github.com/ledgerkit/keystone/internal/match"
	"github.com/ledgerkit/keystone/internal/rates"
	"github.com/ledgerkit/keystone/internal/report"
	"github.com/ledgerkit/keystone/internal/voucher"
)

// ErrUnknownReport marks a report type no cleaner is registered for.
var ErrUnknownReport = errors.New("unknown report type")

// Type identifies a report cleaner.
type Type string

const (
	AdvancePayment    Type = "advance-payment"
	OtherReceivable   Type = "other-receivable"
	TemporaryReceipt  Type = "temporary-receipt"
	AccountReceivable Type = "account-receivable"
	OtherPayable      Type = "other-payable"
	PrepaidWHT        Type = "prepaid-wht"
	AdvanceSales      Type = "advance-sales"
)

// Types lists every supported report type in menu order.
func Types() []Type {
	return []Type{
		AdvancePayment,
		OtherReceivable,
		TemporaryReceipt,
		AccountReceivable,
		OtherPayable,
		PrepaidWHT,
		AdvanceSales,
	}
}

// Spec parameterizes the matching pipeline for one report type.
type Spec struct {
	Title         string
	SheetName     string
	Mapping       ingest.Mapping
	Classify      classify.Policy
	Match         match.Policy
	GroupKey      func(report.Row) string // non-nil enables per-group subtotal rows
	VoucherPrefix string                  // non-empty stamps generated voucher numbers on charge rows
	BalanceHeader string                  // "Outstanding" or "Ending Balance", per report convention
}

// Summary is the run recap shown to the operator.
type Summary struct {
	RowsIn               int `json:"rows_in"`
	Charges              int `json:"charges"`
	Settlements          int `json:"settlements"`
	Matched              int `json:"matched"`
	UnmatchedCharges     int `json:"unmatched_charges"`
	UnmatchedSettlements int `json:"unmatched_settlements"`
}

// Result is one finished run: the canonical rows (matching reports only), the
// presentation sheets, and the recap. All of it lives in memory for the
// duration of one transform-and-download cycle.
type Result struct {
	Type    Type
	Rows    []report.Row
	Sheets  []*export.Sheet
	Summary Summary
}

// Service runs cleaners. The rate table is loaded once at construction and
// treated as read-only; concurrent runs share nothing else.
type Service struct {
	rates *rates.Table
}

func NewService(rt *rates.Table) *Service {
	return &Service{rates: rt}
}

// Clean runs the report type's full pipeline over a raw table. It either
// completes or fails outright; a schema failure produces no partial output.
func (s *Service) Clean(typ Type, t *ingest.Table) (*Result, error) {
	switch typ {
	case PrepaidWHT:
		return s.cleanPrepaidWHT(t)
	case AdvanceSales:
		return s.cleanAdvanceSales(t)
	}

	spec, ok := specs[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, typ)
	}

	return s.run(typ, spec, t)
}

func (s *Service) run(typ Type, spec Spec, t *ingest.Table) (*Result, error) {
	txs, err := ingest.Normalize(t, spec.Mapping)
	if err != nil {
		return nil, err
	}

	charges, settlements := classify.Split(txs, spec.Classify)
	outcome := match.Match(charges, settlements, spec.Match)

	rows := report.FromOutcome(outcome, s.rates)

	if spec.VoucherPrefix != "" {
		stampVouchers(rows, spec.VoucherPrefix)
	}

	rows = aggregate(rows, spec.GroupKey)

	result := &Result{
		Type:   typ,
		Rows:   rows,
		Sheets: []*export.Sheet{matchedSheet(spec, rows)},
		Summary: Summary{
			RowsIn:               len(txs),
			Charges:              len(charges),
			Settlements:          len(settlements),
			UnmatchedSettlements: len(outcome.Unmatched),
		},
	}

	for _, r := range outcome.Results {
		if r.Matched() {
			result.Summary.Matched++
		} else {
			result.Summary.UnmatchedCharges++
		}
	}

	return result, nil
}

// aggregate inserts subtotal rows and the grand total. Ungrouped reports keep
// their flat order, but unmatched payments still get their own labelled
// partition so they stay visible for review.
func aggregate(rows []report.Row, key func(report.Row) string) []report.Row {
	if key != nil {
		return report.WithTotal(report.WithSubtotals(rows, key))
	}

	var main, unmatched []report.Row

	for _, r := range rows {
		if r.Group == report.UnmatchedGroup {
			unmatched = append(unmatched, r)
		} else {
			main = append(main, r)
		}
	}

	if len(unmatched) > 0 {
		main = append(main, report.WithSubtotals(unmatched, report.GroupKey)...)
	}

	return report.WithTotal(main)
}

// stampVouchers assigns period-scoped voucher numbers to charge rows, dated
// order within each year-month bucket. Unmatched-payment rows keep their
// source reference.
func stampVouchers(rows []report.Row, prefix string) {
	var (
		idx   []int
		dates []time.Time
	)

	for i, r := range rows {
		if r.Kind == report.KindDetail && r.Group == "" {
			idx = append(idx, i)
			dates = append(dates, r.Date)
		}
	}

	numbers := voucher.Numbers(dates, prefix)

	for j, i := range idx {
		rows[i].VoucherNo = numbers[j]
	}
}

// matchedSheet renders canonical rows into the shared matched-report layout.
// Subtotal labels land in the company column and the grand total label in the
// date column, which is where the formatter and the reviewers expect them.
func matchedSheet(spec Spec, rows []report.Row) *export.Sheet {
	header := []string{
		"Date", "Voucher No", "Company Name", "Description", "Currency",
		"Original Amount", "Rate", "Amount",
		"Payment Date", "Payment Voucher No", "Payment Amount",
		spec.BalanceHeader,
	}

	sheet := &export.Sheet{
		Name:   spec.SheetName,
		Header: header,
		GroupHeader: &export.GroupHeader{
			Title:   "Payment",
			FromCol: 8,
			ToCol:   10,
		},
	}

	for _, r := range rows {
		cells := []string{
			formatDate(r.Date),
			r.VoucherNo,
			r.Counterparty,
			r.Description,
			r.Currency,
			r.OriginalAmount.String(),
			r.Rate.String(),
			r.Amount.String(),
			formatDate(r.PaymentDate),
			r.PaymentVoucherNo,
			r.PaymentAmount.String(),
			r.Outstanding.String(),
		}

		switch r.Kind {
		case report.KindSubtotal:
			cells = numericCells(r)
			cells[2] = r.Label
		case report.KindTotal:
			cells = numericCells(r)
			cells[0] = r.Label
		}

		sheet.Rows = append(sheet.Rows, export.Row{Kind: r.Kind, Cells: cells})
	}

	return sheet
}

// numericCells renders an aggregate row: numeric columns only, identifying
// columns blank for the label to occupy.
func numericCells(r report.Row) []string {
	return []string{
		"", "", "", "", "",
		r.OriginalAmount.String(),
		"",
		r.Amount.String(),
		"", "",
		r.PaymentAmount.String(),
		r.Outstanding.String(),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format("2006-01-02")
}
