// Package report turns match outcomes into ordered report rows with running
// balances, per-group subtotal rows, and a grand total row. Rows are tagged by
// kind so the formatter can style them without re-deriving the grouping.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit/keystone/internal/match"
	"github.com/ledgerkit/keystone/internal/rates"
)

// Kind tags a row for the presentation layer.
type Kind int

const (
	KindDetail Kind = iota
	KindSubtotal
	KindTotal
)

// UnmatchedGroup is the partition that collects settlements no charge
// consumed; they are kept for manual review rather than dropped.
const UnmatchedGroup = "Unmatched Payments"

// Row is one line of the final report. Created once per run and never mutated
// after emission, except for the voucher stamp which happens before emission.
type Row struct {
	Kind  Kind
	Label string // subtotal / total marker text; empty on detail rows

	// Group overrides the partition key for rows that do not belong to their
	// counterparty's group (the unmatched-payments partition).
	Group string

	Date             time.Time
	VoucherNo        string
	Counterparty     string
	Description      string
	Currency         string
	OriginalAmount   decimal.Decimal
	Rate             decimal.Decimal
	Amount           decimal.Decimal
	PaymentDate      time.Time
	PaymentVoucherNo string
	PaymentAmount    decimal.Decimal
	Outstanding      decimal.Decimal
}

// FromOutcome renders a matching pass as detail rows: one per charge in charge
// order, then one per unmatched settlement under the unmatched-payments
// partition. Charge amounts are restated through the rate table at reporting
// precision (whole currency units).
func FromOutcome(o match.Outcome, rt *rates.Table) []Row {
	rows := make([]Row, 0, len(o.Results)+len(o.Unmatched))

	for _, res := range o.Results {
		tx := res.Charge.Tx
		rate := rt.Rate(tx.Currency)

		row := Row{
			Kind:           KindDetail,
			Date:           tx.Date,
			VoucherNo:      tx.ExternalRef,
			Counterparty:   tx.Counterparty,
			Description:    tx.Description,
			Currency:       rt.Currency(tx.Currency),
			OriginalAmount: res.Charge.Amount,
			Rate:           rate,
			Amount:         res.Charge.Amount.Mul(rate).Round(0),
			Outstanding:    res.Outstanding,
		}

		if res.Matched() {
			row.PaymentDate = res.Settlement.Tx.Date
			row.PaymentVoucherNo = res.Settlement.Tx.ExternalRef
			row.PaymentAmount = res.Settlement.Amount
		}

		rows = append(rows, row)
	}

	for _, s := range o.Unmatched {
		rows = append(rows, Row{
			Kind:          KindDetail,
			Group:         UnmatchedGroup,
			Date:          s.Tx.Date,
			Counterparty:  s.Tx.Counterparty,
			Description:   s.Tx.Description,
			Currency:      rt.Currency(s.Tx.Currency),
			Rate:          rt.Rate(s.Tx.Currency),
			PaymentDate:   s.Tx.Date,
			PaymentAmount: s.Amount,
		})
	}

	return rows
}

// GroupKey returns the partition key of a detail row: the explicit group when
// set, the counterparty otherwise.
func GroupKey(r Row) string {
	if r.Group != "" {
		return r.Group
	}

	return r.Counterparty
}

// WithSubtotals regroups detail rows by key, preserving first-seen group
// order, and follows each group with a subtotal row summing its numeric
// columns. The label reads "{key} Subtotal".
func WithSubtotals(rows []Row, key func(Row) string) []Row {
	var order []string

	groups := make(map[string][]Row)

	for _, r := range rows {
		k := key(r)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}

		groups[k] = append(groups[k], r)
	}

	out := make([]Row, 0, len(rows)+len(order))

	for _, k := range order {
		out = append(out, groups[k]...)

		sub := sum(groups[k])
		sub.Kind = KindSubtotal
		sub.Label = k + " Subtotal"
		out = append(out, sub)
	}

	return out
}

// WithTotal appends the grand total row. It sums detail rows only, so
// interleaved subtotal rows are never double-counted.
func WithTotal(rows []Row) []Row {
	var details []Row

	for _, r := range rows {
		if r.Kind == KindDetail {
			details = append(details, r)
		}
	}

	total := sum(details)
	total.Kind = KindTotal
	total.Label = "TOTAL"

	return append(rows, total)
}

// sum aggregates the numeric columns of a row set. Absent values are zero
// decimals already, so every row contributes.
func sum(rows []Row) Row {
	var agg Row

	for _, r := range rows {
		agg.OriginalAmount = agg.OriginalAmount.Add(r.OriginalAmount)
		agg.Amount = agg.Amount.Add(r.Amount)
		agg.PaymentAmount = agg.PaymentAmount.Add(r.PaymentAmount)
		agg.Outstanding = agg.Outstanding.Add(r.Outstanding)
	}

	return agg
}
