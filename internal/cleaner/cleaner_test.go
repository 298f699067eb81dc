package cleaner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit/keystone/internal/cleaner"
	"github.com/ledgerkit/keystone/internal/ingest"
	"github.com/ledgerkit/keystone/internal/rates"
	"github.com/ledgerkit/keystone/internal/report"
)

func newService(t *testing.T, pairs string) *cleaner.Service {
	t.Helper()

	rt, err := rates.New("IDR", pairs)
	require.NoError(t, err)

	return cleaner.NewService(rt)
}

func TestCleanAdvancePayment(t *testing.T) {
	table := &ingest.Table{Rows: [][]string{
		{"Date", "Trans No", "Vendor/Client", "Description", "Debit", "Credit"},
		{"2024-01-05", "TRX-1", "Acme", "Office advance", "100", "0"},
		{"2024-01-20", "PV-1", "Acme", "Settlement", "0", "100"},
		{"2024-02-02", "TRX-2", "Globex", "Deposit", "200", "0"},
	}}

	res, err := newService(t, "").Clean(cleaner.AdvancePayment, table)
	require.NoError(t, err)

	assert.Equal(t, cleaner.Summary{
		RowsIn:           3,
		Charges:          2,
		Settlements:      1,
		Matched:          1,
		UnmatchedCharges: 1,
	}, res.Summary)

	require.Len(t, res.Sheets, 1)
	sheet := res.Sheets[0]

	assert.Equal(t, "Advance_Payment", sheet.Name)
	assert.Equal(t, "Outstanding", sheet.Header[11])
	require.Len(t, sheet.Rows, 3)

	// Without a voucher prefix the source reference carries through.
	matched := sheet.Rows[0].Cells
	assert.Equal(t, "TRX-1", matched[1])
	assert.Equal(t, "PV-1", matched[9])
	assert.Equal(t, "100", matched[10])
	assert.Equal(t, "0", matched[11])

	open := sheet.Rows[1].Cells
	assert.Equal(t, "TRX-2", open[1])
	assert.Equal(t, "200", open[11])

	total := sheet.Rows[2]
	assert.Equal(t, report.KindTotal, total.Kind)
	assert.Equal(t, "TOTAL", total.Cells[0])
	assert.Equal(t, "300", total.Cells[7])
	assert.Equal(t, "200", total.Cells[11])
}

func TestCleanKeepsUnmatchedPaymentsVisible(t *testing.T) {
	table := &ingest.Table{Rows: [][]string{
		{"Date", "Trans No", "Vendor/Client", "Description", "Debit", "Credit"},
		{"2024-01-05", "TRX-1", "Acme", "Advance", "100", "0"},
		{"2024-01-20", "PV-9", "Acme", "Partial refund", "0", "70"},
	}}

	res, err := newService(t, "").Clean(cleaner.AdvancePayment, table)
	require.NoError(t, err)

	sheet := res.Sheets[0]
	require.Len(t, sheet.Rows, 4)

	// The 70 settles nothing at strict precision, so it lands in its own
	// partition instead of disappearing.
	assert.Equal(t, 1, res.Summary.UnmatchedSettlements)
	assert.Equal(t, "70", sheet.Rows[1].Cells[10])

	sub := sheet.Rows[2]
	assert.Equal(t, report.KindSubtotal, sub.Kind)
	assert.Equal(t, report.UnmatchedGroup+" Subtotal", sub.Cells[2])
	assert.Equal(t, "70", sub.Cells[10])

	total := sheet.Rows[3]
	assert.Equal(t, "70", total.Cells[10])
	assert.Equal(t, "100", total.Cells[11])
}

func TestCleanAccountReceivable(t *testing.T) {
	table := &ingest.Table{Rows: [][]string{
		{"Date", "Invoice No", "Customer", "Description", "Currency", "Original Amount", "Payment Amount"},
		{"2024-01-05", "INV-1", "Acme", "Rent January", "USD", "10", "0"},
		{"2024-01-20", "Receipt 99", "Acme", "Payment INV-1", "USD", "0", "10"},
	}}

	res, err := newService(t, "USD=15000").Clean(cleaner.AccountReceivable, table)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Summary.Matched)

	sheet := res.Sheets[0]
	assert.Equal(t, "AR_Keystone", sheet.Name)
	assert.Equal(t, "Ending Balance", sheet.Header[11])
	require.Len(t, sheet.Rows, 3)

	detail := sheet.Rows[0].Cells
	assert.Equal(t, "AR-24-01-001", detail[1])
	assert.Equal(t, "USD", detail[4])
	assert.Equal(t, "10", detail[5])
	assert.Equal(t, "15000", detail[6])
	assert.Equal(t, "150000", detail[7])
	assert.Equal(t, "10", detail[10])
	assert.Equal(t, "0", detail[11])

	assert.Equal(t, "Acme Subtotal", sheet.Rows[1].Cells[2])
	assert.Equal(t, "TOTAL", sheet.Rows[2].Cells[0])
}

func TestCleanOtherReceivableGroupsByCategory(t *testing.T) {
	table := &ingest.Table{Rows: [][]string{
		{"Date", "Trans No", "Vendor/Client", "Description", "Debit", "Credit"},
		{"2024-01-05", "TRX-1", "Acme", "insurance claim Q1", "100", "0"},
		{"2024-01-06", "TRX-2", "Globex", "insurance claim Q2", "50", "0"},
		{"2024-01-07", "TRX-3", "Acme", "deposit refund", "30", "0"},
	}}

	res, err := newService(t, "").Clean(cleaner.OtherReceivable, table)
	require.NoError(t, err)

	sheet := res.Sheets[0]
	require.Len(t, sheet.Rows, 6)

	// Both insurance rows land together regardless of counterparty.
	assert.Equal(t, "Insurance Subtotal", sheet.Rows[2].Cells[2])
	assert.Equal(t, "150", sheet.Rows[2].Cells[7])
	assert.Equal(t, "Deposit Subtotal", sheet.Rows[4].Cells[2])
}

func TestCleanMissingColumnFails(t *testing.T) {
	table := &ingest.Table{Rows: [][]string{
		{"Date", "Trans No", "Vendor/Client", "Description", "Debit"},
	}}

	_, err := newService(t, "").Clean(cleaner.AdvancePayment, table)

	var schemaErr *ingest.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "Credit", schemaErr.Column)
}

func TestCleanUnknownReport(t *testing.T) {
	_, err := newService(t, "").Clean(cleaner.Type("bogus"), &ingest.Table{})

	require.ErrorIs(t, err, cleaner.ErrUnknownReport)
	assert.Contains(t, err.Error(), "bogus")
}

func TestTypes(t *testing.T) {
	types := cleaner.Types()

	assert.Len(t, types, 7)
	assert.Contains(t, types, cleaner.AdvancePayment)
	assert.Contains(t, types, cleaner.AdvanceSales)
}
