package cleaner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit/keystone/internal/cleaner"
	"github.com/ledgerkit/keystone/internal/ingest"
	"github.com/ledgerkit/keystone/internal/report"
)

func TestCleanPrepaidWHT(t *testing.T) {
	table := &ingest.Table{Rows: [][]string{
		{"Date", "Voucher No", "Inv No", "Customer Name", "WHT Base", "WHT Rate (%)", "WHT Amount (IDR)", "Refund/Return WHT (IDR)"},
		{"2024-01-05", "PV-1", "INV-1", "Acme", "1,000", "0", "20", "5"},
		{"", "", "", "", "", "", "", ""},
		{"2024-01-06", "PV-2", "INV-2", "Globex", "2000", "1.5", "30", "0"},
	}}

	res, err := newService(t, "").Clean(cleaner.PrepaidWHT, table)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Summary.RowsIn)

	require.Len(t, res.Sheets, 1)
	sheet := res.Sheets[0]
	assert.Equal(t, "Prepaid_PPH23", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	first := sheet.Rows[0].Cells
	assert.Equal(t, "2024-01-05", first[0])
	assert.Equal(t, "Sales Invoice to Acme", first[4])
	assert.Equal(t, "-", first[5])
	assert.Equal(t, "1000", first[6])

	// A blank or zero rate falls back to the article-23 default.
	assert.Equal(t, "2", first[7])

	// Net withholding is the gross amount less the refund.
	assert.Equal(t, "15", first[8])

	second := sheet.Rows[1].Cells
	assert.Equal(t, "1.5", second[7])
	assert.Equal(t, "30", second[8])

	total := sheet.Rows[2]
	assert.Equal(t, report.KindTotal, total.Kind)
	assert.Equal(t, "TOTAL", total.Cells[0])
	assert.Equal(t, "3000", total.Cells[6])
	assert.Equal(t, "45", total.Cells[8])
}

func TestCleanPrepaidWHTMissingCustomerColumn(t *testing.T) {
	table := &ingest.Table{Rows: [][]string{
		{"Date", "WHT Base"},
	}}

	_, err := newService(t, "").Clean(cleaner.PrepaidWHT, table)

	var schemaErr *ingest.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "Customer Name", schemaErr.Column)
}
