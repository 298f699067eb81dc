package ingest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit/keystone/internal/ingest"
)

var accurateMapping = ingest.Mapping{
	Date:         "Date",
	ExternalRef:  "Trans No",
	Counterparty: "Vendor/Client",
	Description:  "Description",
	Debit:        "Debit",
	Credit:       "Credit",
	Key:          "Vendor/Client",
}

func TestNormalize(t *testing.T) {
	table := &ingest.Table{Rows: [][]string{
		{"Date", "Trans No", "Vendor/Client", "Description", "Debit", "Credit"},
		{"2024-01-05", "TRX-1", " Acme ", "Office advance", "1,000", "0"},
		{"2024-01-09", "TRX-2", "Acme", "Refund", "bad-number", "500"},
		{"", "", "", "", "", ""},
		{"2024-01-10", "TRX-3", "", "No counterparty", "10", "0"},
	}}

	txs, err := ingest.Normalize(table, accurateMapping)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.Equal(t, "TRX-1", txs[0].ExternalRef)
	assert.Equal(t, "Acme", txs[0].Counterparty)
	assert.Equal(t, "1000", txs[0].Debit.String())
	assert.Equal(t, "0", txs[0].Credit.String())

	// A value that fails coercion becomes zero without losing the row.
	assert.Equal(t, "0", txs[1].Debit.String())
	assert.Equal(t, "500", txs[1].Credit.String())
}

func TestNormalizeMissingColumnFails(t *testing.T) {
	table := &ingest.Table{Rows: [][]string{
		{"Date", "Vendor/Client", "Description", "Debit", "Credit"},
		{"2024-01-05", "Acme", "x", "1", "0"},
	}}

	_, err := ingest.Normalize(table, accurateMapping)

	var schemaErr *ingest.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "Trans No", schemaErr.Column)
}

func TestNormalizeUnparseableDateKeepsRow(t *testing.T) {
	table := &ingest.Table{Rows: [][]string{
		{"Date", "Trans No", "Vendor/Client", "Description", "Debit", "Credit"},
		{"??", "TRX-1", "Acme", "x", "100", "0"},
	}}

	txs, err := ingest.Normalize(table, accurateMapping)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Date.IsZero())
}
