package ingest

import (
	"github.com/ledgerkit/keystone/internal/ledger"
)

// Mapping declares which source columns feed each transaction field for one
// report type. Empty entries are simply not read; every non-empty entry is a
// required column.
type Mapping struct {
	Date         string
	ExternalRef  string
	Counterparty string
	Description  string
	Currency     string
	Debit        string
	Credit       string

	// Key is the column that must be non-blank for a row to survive
	// normalization (typically the counterparty).
	Key string
}

func (m Mapping) required() []string {
	var cols []string

	seen := make(map[string]bool)

	for _, c := range []string{m.Date, m.ExternalRef, m.Counterparty, m.Description, m.Currency, m.Debit, m.Credit, m.Key} {
		if c != "" && !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}

	return cols
}

// Normalize applies a mapping to a raw table: locates the header, restricts to
// the mapped columns, coerces amounts and dates, and drops rows whose key field
// is blank. The input table is never modified. A missing required column is a
// SchemaError.
func Normalize(t *Table, m Mapping) ([]ledger.Transaction, error) {
	cols, headerIdx, err := t.Locate(m.required())
	if err != nil {
		return nil, err
	}

	idx := func(name string) int {
		i, ok := cols[name]
		if name == "" || !ok {
			return -1
		}

		return i
	}

	var (
		dateIdx  = idx(m.Date)
		refIdx   = idx(m.ExternalRef)
		partyIdx = idx(m.Counterparty)
		descIdx  = idx(m.Description)
		curIdx   = idx(m.Currency)
		debitIdx = idx(m.Debit)
		credIdx  = idx(m.Credit)
		keyIdx   = idx(m.Key)
	)

	var txs []ledger.Transaction

	for _, row := range t.Body(headerIdx) {
		if empty(row) {
			continue
		}

		if keyIdx >= 0 && Cell(row, keyIdx) == "" {
			continue
		}

		txs = append(txs, ledger.Transaction{
			Date:         ParseDate(Cell(row, dateIdx)),
			ExternalRef:  Cell(row, refIdx),
			Counterparty: Cell(row, partyIdx),
			Description:  Cell(row, descIdx),
			Currency:     Cell(row, curIdx),
			Debit:        ParseDecimal(Cell(row, debitIdx)),
			Credit:       ParseDecimal(Cell(row, credIdx)),
		})
	}

	return txs, nil
}

func empty(row []string) bool {
	for i := range row {
		if Cell(row, i) != "" {
			return false
		}
	}

	return true
}
