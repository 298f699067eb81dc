package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one normalized row of a ledger export.
type Transaction struct {
	Date         time.Time // zero when the source date could not be parsed
	ExternalRef  string    // invoice / voucher / transaction number
	Counterparty string
	Description  string
	Currency     string
	Debit        decimal.Decimal
	Credit       decimal.Decimal
}

// Side selects which ledger column carries the amount of interest for a report.
type Side int

const (
	SideDebit Side = iota
	SideCredit
)

// Amount returns the value of the given column.
func (t Transaction) Amount(s Side) decimal.Decimal {
	if s == SideDebit {
		return t.Debit
	}

	return t.Credit
}

// Other returns the complementary column.
func (s Side) Other() Side {
	if s == SideDebit {
		return SideCredit
	}

	return SideDebit
}

// Charge is a transaction classified as an amount owed. Immutable once classified.
type Charge struct {
	Tx     Transaction
	Amount decimal.Decimal
}

// Settlement is a transaction classified as a payment. A settlement is consumed
// at most once: the matcher claims it out of the pool the first time it pairs.
type Settlement struct {
	Tx     Transaction
	Amount decimal.Decimal
}
