// Package classify splits a normalized transaction list into charges (amounts
// owed) and settlements (amounts paid). Input order is preserved in both
// outputs and no transaction lands in more than one of them.
package classify

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit/keystone/internal/ledger"
)

// Mode selects how a transaction is recognized as a settlement.
type Mode int

const (
	// ModeSignedColumn uses ledger column polarity: a positive amount on the
	// report's charge side makes a charge, a positive amount on the
	// complementary side makes a settlement.
	ModeSignedColumn Mode = iota

	// ModeTextMarker flags settlements by payment markers in the external
	// reference; every other row is a charge. Used for ledgers that encode
	// payments by reference-text convention instead of column polarity.
	ModeTextMarker
)

// DefaultMarkers are the payment markers applied when a text-marker policy
// does not specify its own.
var DefaultMarkers = []string{"paid", "top up"}

type Policy struct {
	Mode       Mode
	ChargeSide ledger.Side
	Markers    []string // ModeTextMarker only; nil means DefaultMarkers
}

// Split classifies transactions into two disjoint, stably ordered sets.
// Rows with zero on both sides are excluded from both.
func Split(txs []ledger.Transaction, p Policy) ([]ledger.Charge, []ledger.Settlement) {
	var (
		charges     []ledger.Charge
		settlements []ledger.Settlement
	)

	for _, tx := range txs {
		switch p.Mode {
		case ModeTextMarker:
			if isMarked(tx.ExternalRef, p.markers()) {
				settlements = append(settlements, ledger.Settlement{Tx: tx, Amount: settlementAmount(tx, p.ChargeSide)})
			} else {
				charges = append(charges, ledger.Charge{Tx: tx, Amount: tx.Amount(p.ChargeSide)})
			}

		default: // ModeSignedColumn
			// Charge side wins if a row somehow carries both, keeping the
			// sets disjoint.
			if tx.Amount(p.ChargeSide).IsPositive() {
				charges = append(charges, ledger.Charge{Tx: tx, Amount: tx.Amount(p.ChargeSide)})
			} else if tx.Amount(p.ChargeSide.Other()).IsPositive() {
				settlements = append(settlements, ledger.Settlement{Tx: tx, Amount: tx.Amount(p.ChargeSide.Other())})
			}
		}
	}

	return charges, settlements
}

func (p Policy) markers() []string {
	if len(p.Markers) > 0 {
		return p.Markers
	}

	return DefaultMarkers
}

func isMarked(ref string, markers []string) bool {
	lower := strings.ToLower(ref)

	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}

	return false
}

// settlementAmount picks the paid amount for a text-marker settlement. Receipt
// ledgers put it on either column depending on the export, so the complementary
// side is preferred and the charge side is the fallback.
func settlementAmount(tx ledger.Transaction, chargeSide ledger.Side) decimal.Decimal {
	if a := tx.Amount(chargeSide.Other()); !a.IsZero() {
		return a
	}

	return tx.Amount(chargeSide)
}
