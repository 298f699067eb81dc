package match_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit/keystone/internal/ledger"
	"github.com/ledgerkit/keystone/internal/match"
)

func charge(ref string, amount int64) ledger.Charge {
	return ledger.Charge{
		Tx:     ledger.Transaction{ExternalRef: ref},
		Amount: decimal.NewFromInt(amount),
	}
}

func settlement(ref string, amount int64) ledger.Settlement {
	return ledger.Settlement{
		Tx:     ledger.Transaction{ExternalRef: ref},
		Amount: decimal.NewFromInt(amount),
	}
}

func TestStrictAmountBasicScenario(t *testing.T) {
	charges := []ledger.Charge{charge("A", 100), charge("B", 200)}
	settlements := []ledger.Settlement{settlement("B-pay", 200)}

	out := match.Match(charges, settlements, match.Policy{Kind: match.StrictAmount})
	require.Len(t, out.Results, 2)

	assert.False(t, out.Results[0].Matched())
	assert.Equal(t, "100", out.Results[0].Outstanding.String())

	require.True(t, out.Results[1].Matched())
	assert.Equal(t, "B-pay", out.Results[1].Settlement.Tx.ExternalRef)
	assert.True(t, out.Results[1].Outstanding.IsZero())

	// The settlement pool is fully consumed.
	assert.Empty(t, out.Unmatched)
}

func TestStrictAmountFirstInOrderWins(t *testing.T) {
	charges := []ledger.Charge{charge("C", 100)}
	settlements := []ledger.Settlement{settlement("first", 100), settlement("second", 100)}

	out := match.Match(charges, settlements, match.Policy{Kind: match.StrictAmount})

	require.True(t, out.Results[0].Matched())
	assert.Equal(t, "first", out.Results[0].Settlement.Tx.ExternalRef)

	require.Len(t, out.Unmatched, 1)
	assert.Equal(t, "second", out.Unmatched[0].Tx.ExternalRef)
}

func TestStrictAmountZeroChargeStillEmitted(t *testing.T) {
	out := match.Match(
		[]ledger.Charge{charge("Z", 0)},
		nil,
		match.Policy{Kind: match.StrictAmount},
	)

	require.Len(t, out.Results, 1)
	assert.True(t, out.Results[0].Outstanding.IsZero())
}

func TestStrictAmountComparesAtWholeUnits(t *testing.T) {
	charges := []ledger.Charge{{
		Tx:     ledger.Transaction{ExternalRef: "A"},
		Amount: decimal.RequireFromString("100.4"),
	}}
	settlements := []ledger.Settlement{{
		Tx:     ledger.Transaction{ExternalRef: "P"},
		Amount: decimal.RequireFromString("99.6"),
	}}

	out := match.Match(charges, settlements, match.Policy{Kind: match.StrictAmount})

	// 100.4 and 99.6 both round to 100 at reporting precision.
	assert.True(t, out.Results[0].Matched())
}

func TestStrictAmountNoDoubleMatch(t *testing.T) {
	charges := []ledger.Charge{charge("A", 100), charge("B", 100)}
	settlements := []ledger.Settlement{settlement("P", 100)}

	out := match.Match(charges, settlements, match.Policy{Kind: match.StrictAmount})

	assert.True(t, out.Results[0].Matched())
	assert.False(t, out.Results[1].Matched())
	assert.Equal(t, "100", out.Results[1].Outstanding.String())
}

func TestConservation(t *testing.T) {
	charges := []ledger.Charge{charge("A", 100), charge("B", 200), charge("C", 50)}
	settlements := []ledger.Settlement{settlement("p1", 200), settlement("p2", 75)}

	out := match.Match(charges, settlements, match.Policy{Kind: match.StrictAmount})

	var totalOutstanding, totalCharges, totalMatched decimal.Decimal

	for _, r := range out.Results {
		totalOutstanding = totalOutstanding.Add(r.Outstanding)
		totalCharges = totalCharges.Add(r.Charge.Amount)

		if r.Matched() {
			totalMatched = totalMatched.Add(r.Settlement.Amount)
		}
	}

	assert.True(t, totalOutstanding.Equal(totalCharges.Sub(totalMatched)))
}

func TestDeterminism(t *testing.T) {
	charges := []ledger.Charge{charge("A", 100), charge("B", 100), charge("C", 200)}
	settlements := []ledger.Settlement{settlement("p1", 100), settlement("p2", 200), settlement("p3", 100)}

	first := match.Match(charges, settlements, match.Policy{Kind: match.StrictAmount})
	second := match.Match(charges, settlements, match.Policy{Kind: match.StrictAmount})

	require.Equal(t, len(first.Results), len(second.Results))

	for i := range first.Results {
		assert.Equal(t, first.Results[i].Matched(), second.Results[i].Matched())

		if first.Results[i].Matched() {
			assert.Equal(t,
				first.Results[i].Settlement.Tx.ExternalRef,
				second.Results[i].Settlement.Tx.ExternalRef)
		}
	}
}

func TestCrossReference(t *testing.T) {
	charges := []ledger.Charge{{
		Tx:     ledger.Transaction{ExternalRef: "INV-001", Counterparty: "Acme "},
		Amount: decimal.NewFromInt(300),
	}}
	settlements := []ledger.Settlement{
		{
			Tx:     ledger.Transaction{Description: "Payment for inv-001", Counterparty: " Acme"},
			Amount: decimal.NewFromInt(250),
		},
	}

	out := match.Match(charges, settlements, match.Policy{Kind: match.CrossReference})

	require.True(t, out.Results[0].Matched())

	// The settlement amount is carried through as-is.
	assert.Equal(t, "250", out.Results[0].Settlement.Amount.String())
	assert.Equal(t, "50", out.Results[0].Outstanding.String())
}

func TestCrossReferenceCounterpartyMustMatch(t *testing.T) {
	charges := []ledger.Charge{{
		Tx:     ledger.Transaction{ExternalRef: "INV-001", Counterparty: "Acme"},
		Amount: decimal.NewFromInt(300),
	}}
	settlements := []ledger.Settlement{{
		Tx:     ledger.Transaction{Description: "Payment INV-001", Counterparty: "Globex"},
		Amount: decimal.NewFromInt(300),
	}}

	out := match.Match(charges, settlements, match.Policy{Kind: match.CrossReference})

	assert.False(t, out.Results[0].Matched())
	require.Len(t, out.Unmatched, 1)
}

func TestCrossReferenceBlankRefNeverMatches(t *testing.T) {
	charges := []ledger.Charge{{
		Tx:     ledger.Transaction{ExternalRef: "  ", Counterparty: "Acme"},
		Amount: decimal.NewFromInt(300),
	}}
	settlements := []ledger.Settlement{{
		Tx:     ledger.Transaction{Description: "anything", Counterparty: "Acme"},
		Amount: decimal.NewFromInt(300),
	}}

	out := match.Match(charges, settlements, match.Policy{Kind: match.CrossReference})

	assert.False(t, out.Results[0].Matched())
}

func TestReferenceExpansion(t *testing.T) {
	charges := []ledger.Charge{charge("INV-1", 100), charge("INV-2", 200)}

	// One payment voucher covering both invoices.
	settlements := []ledger.Settlement{{
		Tx:     ledger.Transaction{ExternalRef: "INV-1, INV-2"},
		Amount: decimal.NewFromInt(300),
	}}

	out := match.Match(charges, settlements, match.Policy{Kind: match.ReferenceExpansion})
	require.Len(t, out.Results, 2)

	// Full settlement amount goes to the first fragment only.
	require.True(t, out.Results[0].Matched())
	assert.Equal(t, "300", out.Results[0].Settlement.Amount.String())
	assert.Equal(t, "-200", out.Results[0].Outstanding.String())

	require.True(t, out.Results[1].Matched())
	assert.Equal(t, "0", out.Results[1].Settlement.Amount.String())
	assert.Equal(t, "200", out.Results[1].Outstanding.String())

	assert.Empty(t, out.Unmatched)
}

func TestReferenceExpansionPaymentTotalNotDoubleCounted(t *testing.T) {
	charges := []ledger.Charge{charge("INV-1", 100), charge("INV-2", 200)}
	settlements := []ledger.Settlement{{
		Tx:     ledger.Transaction{ExternalRef: "INV-1,INV-2"},
		Amount: decimal.NewFromInt(300),
	}}

	out := match.Match(charges, settlements, match.Policy{Kind: match.ReferenceExpansion})

	var attributed decimal.Decimal
	for _, r := range out.Results {
		if r.Matched() {
			attributed = attributed.Add(r.Settlement.Amount)
		}
	}

	assert.Equal(t, "300", attributed.String())
}

func TestReferenceExpansionUnreferencedSettlementReported(t *testing.T) {
	charges := []ledger.Charge{charge("INV-1", 100)}
	settlements := []ledger.Settlement{
		{Tx: ledger.Transaction{ExternalRef: "INV-1"}, Amount: decimal.NewFromInt(100)},
		{Tx: ledger.Transaction{ExternalRef: "INV-9"}, Amount: decimal.NewFromInt(400)},
	}

	out := match.Match(charges, settlements, match.Policy{Kind: match.ReferenceExpansion})

	require.Len(t, out.Unmatched, 1)
	assert.Equal(t, "INV-9", out.Unmatched[0].Tx.ExternalRef)
}
