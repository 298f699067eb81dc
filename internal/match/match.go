// Package match pairs charges with settlements. Every policy walks charges in
// input order and claims at most one settlement (or settlement fragment) per
// charge out of a shared pool, so a settlement is never consumed twice within
// a run and identical input order always yields identical results.
package match

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit/keystone/internal/ledger"
)

// PolicyKind selects the pairing rule.
type PolicyKind int

const (
	// StrictAmount pairs a charge with the first unused settlement of equal
	// amount, compared at whole-currency-unit precision.
	StrictAmount PolicyKind = iota

	// CrossReference pairs a charge with the first settlement whose
	// description contains the charge's external reference and whose
	// counterparty matches after trimming. The settlement amount is carried
	// through as-is, so the outstanding balance may be non-zero or negative.
	CrossReference

	// ReferenceExpansion expands settlements whose reference field lists
	// several charge references (comma-separated) into one fragment per
	// reference, then pairs by reference equality. The settlement amount is
	// attributed to the first fragment only; later fragments carry zero so
	// the payment total is never double-counted.
	ReferenceExpansion
)

type Policy struct {
	Kind PolicyKind
}

// Result pairs one charge with zero or one settlement.
type Result struct {
	Charge      ledger.Charge
	Settlement  *ledger.Settlement
	Outstanding decimal.Decimal
}

// Matched reports whether a settlement was paired.
func (r Result) Matched() bool {
	return r.Settlement != nil
}

// Outcome is a full matching pass: one result per charge, in charge order,
// plus every settlement that no charge consumed. Unmatched settlements are
// reported, never silently dropped.
type Outcome struct {
	Results   []Result
	Unmatched []ledger.Settlement
}

// Match runs the given policy over the inputs. Zero-amount charges still
// produce a result row.
func Match(charges []ledger.Charge, settlements []ledger.Settlement, p Policy) Outcome {
	switch p.Kind {
	case CrossReference:
		return matchCrossReference(charges, settlements)
	case ReferenceExpansion:
		return matchReferenceExpansion(charges, settlements)
	default:
		return matchStrictAmount(charges, settlements)
	}
}

func matchStrictAmount(charges []ledger.Charge, settlements []ledger.Settlement) Outcome {
	p := newPool(settlements)

	results := make([]Result, 0, len(charges))

	for _, c := range charges {
		want := c.Amount.Round(0)

		s, ok := p.claim(func(s ledger.Settlement) bool {
			return s.Amount.Round(0).Equal(want)
		})

		if !ok {
			results = append(results, Result{Charge: c, Outstanding: c.Amount})
			continue
		}

		matched := s
		results = append(results, Result{
			Charge:      c,
			Settlement:  &matched,
			Outstanding: decimal.Zero,
		})
	}

	return Outcome{Results: results, Unmatched: p.unclaimed()}
}

func matchCrossReference(charges []ledger.Charge, settlements []ledger.Settlement) Outcome {
	p := newPool(settlements)

	results := make([]Result, 0, len(charges))

	for _, c := range charges {
		ref := strings.TrimSpace(c.Tx.ExternalRef)
		party := strings.TrimSpace(c.Tx.Counterparty)

		var (
			s  ledger.Settlement
			ok bool
		)

		// A blank reference would substring-match every settlement.
		if ref != "" {
			s, ok = p.claim(func(s ledger.Settlement) bool {
				return strings.TrimSpace(s.Tx.Counterparty) == party &&
					containsFold(s.Tx.Description, ref)
			})
		}

		if !ok {
			results = append(results, Result{Charge: c, Outstanding: c.Amount})
			continue
		}

		matched := s
		results = append(results, Result{
			Charge:      c,
			Settlement:  &matched,
			Outstanding: c.Amount.Sub(s.Amount),
		})
	}

	return Outcome{Results: results, Unmatched: p.unclaimed()}
}

// fragment is one referenced charge of an expanded settlement.
type fragment struct {
	ref    string
	amount decimal.Decimal // full settlement amount on the first fragment, zero after
	parent int             // index into the settlements slice
}

func matchReferenceExpansion(charges []ledger.Charge, settlements []ledger.Settlement) Outcome {
	var frags []fragment

	claimedParents := make([]bool, len(settlements))

	for i, s := range settlements {
		first := true

		for _, part := range strings.Split(s.Tx.ExternalRef, ",") {
			ref := strings.TrimSpace(part)
			if ref == "" {
				continue
			}

			amount := decimal.Zero
			if first {
				amount = s.Amount
				first = false
			}

			frags = append(frags, fragment{ref: ref, amount: amount, parent: i})
		}
	}

	fragUsed := make([]bool, len(frags))
	results := make([]Result, 0, len(charges))

	for _, c := range charges {
		ref := strings.TrimSpace(c.Tx.ExternalRef)

		hit := -1

		if ref != "" {
			for i, f := range frags {
				if !fragUsed[i] && f.ref == ref {
					hit = i
					break
				}
			}
		}

		if hit < 0 {
			results = append(results, Result{Charge: c, Outstanding: c.Amount})
			continue
		}

		fragUsed[hit] = true
		claimedParents[frags[hit].parent] = true

		matched := ledger.Settlement{
			Tx:     settlements[frags[hit].parent].Tx,
			Amount: frags[hit].amount,
		}

		results = append(results, Result{
			Charge:      c,
			Settlement:  &matched,
			Outstanding: c.Amount.Sub(matched.Amount),
		})
	}

	var unmatched []ledger.Settlement

	for i, s := range settlements {
		if !claimedParents[i] {
			unmatched = append(unmatched, s)
		}
	}

	return Outcome{Results: results, Unmatched: unmatched}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
