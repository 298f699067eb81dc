package match

import "github.com/ledgerkit/keystone/internal/ledger"

// pool is an ordered settlement collection with at-most-once claim semantics.
// A claimed settlement is permanently excluded from later scans, which is what
// prevents double-matching.
type pool struct {
	items []ledger.Settlement
	used  []bool
}

func newPool(items []ledger.Settlement) *pool {
	return &pool{
		items: items,
		used:  make([]bool, len(items)),
	}
}

// claim scans in input order for the first unused settlement accepted by ok,
// marks it used, and returns it. First in input order wins; there is no
// amount-closest or date-closest heuristic.
func (p *pool) claim(ok func(ledger.Settlement) bool) (ledger.Settlement, bool) {
	for i, s := range p.items {
		if p.used[i] {
			continue
		}

		if ok(s) {
			p.used[i] = true
			return s, true
		}
	}

	return ledger.Settlement{}, false
}

// unclaimed returns the settlements never consumed by a charge, in input order.
func (p *pool) unclaimed() []ledger.Settlement {
	var rest []ledger.Settlement

	for i, s := range p.items {
		if !p.used[i] {
			rest = append(rest, s)
		}
	}

	return rest
}
