// Package rates holds the currency-rate lookup used to restate foreign
// amounts in the reporting currency. The table is built once at process start
// from configuration and is read-only afterwards; runs share it without
// locking because nothing mutates it.
package rates

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Table struct {
	base  string
	rates map[string]decimal.Decimal
}

// New builds a table for the given base currency from "CUR=RATE" pairs, e.g.
// "USD=15800,JPY=105". The base currency always rates 1.
func New(base string, pairs string) (*Table, error) {
	t := &Table{
		base:  strings.ToUpper(strings.TrimSpace(base)),
		rates: make(map[string]decimal.Decimal),
	}

	if t.base == "" {
		t.base = "IDR"
	}

	for _, pair := range strings.Split(pairs, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		cur, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid rate pair %q, want CUR=RATE", pair)
		}

		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("invalid rate for %q: %w", strings.TrimSpace(cur), err)
		}

		t.rates[strings.ToUpper(strings.TrimSpace(cur))] = d
	}

	return t, nil
}

// Base returns the reporting currency.
func (t *Table) Base() string {
	return t.base
}

// Rate returns the multiplier into the reporting currency. The base currency
// and anything unknown rate 1, so an unlisted currency passes amounts through
// unchanged instead of zeroing a report.
func (t *Table) Rate(currency string) decimal.Decimal {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if cur == "" || cur == t.base {
		return decimal.NewFromInt(1)
	}

	if r, ok := t.rates[cur]; ok {
		return r
	}

	return decimal.NewFromInt(1)
}

// Currency normalizes a source currency cell, defaulting blanks to the base.
func (t *Table) Currency(currency string) string {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if cur == "" {
		return t.base
	}

	return cur
}
