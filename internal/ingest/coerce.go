package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateFormats are tried in order. Accurate exports day-first; xlsx cells come
// back in whatever display format the sheet used.
var dateFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"01-02-06",
}

// ParseDecimal coerces a raw cell to a decimal amount. Thousand separators and
// surrounding noise are stripped; anything unparseable becomes zero, never an
// error, so a bad cell can not change the row count.
func ParseDecimal(s string) decimal.Decimal {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimPrefix(clean, "Rp")
	clean = strings.TrimSpace(clean)

	if clean == "" || clean == "-" {
		return decimal.Zero
	}

	// Accounting negatives: (1.234) means -1234.
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = "-" + clean[1:len(clean)-1]
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// ParseDate coerces a raw cell to a date. Unparseable values yield the zero
// time; downstream the voucher generator files those under the 00-00 bucket.
func ParseDate(s string) time.Time {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return time.Time{}
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, clean); err == nil {
			return t
		}
	}

	return time.Time{}
}

// ParseMonth coerces a "01-2006" style month cell, accepting '/' as separator.
// Used by tenor/period columns on advance-sales exports.
func ParseMonth(s string) time.Time {
	clean := strings.TrimSpace(s)
	if clean == "" || clean == "-" {
		return time.Time{}
	}

	clean = strings.ReplaceAll(clean, "/", "-")

	if t, err := time.Parse("01-2006", clean); err == nil {
		return t
	}

	if t, err := time.Parse("1-2006", clean); err == nil {
		return t
	}

	return time.Time{}
}
