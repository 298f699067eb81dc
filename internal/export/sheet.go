// Package export writes finished report tables to user-facing files. The core
// pipeline only tags rows; all styling decisions (merged group headers, shaded
// subtotal rows, column widths) live here.
package export

import "github.com/ledgerkit/keystone/internal/report"

// Sheet is one presentation table: a header, optionally a merged band above
// part of it, and tagged rows ready for styling.
type Sheet struct {
	Name        string
	Header      []string
	GroupHeader *GroupHeader
	Rows        []Row
}

// GroupHeader is a merged title cell spanning a column range above the header
// row, e.g. "Payment" over the payment columns.
type GroupHeader struct {
	Title   string
	FromCol int // 0-based, inclusive
	ToCol   int // 0-based, inclusive
}

// Row carries rendered cells plus the kind tag the styler keys off.
type Row struct {
	Kind  report.Kind
	Cells []string
}
