package cleaner

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ledgerkit/keystone/internal/classify"
	"github.com/ledgerkit/keystone/internal/ingest"
	"github.com/ledgerkit/keystone/internal/ledger"
	"github.com/ledgerkit/keystone/internal/match"
	"github.com/ledgerkit/keystone/internal/report"
)

// accurateMapping is the column layout of a general-ledger account export
// from Accurate, shared by most report types.
var accurateMapping = ingest.Mapping{
	Date:         "Date",
	ExternalRef:  "Trans No",
	Counterparty: "Vendor/Client",
	Description:  "Description",
	Debit:        "Debit",
	Credit:       "Credit",
	Key:          "Vendor/Client",
}

var specs = map[Type]Spec{
	AdvancePayment: {
		Title:         "Advance Payment",
		SheetName:     "Advance_Payment",
		Mapping:       accurateMapping,
		Classify:      classify.Policy{Mode: classify.ModeSignedColumn, ChargeSide: ledger.SideDebit},
		Match:         match.Policy{Kind: match.StrictAmount},
		BalanceHeader: "Outstanding",
	},

	// Other receivables are reviewed per expense category rather than per
	// counterparty, so the partition key is derived from the description.
	OtherReceivable: {
		Title:         "Other Receivable",
		SheetName:     "OR_Keystone",
		Mapping:       accurateMapping,
		Classify:      classify.Policy{Mode: classify.ModeSignedColumn, ChargeSide: ledger.SideDebit},
		Match:         match.Policy{Kind: match.StrictAmount},
		GroupKey:      descriptionCategory,
		BalanceHeader: "Ending Balance",
	},

	// Temporary receipts sit on the credit side; the payments clearing them
	// are debits.
	TemporaryReceipt: {
		Title:         "Temporary Receipt",
		SheetName:     "Temporary_Receipt",
		Mapping:       accurateMapping,
		Classify:      classify.Policy{Mode: classify.ModeSignedColumn, ChargeSide: ledger.SideCredit},
		Match:         match.Policy{Kind: match.StrictAmount},
		BalanceHeader: "Outstanding",
	},

	// The AR export encodes receipts by reference text, not polarity, and a
	// receipt names the invoice it settles inside its description.
	AccountReceivable: {
		Title:     "Account Receivable",
		SheetName: "AR_Keystone",
		Mapping: ingest.Mapping{
			Date:         "Date",
			ExternalRef:  "Invoice No",
			Counterparty: "Customer",
			Description:  "Description",
			Currency:     "Currency",
			Debit:        "Original Amount",
			Credit:       "Payment Amount",
			Key:          "Customer",
		},
		Classify: classify.Policy{
			Mode:       classify.ModeTextMarker,
			ChargeSide: ledger.SideDebit,
			Markers:    []string{"receipt", "paid", "top up"},
		},
		Match:         match.Policy{Kind: match.CrossReference},
		GroupKey:      report.GroupKey,
		VoucherPrefix: "AR",
		BalanceHeader: "Ending Balance",
	},

	// Payables settle in bulk: one payment voucher lists every invoice it
	// covers, so settlements are expanded per referenced charge.
	OtherPayable: {
		Title:         "Other Payable",
		SheetName:     "Other_Payable",
		Mapping:       accurateMapping,
		Classify:      classify.Policy{Mode: classify.ModeSignedColumn, ChargeSide: ledger.SideCredit},
		Match:         match.Policy{Kind: match.ReferenceExpansion},
		GroupKey:      report.GroupKey,
		BalanceHeader: "Outstanding",
	},
}

// descriptionCategory derives a partition key from the description's leading
// word; rows with empty descriptions fall into "Other". The unmatched-payments
// partition keeps its own group.
func descriptionCategory(r report.Row) string {
	if r.Group != "" {
		return r.Group
	}

	fields := strings.Fields(r.Description)
	if len(fields) == 0 {
		return "Other"
	}

	return cases.Title(language.English).String(strings.Trim(fields[0], ".,:;-"))
}
