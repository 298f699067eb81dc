package cleaner

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkit/keystone/internal/export"
	"github.com/ledgerkit/keystone/internal/ingest"
	"github.com/ledgerkit/keystone/internal/report"
	"github.com/ledgerkit/keystone/internal/voucher"
)

// advance-sales source columns
var advSalesColumns = []string{
	"Customer", "Date", "Inv No", "Tenant ID",
	"Start Month", "End Month", "Number of Months", "Total Price",
}

// salesInvoice is one invoice after merging its line items.
type salesInvoice struct {
	customer string
	invoice  string
	date     time.Time
	tenants  []string
	start    time.Time
	end      time.Time
	term     int
	amount   decimal.Decimal

	monthly     decimal.Decimal
	allocations map[string]decimal.Decimal // period label -> recognized amount
	recognized  decimal.Decimal
}

// cleanAdvanceSales builds the monthly sales-recognition schedule for advance
// (deferred) sales invoices: line items merged per invoice, straight-line
// recognition over the tenor with a catch-up in the invoice month, fiscal-year
// accumulation columns, and the remaining deferred balance. Single-term
// invoices billed in their own service month need no deferral and are split
// out to a second sheet.
func (s *Service) cleanAdvanceSales(t *ingest.Table) (*Result, error) {
	invoices, rowsIn, err := groupSalesInvoices(t)
	if err != nil {
		return nil, err
	}

	var deferred, sameMonth []*salesInvoice

	for _, inv := range invoices {
		if inv.term == 1 && sameYearMonth(inv.date, inv.start) {
			sameMonth = append(sameMonth, inv)
		} else {
			deferred = append(deferred, inv)
		}
	}

	for _, inv := range deferred {
		inv.allocate()
	}

	sheets := []*export.Sheet{
		deferredSheet(deferred),
	}

	if len(sameMonth) > 0 {
		sheets = append(sheets, sameMonthSheet(sameMonth))
	}

	return &Result{
		Type:    AdvanceSales,
		Sheets:  sheets,
		Summary: Summary{RowsIn: rowsIn, Charges: len(invoices)},
	}, nil
}

// groupSalesInvoices merges line items sharing (customer, invoice, date):
// tenant IDs are combined, the tenor range widens to cover every line, the
// term is the most common value across lines, and amounts sum.
func groupSalesInvoices(t *ingest.Table) ([]*salesInvoice, int, error) {
	cols, headerIdx, err := t.Locate(advSalesColumns)
	if err != nil {
		return nil, 0, err
	}

	var (
		order []string
		byKey = make(map[string]*salesInvoice)
		terms = make(map[string][]int)
		rows  int
	)

	for _, row := range t.Body(headerIdx) {
		customer := ingest.Cell(row, cols["Customer"])
		if customer == "" {
			continue
		}

		rows++

		date := ingest.ParseDate(ingest.Cell(row, cols["Date"]))
		invoice := ingest.Cell(row, cols["Inv No"])
		tenant := ingest.Cell(row, cols["Tenant ID"])
		start := ingest.ParseMonth(ingest.Cell(row, cols["Start Month"]))
		end := ingest.ParseMonth(ingest.Cell(row, cols["End Month"]))
		term := int(ingest.ParseDecimal(ingest.Cell(row, cols["Number of Months"])).IntPart())
		amount := ingest.ParseDecimal(ingest.Cell(row, cols["Total Price"]))

		// Single-term invoices often leave the end month blank.
		if end.IsZero() {
			end = start
		}

		if term < 1 {
			term = 1
		}

		key := customer + "\x00" + invoice + "\x00" + formatDate(date)

		inv, seen := byKey[key]
		if !seen {
			inv = &salesInvoice{
				customer: customer,
				invoice:  invoice,
				date:     date,
				start:    start,
				end:      end,
			}
			byKey[key] = inv
			order = append(order, key)
		}

		if tenant != "" && !contains(inv.tenants, tenant) {
			inv.tenants = append(inv.tenants, tenant)
		}

		if !start.IsZero() && (inv.start.IsZero() || start.Before(inv.start)) {
			inv.start = start
		}

		if end.After(inv.end) {
			inv.end = end
		}

		inv.amount = inv.amount.Add(amount)
		terms[key] = append(terms[key], term)
	}

	out := make([]*salesInvoice, 0, len(order))

	for _, key := range order {
		inv := byKey[key]
		inv.term = modeOf(terms[key])
		sort.Strings(inv.tenants)
		out = append(out, inv)
	}

	return out, rows, nil
}

// allocate spreads the invoice amount over its tenor. Months before the
// invoice month defer to a catch-up recognized in the invoice month itself;
// months after recognize the straight-line amount.
func (inv *salesInvoice) allocate() {
	inv.monthly = inv.amount.Div(decimal.NewFromInt(int64(inv.term))).Round(2)
	inv.allocations = make(map[string]decimal.Decimal)

	// No tenor months at all: nothing to spread, balance stays fully deferred.
	if inv.start.IsZero() {
		return
	}

	invoiceMonth := monthStart(inv.date)

	for p := monthStart(inv.start); !p.After(monthStart(inv.end)); p = p.AddDate(0, 1, 0) {
		label := periodLabel(p)

		switch {
		case p.Before(invoiceMonth):
			inv.allocations[label] = decimal.Zero

		case p.Equal(invoiceMonth):
			catchUp := 0
			for q := monthStart(inv.start); q.Before(p); q = q.AddDate(0, 1, 0) {
				catchUp++
			}

			inv.allocations[label] = inv.monthly.Mul(decimal.NewFromInt(int64(catchUp + 1)))

		default:
			inv.allocations[label] = inv.monthly
		}
	}

	for _, a := range inv.allocations {
		inv.recognized = inv.recognized.Add(a)
	}
}

func deferredSheet(invoices []*salesInvoice) *export.Sheet {
	periods := globalPeriods(invoices)
	fys := fiscalYears(periods)

	header := []string{
		"Date", "Voucher No", "Company Name", "Tenant ID", "Invoice", "Period",
		"Total Term", "Amount", "Monthly Sales Recognition",
	}

	// FY accumulation columns slot in after the June that closes each fiscal
	// year; FYs without a June period column trail at the end.
	placedFY := make(map[int]bool)

	for _, p := range periods {
		header = append(header, periodLabel(p))

		for _, fy := range fys {
			if p.Month() == time.June && p.Year() == fy+1 {
				header = append(header, fyLabel(fy))
				placedFY[fy] = true
			}
		}
	}

	for _, fy := range fys {
		if !placedFY[fy] {
			header = append(header, fyLabel(fy))
		}
	}

	header = append(header, "Sales Recognition as of end of month", "Ending Balance")

	sheet := &export.Sheet{Name: "Advance_Sales", Header: header}

	dates := make([]time.Time, len(invoices))
	for i, inv := range invoices {
		dates[i] = inv.date
	}

	vouchers := voucher.Numbers(dates, "AR")

	totals := make([]decimal.Decimal, len(header))
	numeric := make([]bool, len(header))

	for i, inv := range invoices {
		ending := inv.amount.Sub(inv.recognized)

		cells := []string{
			formatDate(inv.date),
			vouchers[i],
			inv.customer,
			strings.Join(inv.tenants, ", "),
			inv.invoice,
			tenorPeriod(inv.start, inv.end),
			decimal.NewFromInt(int64(inv.term)).String(),
			inv.amount.String(),
			inv.monthly.String(),
		}

		addNum := func(col int, d decimal.Decimal) {
			totals[col] = totals[col].Add(d)
			numeric[col] = true
		}

		addNum(6, decimal.NewFromInt(int64(inv.term)))
		addNum(7, inv.amount)
		addNum(8, inv.monthly)

		col := len(cells)

		for _, p := range periods {
			a := inv.allocations[periodLabel(p)]
			cells = append(cells, a.String())
			addNum(col, a)
			col++

			for _, fy := range fys {
				if p.Month() == time.June && p.Year() == fy+1 {
					fyTotal := inv.fiscalTotal(fy, periods)
					cells = append(cells, fyTotal.String())
					addNum(col, fyTotal)
					col++
				}
			}
		}

		for _, fy := range fys {
			if !placedFY[fy] {
				fyTotal := inv.fiscalTotal(fy, periods)
				cells = append(cells, fyTotal.String())
				addNum(col, fyTotal)
				col++
			}
		}

		cells = append(cells, inv.recognized.String(), ending.String())
		addNum(col, inv.recognized)
		addNum(col+1, ending)

		sheet.Rows = append(sheet.Rows, export.Row{Kind: report.KindDetail, Cells: cells})
	}

	totalCells := make([]string, len(header))
	for i := range totalCells {
		if numeric[i] {
			totalCells[i] = totals[i].String()
		}
	}

	totalCells[2] = "TOTAL"

	sheet.Rows = append(sheet.Rows, export.Row{Kind: report.KindTotal, Cells: totalCells})

	return sheet
}

func sameMonthSheet(invoices []*salesInvoice) *export.Sheet {
	sheet := &export.Sheet{
		Name: "Same_Month_Sales",
		Header: []string{
			"Date", "Company Name", "Tenant ID", "Invoice", "Total Term", "Amount",
		},
	}

	var total decimal.Decimal

	for _, inv := range invoices {
		total = total.Add(inv.amount)

		sheet.Rows = append(sheet.Rows, export.Row{
			Kind: report.KindDetail,
			Cells: []string{
				formatDate(inv.date),
				inv.customer,
				strings.Join(inv.tenants, ", "),
				inv.invoice,
				decimal.NewFromInt(int64(inv.term)).String(),
				inv.amount.String(),
			},
		})
	}

	sheet.Rows = append(sheet.Rows, export.Row{
		Kind:  report.KindTotal,
		Cells: []string{"TOTAL", "", "", "", "", total.String()},
	})

	return sheet
}

// fiscalTotal sums this invoice's allocations inside the July-June fiscal year.
func (inv *salesInvoice) fiscalTotal(fy int, periods []time.Time) decimal.Decimal {
	from := time.Date(fy, time.July, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(fy+1, time.June, 30, 0, 0, 0, 0, time.UTC)

	var total decimal.Decimal

	for _, p := range periods {
		if !p.Before(from) && !p.After(to) {
			total = total.Add(inv.allocations[periodLabel(p)])
		}
	}

	return total
}

// globalPeriods is the sorted union of every invoice's tenor months.
func globalPeriods(invoices []*salesInvoice) []time.Time {
	seen := make(map[time.Time]bool)

	var periods []time.Time

	for _, inv := range invoices {
		if inv.start.IsZero() {
			continue
		}

		for p := monthStart(inv.start); !p.After(monthStart(inv.end)); p = p.AddDate(0, 1, 0) {
			if !seen[p] {
				seen[p] = true
				periods = append(periods, p)
			}
		}
	}

	sort.Slice(periods, func(a, b int) bool { return periods[a].Before(periods[b]) })

	return periods
}

// fiscalYears lists the July-June fiscal years touched by the periods.
func fiscalYears(periods []time.Time) []int {
	seen := make(map[int]bool)

	var fys []int

	for _, p := range periods {
		fy := p.Year()
		if p.Month() < time.July {
			fy--
		}

		if !seen[fy] {
			seen[fy] = true
			fys = append(fys, fy)
		}
	}

	sort.Ints(fys)

	return fys
}

func monthStart(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}

	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func periodLabel(p time.Time) string {
	return p.Format("01-2006")
}

func fyLabel(fy int) string {
	return "Total Acc Sales Recognition FY " + strconv.Itoa(fy)
}

// tenorPeriod renders "01-04-2024 - 30-06-2024": first day of the start month
// to the last day of the end month.
func tenorPeriod(start, end time.Time) string {
	if start.IsZero() {
		return ""
	}

	first := monthStart(start)
	last := monthStart(end).AddDate(0, 1, -1)

	return first.Format("02-01-2006") + " - " + last.Format("02-01-2006")
}

func sameYearMonth(a, b time.Time) bool {
	return !a.IsZero() && !b.IsZero() && a.Year() == b.Year() && a.Month() == b.Month()
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}

	return false
}

// modeOf returns the most common value, first-seen winning ties.
func modeOf(xs []int) int {
	if len(xs) == 0 {
		return 1
	}

	counts := make(map[int]int)
	best := xs[0]

	for _, x := range xs {
		counts[x]++
	}

	for _, x := range xs {
		if counts[x] > counts[best] {
			best = x
		}
	}

	return best
}
