// Package lease builds right-of-use amortization schedules for lease
// contracts. Two conventions are produced from the same payment plan: the
// effective-interest method (interest on the opening balance each period) and
// the per-period present-value method some consultants use (each payment
// discounted on its own). Both discount annuity-due: payments fall at the
// beginning of the period.
package lease

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Input describes one lease contract.
type Input struct {
	Start          time.Time
	TermMonths     int
	IntervalMonths int // months between payments
	AnnualRate     float64 // incremental borrowing rate, e.g. 0.10 for 10%

	// MonthlyRent holds the rent per month for each contract year; the last
	// entry carries forward when the term outlives the list.
	MonthlyRent []decimal.Decimal
}

// Period is one payment period of a schedule.
type Period struct {
	Index     int
	Start     time.Time
	End       time.Time
	Payment   decimal.Decimal
	PV        decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Closing   decimal.Decimal
}

// Schedule is a full amortization table.
type Schedule struct {
	Opening decimal.Decimal // total right-of-use asset at commencement
	Periods []Period
}

func (in Input) validate() error {
	if in.TermMonths < 1 {
		return fmt.Errorf("term must be at least one month")
	}

	if in.IntervalMonths < 1 {
		return fmt.Errorf("payment interval must be at least one month")
	}

	if in.IntervalMonths > in.TermMonths {
		return fmt.Errorf("payment interval %d exceeds term %d", in.IntervalMonths, in.TermMonths)
	}

	if len(in.MonthlyRent) == 0 {
		return fmt.Errorf("at least one monthly rent is required")
	}

	return nil
}

// periodicRate converts the annual borrowing rate to the payment interval:
// (1+annual)^(interval/12) - 1.
func (in Input) periodicRate() float64 {
	return math.Pow(1+in.AnnualRate, float64(in.IntervalMonths)/12) - 1
}

// payments expands the rent plan into one payment per period with its date
// range.
func (in Input) payments() []Period {
	n := in.TermMonths / in.IntervalMonths
	interval := decimal.NewFromInt(int64(in.IntervalMonths))

	periods := make([]Period, n)

	for p := 0; p < n; p++ {
		year := (p * in.IntervalMonths) / 12
		if year >= len(in.MonthlyRent) {
			year = len(in.MonthlyRent) - 1
		}

		start := in.Start.AddDate(0, p*in.IntervalMonths, 0)

		periods[p] = Period{
			Index:   p + 1,
			Start:   start,
			End:     start.AddDate(0, in.IntervalMonths, -1),
			Payment: in.MonthlyRent[year].Mul(interval),
		}
	}

	return periods
}

// discount is the present value of one payment falling at the beginning of
// its period: payment / (1+r)^(index-1). The first payment is undiscounted.
func discount(rate float64, index int, payment decimal.Decimal) decimal.Decimal {
	if rate == 0 || index <= 1 {
		return payment
	}

	return payment.Div(decimal.NewFromFloat(math.Pow(1+rate, float64(index-1)))).Round(2)
}

// EffectiveInterest builds the standard schedule: the asset opens at the sum
// of the individually discounted payments, each period accrues interest on the
// opening balance, and the principal portion runs the balance down.
func EffectiveInterest(in Input) (*Schedule, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	rate := in.periodicRate()
	periods := in.payments()

	var opening decimal.Decimal

	for i := range periods {
		periods[i].PV = discount(rate, periods[i].Index, periods[i].Payment)
		opening = opening.Add(periods[i].PV)
	}

	balance := opening

	for i := range periods {
		interest := balance.Mul(decimal.NewFromFloat(rate)).Round(2)
		principal := periods[i].Payment.Sub(interest)
		balance = balance.Sub(principal)

		periods[i].Interest = interest
		periods[i].Principal = principal
		periods[i].Closing = balance
	}

	return &Schedule{Opening: opening, Periods: periods}, nil
}

// PerPeriodPV builds the consultant-convention schedule: the per-period rate
// is the annual rate divided evenly across the payment periods (simple, not
// compounded), every payment is discounted independently at that rate, the
// interest expense is the payment less its own present value, and the
// principal is the present value itself.
func PerPeriodPV(in Input) (*Schedule, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	rate := in.AnnualRate / float64(in.TermMonths/in.IntervalMonths)
	periods := in.payments()

	var opening decimal.Decimal

	for i := range periods {
		periods[i].PV = discount(rate, periods[i].Index, periods[i].Payment)
		opening = opening.Add(periods[i].PV)
	}

	balance := opening

	for i := range periods {
		interest := periods[i].Payment.Sub(periods[i].PV)
		principal := periods[i].PV
		balance = balance.Sub(principal)

		periods[i].Interest = interest
		periods[i].Principal = principal
		periods[i].Closing = balance
	}

	return &Schedule{Opening: opening, Periods: periods}, nil
}
