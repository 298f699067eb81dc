package lease

import (
	"log/slog"
	"net/http"
	"time"

	"encoding/json"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ledgerkit/keystone/internal/export"
	"github.com/ledgerkit/keystone/internal/lease"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/schedule", h.schedule)
}

type scheduleRequest struct {
	Start          string   `json:"start"` // YYYY-MM-DD
	TermMonths     int      `json:"term_months"`
	IntervalMonths int      `json:"interval_months"`
	AnnualRate     float64  `json:"annual_rate"`
	MonthlyRent    []string `json:"monthly_rent"` // one entry per contract year
}

// schedule computes both amortization conventions and returns them as a
// two-sheet workbook.
func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	start, err := time.Parse(time.DateOnly, req.Start)
	if err != nil {
		http.Error(w, "invalid start date: "+err.Error(), http.StatusBadRequest)
		return
	}

	rents := make([]decimal.Decimal, 0, len(req.MonthlyRent))

	for _, raw := range req.MonthlyRent {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			http.Error(w, "invalid monthly rent "+raw+": "+err.Error(), http.StatusBadRequest)
			return
		}

		rents = append(rents, d)
	}

	in := lease.Input{
		Start:          start,
		TermMonths:     req.TermMonths,
		IntervalMonths: req.IntervalMonths,
		AnnualRate:     req.AnnualRate,
		MonthlyRent:    rents,
	}

	standard, err := lease.EffectiveInterest(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	perPeriod, err := lease.PerPeriodPV(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=lease_schedule.xlsx")

	err = export.WriteXLSX(w,
		standard.Sheet("Effective_Interest"),
		perPeriod.Sheet("Per_Period_PV"),
	)
	if err != nil {
		slog.Error("failed to write lease workbook", "error", err)
	}
}
