package clean

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ledgerkit/keystone/internal/cleaner"
	"github.com/ledgerkit/keystone/internal/export"
	"github.com/ledgerkit/keystone/internal/ingest"
)

type Handler struct {
	cleanSvc  *cleaner.Service
	maxUpload int64
}

func NewHandler(cleanSvc *cleaner.Service, maxUpload int64) *Handler {
	return &Handler{
		cleanSvc:  cleanSvc,
		maxUpload: maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.listReports)
	r.Post("/{report}/clean", h.clean)
}

type reportDTO struct {
	ID string `json:"id"`
}

type summaryResponse struct {
	RunID   uuid.UUID       `json:"run_id"`
	Report  cleaner.Type    `json:"report"`
	Summary cleaner.Summary `json:"summary"`
}

func (h *Handler) listReports(w http.ResponseWriter, r *http.Request) {
	reports := make([]reportDTO, 0, len(cleaner.Types()))
	for _, t := range cleaner.Types() {
		reports = append(reports, reportDTO{ID: string(t)})
	}

	writeJSON(w, http.StatusOK, reports)
}

// clean accepts one uploaded ledger export, runs the report's full transform,
// and streams the result back. format=xlsx (default) returns the styled
// workbook, format=csv the first sheet as plain CSV, format=json only the run
// summary.
func (h *Handler) clean(w http.ResponseWriter, r *http.Request) {
	report := cleaner.Type(chi.URLParam(r, "report"))

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	table, err := ingest.Read(header.Filename, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID := uuid.New()

	result, err := h.cleanSvc.Clean(report, table)
	if err != nil {
		status := http.StatusInternalServerError

		var schemaErr *ingest.SchemaError
		if errors.As(err, &schemaErr) || errors.Is(err, cleaner.ErrUnknownReport) {
			status = http.StatusBadRequest
		}

		slog.Error("clean failed", "run_id", runID, "report", report, "error", err)
		http.Error(w, err.Error(), status)

		return
	}

	slog.Info("clean completed",
		"run_id", runID,
		"report", report,
		"rows_in", result.Summary.RowsIn,
		"matched", result.Summary.Matched,
		"unmatched_settlements", result.Summary.UnmatchedSettlements,
	)

	w.Header().Set("X-Run-ID", runID.String())

	switch r.URL.Query().Get("format") {
	case "json":
		writeJSON(w, http.StatusOK, summaryResponse{RunID: runID, Report: report, Summary: result.Summary})

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", attachment(report, "csv"))

		if err := export.WriteCSV(w, result.Sheets[0]); err != nil {
			slog.Error("failed to write csv", "run_id", runID, "error", err)
		}

	default:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", attachment(report, "xlsx"))

		if err := export.WriteXLSX(w, result.Sheets...); err != nil {
			slog.Error("failed to write workbook", "run_id", runID, "error", err)
		}
	}
}

func attachment(report cleaner.Type, ext string) string {
	return fmt.Sprintf("attachment; filename=%s_formatted.%s", report, ext)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
