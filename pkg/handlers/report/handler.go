package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/de-tools/stock-reports/pkg/adapters"
	"github.com/de-tools/stock-reports/pkg/models/api"
	"github.com/de-tools/stock-reports/pkg/models/domain"
	"github.com/de-tools/stock-reports/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	maxBodyBytes = 1 << 20

	detailNoReports = "No reports found."
	detailNotFound  = "Report not found"
	detailBadQuery  = "Bad query"
	detailProvider  = "Data provider unavailable"
	detailInternal  = "Internal server error"
)

type Handler struct {
	reports report.Service
}

func NewHandler(reports report.Service) *Handler {
	return &Handler{
		reports: reports,
	}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.Get(r.Context(), "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(reports) == 0 {
		writeJSON(w, r, http.StatusNotFound, api.Error{Detail: detailNoReports})
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapReportsDomainToApi(reports))
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportID")

	reports, err := h.reports.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(reports) == 0 {
		writeJSON(w, r, http.StatusNotFound, api.Error{Detail: detailNotFound})
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapReportsDomainToApi(reports))
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var body api.CreateReportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeJSON(w, r, http.StatusBadRequest, api.Error{Detail: "invalid request body: " + err.Error()})
		return
	}

	req, err := domain.ParseTimeRange(body.Stock, body.Start, body.End)
	if err != nil {
		writeError(w, r, err)
		return
	}

	reports, err := h.reports.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, adapters.MapReportsDomainToApi(reports))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, r, http.StatusBadRequest, api.Error{Detail: err.Error()})
	case errors.Is(err, domain.ErrNoData):
		writeJSON(w, r, http.StatusBadRequest, api.Error{Detail: detailBadQuery})
	case errors.Is(err, domain.ErrProvider):
		logger.Error().Err(err).Msg("provider request failed")
		writeJSON(w, r, http.StatusBadGateway, api.Error{Detail: detailProvider})
	default:
		logger.Error().Err(err).Msg("request failed")
		writeJSON(w, r, http.StatusInternalServerError, api.Error{Detail: detailInternal})
	}
}

// writeJSON honours ?pretty=true with two-space indentation.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	logger := zerolog.Ctx(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	if pretty, _ := strconv.ParseBool(r.URL.Query().Get("pretty")); pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		logger.Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode response")
	}
}
