package http

import (
	"net/http"

	"pulse-reports/internal/reports"
)

type slowRoutesHandler struct {
	reportService reports.ReportService
}

func NewSlowRoutesHandler(reportService reports.ReportService) AppHttpHandler {
	return &slowRoutesHandler{reportService: reportService}
}

// Handle processes GET /reports/slow-routes requests.
// With cached_only=true it never computes, so a cold cache answers with null slowRoutes.
func (h *slowRoutesHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	load := h.reportService.SlowRoutes
	if cachedOnly(r) {
		load = h.reportService.CachedSlowRoutes
	}

	report, err := load(r.Context(), period(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, report)
}

type cacheReportHandler struct {
	reportService reports.ReportService
}

func NewCacheReportHandler(reportService reports.ReportService) AppHttpHandler {
	return &cacheReportHandler{reportService: reportService}
}

// Handle processes GET /reports/cache requests.
func (h *cacheReportHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	report, err := h.reportService.CacheInteractions(r.Context(), period(r))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, report)
}
