package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulse-reports/internal/reports"
	"pulse-reports/internal/shared/loggers"
	"pulse-reports/internal/shared/metrics"
)

// NewRouter creates the report API router.
func NewRouter(reportService reports.ReportService, httpLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	slowRoutesHandler := NewSlowRoutesHandler(reportService)
	cacheReportHandler := NewCacheReportHandler(reportService)

	router.Route("/reports", func(r chi.Router) {
		r.Get("/slow-routes", errorHandlingAdapter(slowRoutesHandler))
		r.Get("/cache", errorHandlingAdapter(cacheReportHandler))
	})
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
