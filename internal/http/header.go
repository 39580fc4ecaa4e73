package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	"pulse-reports/internal/models"
)

const (
	headerRequestID   = "x-request-id"
	headerContentType = "content-type"

	queryPeriod     = "period"
	queryCachedOnly = "cached_only"
)

// newRequestID generates a ULID request id.
var newRequestID = func() string {
	return ulid.Make().String()
}

func requestID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerRequestID))
}

func setRequestID(r *http.Request, requestID string) {
	r.Header.Set(headerRequestID, requestID)
}

// period reads the period query parameter. A missing or unknown period renders the default window
// instead of failing the dashboard card.
func period(r *http.Request) models.Period {
	return models.PeriodOrDefault(strings.TrimSpace(r.URL.Query().Get(queryPeriod)))
}

// cachedOnly reports whether the caller asked for the cached report without triggering a computation.
func cachedOnly(r *http.Request) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(queryCachedOnly)))
	return err == nil && v
}
