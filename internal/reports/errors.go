package reports

import (
	"errors"
	"fmt"

	"pulse-reports/internal/models"
	"pulse-reports/internal/shared/svcerrors"
	"pulse-reports/internal/stores"
)

const (
	codeInvalidPeriod         = "RPT_1000"
	codeUnavailableEventStore = "RPT_9000"
	codeInternalReportFailed  = "RPT_9001"
)

// errInvalidPeriod returns an error when the requested period is not a known period token.
func errInvalidPeriod(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidPeriod, "period must be one of 1_hour, 6_hours, 24_hours, 7_days", cause)
}

// errUnavailableEventStore returns an error when the event store cannot serve the aggregation query.
func errUnavailableEventStore(cause error) *svcerrors.ServiceError {
	return svcerrors.NewUnavailableError(codeUnavailableEventStore, "event store unavailable", cause)
}

// errInternalReportFailed returns an error when a report fails for any other reason.
func errInternalReportFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalReportFailed, fmt.Errorf("reportFailed: %w", cause))
}

func toServiceError(err error) *svcerrors.ServiceError {
	if svcErr, ok := svcerrors.AsServiceError(err); ok {
		return svcErr
	}
	switch {
	case errors.Is(err, models.ErrInvalidPeriod):
		return errInvalidPeriod(err)
	case errors.Is(err, stores.ErrStoreUnavailable):
		return errUnavailableEventStore(err)
	default:
		return errInternalReportFailed(err)
	}
}
