package loggers

const (
	FieldApp        = "app"
	FieldComponent  = "component"
	FieldHttpMethod = "http_method"
	FieldHttpPath   = "http_path"
	FieldHttpStatus = "http_status"

	FieldDuration   = "duration"
	FieldRequestID  = "request_id"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldReport      = "report"
	FieldPeriod      = "period"
	FieldFingerprint = "fingerprint"
	FieldCacheResult = "cache_result"
	FieldComputeMs   = "compute_ms"
	FieldTable       = "table"
)
