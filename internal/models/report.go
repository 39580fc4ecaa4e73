package models

import "time"

// SlowRoutesReport is what the dashboard polls for the slow routes card.
// A nil SlowRoutes means the report was never computed, an empty slice means no slow requests in the window.
type SlowRoutesReport struct {
	Period        Period             `json:"period"`
	SlowRoutes    []SlowRouteSummary `json:"slowRoutes"`
	ComputeTimeMs int64              `json:"computeTimeMs"`
	ComputedAt    *time.Time         `json:"computedAt"`
}

type CacheReport struct {
	Period                 Period                      `json:"period"`
	All                    *CacheInteractionSummary    `json:"all"`
	AllComputeTimeMs       int64                       `json:"allComputeTimeMs"`
	AllComputedAt          *time.Time                  `json:"allComputedAt"`
	Monitored              []MonitoredCacheInteraction `json:"monitored"`
	MonitoredComputeTimeMs int64                       `json:"monitoredComputeTimeMs"`
	MonitoredComputedAt    *time.Time                  `json:"monitoredComputedAt"`
}
