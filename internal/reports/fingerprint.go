package reports

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"pulse-reports/internal/models"
)

func slowRoutesFingerprint(prefix string, period models.Period, thresholdMs int64) string {
	return fmt.Sprintf("%sslow-routes:%s:%d", prefix, period, thresholdMs)
}

func cacheAllFingerprint(prefix string, period models.Period) string {
	return fmt.Sprintf("%scache-all:%s", prefix, period)
}

func cacheMonitoredFingerprint(prefix string, period models.Period, patternsHash string) string {
	return fmt.Sprintf("%scache-monitored:%s:%s", prefix, period, patternsHash)
}

// hashPatterns is stable for an ordered pattern list and changes with any name, pattern or order change.
func hashPatterns(patterns []models.MonitoredKeyPattern) (string, error) {
	if patterns == nil {
		patterns = []models.MonitoredKeyPattern{}
	}
	data, err := json.Marshal(patterns)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key patterns: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
