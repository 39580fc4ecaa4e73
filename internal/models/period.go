package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned when a period token is not one of the recognized values.
var ErrInvalidPeriod = errors.New("invalid period")

// Period is the dashboard time window a report covers, ending now.
type Period string

const (
	Period1Hour   Period = "1_hour"
	Period6Hours  Period = "6_hours"
	Period24Hours Period = "24_hours"
	Period7Days   Period = "7_days"

	DefaultPeriod = Period1Hour
)

// periodSettings maps each period to its lookback in hours and its report cache TTL.
// Longer windows are more expensive to scan and are cached longer.
var periodSettings = map[Period]struct {
	lookbackHours int
	cacheTTL      time.Duration
}{
	Period1Hour:   {lookbackHours: 1, cacheTTL: 5 * time.Second},
	Period6Hours:  {lookbackHours: 6, cacheTTL: 30 * time.Second},
	Period24Hours: {lookbackHours: 24, cacheTTL: 60 * time.Second},
	Period7Days:   {lookbackHours: 168, cacheTTL: 600 * time.Second},
}

// Periods returns all recognized periods ordered by window size.
func Periods() []Period {
	return []Period{Period1Hour, Period6Hours, Period24Hours, Period7Days}
}

// ParsePeriod strictly parses a period token.
func ParsePeriod(token string) (Period, error) {
	p := Period(token)
	if _, ok := periodSettings[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, token)
	}
	return p, nil
}

// PeriodOrDefault parses token and falls back to DefaultPeriod when it is not recognized.
// Meant for user-facing request handling, where a bad token should not fail the page.
func PeriodOrDefault(token string) Period {
	p, err := ParsePeriod(token)
	if err != nil {
		return DefaultPeriod
	}
	return p
}

// ResolvePeriod returns the lookback hours and cache TTL for a period token.
func ResolvePeriod(token string) (int, time.Duration, error) {
	p, err := ParsePeriod(token)
	if err != nil {
		return 0, 0, err
	}
	return p.LookbackHours(), p.CacheTTL(), nil
}

// Validate returns ErrInvalidPeriod if p is not a recognized period.
func (p Period) Validate() error {
	_, err := ParsePeriod(string(p))
	return err
}

// LookbackHours returns the window length in hours. Panics on an unrecognized period.
func (p Period) LookbackHours() int {
	return p.settings().lookbackHours
}

// Lookback returns the window length.
func (p Period) Lookback() time.Duration {
	return time.Duration(p.LookbackHours()) * time.Hour
}

// CacheTTL returns how long a report computed for this period stays fresh.
func (p Period) CacheTTL() time.Duration {
	return p.settings().cacheTTL
}

// WindowStart returns the inclusive start of the window ending at now.
func (p Period) WindowStart(now time.Time) time.Time {
	return now.Add(-p.Lookback())
}

func (p Period) settings() struct {
	lookbackHours int
	cacheTTL      time.Duration
} {
	s, ok := periodSettings[p]
	if !ok {
		panic(fmt.Sprintf("invalid Period: %q", p))
	}
	return s
}
