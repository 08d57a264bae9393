package worklog

import (
	"strings"
	"time"
)

const clockLayout = "15:04:05"

// NormalizeClock accepts "HH:MM" or "HH:MM:SS" and returns "HH:MM:SS".
func NormalizeClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{clockLayout, "15:04"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(clockLayout), nil
		}
	}
	return "", ErrInvalidClock
}

func normalizeClockPtr(value *string) (*string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	normalized, err := NormalizeClock(*value)
	if err != nil {
		return nil, err
	}
	return &normalized, nil
}

// ClockOf formats the time-of-day part of t.
func ClockOf(t time.Time) string {
	return t.Format(clockLayout)
}

// DateOf truncates t to its calendar date in t's location, returned as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
