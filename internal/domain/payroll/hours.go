package payroll

import (
	"strings"
	"time"

	"timesheet/internal/domain/worklog"
)

// referenceDay anchors both clock times so that only the time of day matters.
var referenceDay = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func parseClock(value *string) (time.Time, bool) {
	if value == nil {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(*value)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return referenceDay.Add(time.Duration(parsed.Hour())*time.Hour +
				time.Duration(parsed.Minute())*time.Minute +
				time.Duration(parsed.Second())*time.Second), true
		}
	}
	return time.Time{}, false
}

// shiftSeconds is the worked duration in whole seconds. An end that is not
// after the start belongs to the next day. Day-off entries, missing or
// unparseable times all count as zero.
func shiftSeconds(clockIn, clockOut *string, kind worklog.Kind) int64 {
	if kind == worklog.KindDayOff {
		return 0
	}
	start, ok := parseClock(clockIn)
	if !ok {
		return 0
	}
	end, ok := parseClock(clockOut)
	if !ok {
		return 0
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	seconds := int64(end.Sub(start) / time.Second)
	if seconds <= 0 {
		return 0
	}
	return seconds
}

// ComputeHours returns the hours worked between two "HH:MM[:SS]" clock
// times. 09:00 to 09:00 is a full 24 hour shift.
func ComputeHours(clockIn, clockOut *string, kind worklog.Kind) float64 {
	return float64(shiftSeconds(clockIn, clockOut, kind)) / 3600
}

// IsOvernight reports whether the shift ends on the day after it starts.
func IsOvernight(clockIn, clockOut *string) bool {
	start, ok := parseClock(clockIn)
	if !ok {
		return false
	}
	end, ok := parseClock(clockOut)
	if !ok {
		return false
	}
	return !end.After(start)
}
