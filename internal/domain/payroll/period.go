package payroll

import (
	"strings"
	"time"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// Period is an inclusive range of calendar dates, held as UTC midnights.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthPeriod covers the first through the last day of ref's month.
func MonthPeriod(ref time.Time) Period {
	y, m, _ := ref.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, -1), Label: start.Format(monthLayout)}
}

func DayPeriod(date time.Time) Period {
	day := calendarDate(date)
	return Period{Start: day, End: day, Label: day.Format(dateLayout)}
}

// ParseMonth reads "YYYY-MM". An empty value means the month containing now.
func ParseMonth(value string, now time.Time) (Period, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return MonthPeriod(now), nil
	}
	ref, err := time.Parse(monthLayout, value)
	if err != nil {
		return Period{}, ErrInvalidMonth
	}
	return MonthPeriod(ref), nil
}

func (p Period) Contains(date time.Time) bool {
	day := calendarDate(date)
	return !day.Before(p.Start) && !day.After(p.End)
}
