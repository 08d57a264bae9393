package payroll

import (
	"testing"
	"time"
)

func TestMonthPeriod(t *testing.T) {
	p := MonthPeriod(time.Date(2024, 2, 15, 13, 0, 0, 0, time.UTC))
	if p.Start.Format(dateLayout) != "2024-02-01" || p.End.Format(dateLayout) != "2024-02-29" {
		t.Fatalf("unexpected leap february bounds %s..%s", p.Start, p.End)
	}
	if p.Label != "2024-02" {
		t.Fatalf("unexpected label %q", p.Label)
	}
	if !p.Contains(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)) {
		t.Fatal("last day should be inside the period")
	}
	if p.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("first day of next month should be outside the period")
	}
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC)
	p, err := ParseMonth("", now)
	if err != nil || p.Label != "2025-12" {
		t.Fatalf("expected current month, got %q %v", p.Label, err)
	}
	p, err = ParseMonth("2025-04", now)
	if err != nil || p.End.Day() != 30 {
		t.Fatalf("expected april with 30 days, got %v %v", p.End, err)
	}
	if _, err := ParseMonth("04/2025", now); err != ErrInvalidMonth {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}
