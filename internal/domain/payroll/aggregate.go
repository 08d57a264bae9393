package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"timesheet/internal/domain/deduction"
	"timesheet/internal/domain/worklog"
)

// counts reports whether an entry contributes to pay in the period.
func counts(entry worklog.Entry, period Period) bool {
	return entry.State == worklog.StateApproved && period.Contains(entry.Date)
}

// ComputePayroll aggregates approved entries inside period and runs the
// monthly deduction pipeline. It has no side effects.
func ComputePayroll(entries []worklog.Entry, wage decimal.Decimal, rules []deduction.Rule, period Period, policy NegativeNetPolicy) Result {
	return compute(entries, wage, rules, period, policy, ApplyDeductions)
}

// ComputeDay is the calendar-day variant. Fixed rules are amortized per day.
func ComputeDay(entries []worklog.Entry, date time.Time, wage decimal.Decimal, rules []deduction.Rule, policy NegativeNetPolicy) Result {
	return compute(entries, wage, rules, DayPeriod(date), policy, ApplyDailyDeductions)
}

type pipeline func(gross decimal.Decimal, rules []deduction.Rule, policy NegativeNetPolicy) Breakdown

func compute(entries []worklog.Entry, wage decimal.Decimal, rules []deduction.Rule, period Period, policy NegativeNetPolicy, apply pipeline) Result {
	var seconds int64
	openShift := false
	for _, entry := range entries {
		if !counts(entry, period) {
			continue
		}
		if entry.Open() {
			openShift = true
		}
		seconds += shiftSeconds(entry.ClockIn, entry.ClockOut, entry.Kind)
	}

	gross := decimal.NewFromInt(seconds).Mul(wage).Div(secondsPerHour).Floor()
	breakdown := apply(gross, rules, policy)

	result := Result{
		Period:          period,
		TotalHours:      float64(seconds) / 3600,
		HourlyWage:      wage,
		GrossPay:        gross,
		IncomeTax:       breakdown.IncomeTax,
		LocalTax:        breakdown.LocalTax,
		OtherDeductions: breakdown.OtherDeductions,
		Deductions:      breakdown.Lines,
		TotalDeductions: breakdown.Total,
		NetPay:          breakdown.Net,
		Warnings:        []string{},
	}
	if openShift {
		result.Warnings = append(result.Warnings, WarningOpenShift)
	}
	result.Warnings = append(result.Warnings, breakdown.Warnings...)
	return result
}

// Annotate derives per-entry hours for history views. Pending and rejected
// entries are kept but marked as not counted.
func Annotate(entries []worklog.Entry, period Period) []EntryView {
	out := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		if !period.Contains(entry.Date) {
			continue
		}
		out = append(out, EntryView{
			Entry:     entry,
			Hours:     ComputeHours(entry.ClockIn, entry.ClockOut, entry.Kind),
			Overnight: entry.Kind == worklog.KindRegular && IsOvernight(entry.ClockIn, entry.ClockOut),
			Counted:   counts(entry, period),
		})
	}
	return out
}
