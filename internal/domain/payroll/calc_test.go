package payroll

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"timesheet/internal/domain/deduction"
	"timesheet/internal/domain/worklog"
)

func str(v string) *string { return &v }

func wantAmount(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("expected %s %d, got %s", name, want, got)
	}
}

var march = MonthPeriod(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

func shift(day int, in, out string, state worklog.State) worklog.Entry {
	return worklog.Entry{
		EmployeeID: "e1",
		Date:       time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
		ClockIn:    str(in),
		ClockOut:   str(out),
		Kind:       worklog.KindRegular,
		State:      state,
	}
}

func TestComputeHours(t *testing.T) {
	cases := []struct {
		name string
		in   *string
		out  *string
		kind worklog.Kind
		want float64
	}{
		{"regular day", str("09:00"), str("18:00"), worklog.KindRegular, 9},
		{"overnight", str("22:00"), str("06:00"), worklog.KindRegular, 8},
		{"equal times span a full day", str("09:00"), str("09:00"), worklog.KindRegular, 24},
		{"day off ignores clocks", str("09:00"), str("18:00"), worklog.KindDayOff, 0},
		{"day off without clocks", nil, nil, worklog.KindDayOff, 0},
		{"missing clock out", str("09:00"), nil, worklog.KindRegular, 0},
		{"missing clock in", nil, str("18:00"), worklog.KindRegular, 0},
		{"unparseable", str("nine"), str("18:00"), worklog.KindRegular, 0},
		{"seconds suffix", str("09:00:00"), str("18:00:00"), worklog.KindRegular, 9},
		{"mixed precision", str("09:00"), str("09:30:00"), worklog.KindRegular, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeHours(tc.in, tc.out, tc.kind); got != tc.want {
				t.Fatalf("expected %v hours, got %v", tc.want, got)
			}
		})
	}
}

func TestIsOvernight(t *testing.T) {
	if !IsOvernight(str("22:00"), str("06:00")) {
		t.Fatal("22:00 to 06:00 should be overnight")
	}
	if !IsOvernight(str("09:00"), str("09:00:00")) {
		t.Fatal("equal times should be overnight")
	}
	if IsOvernight(str("09:00"), str("18:00")) {
		t.Fatal("09:00 to 18:00 should not be overnight")
	}
	if IsOvernight(nil, str("06:00")) {
		t.Fatal("missing clock in should not be overnight")
	}
}

func TestComputePayrollStatutoryOnly(t *testing.T) {
	entries := []worklog.Entry{shift(3, "09:00", "17:00", worklog.StateApproved)}
	result := ComputePayroll(entries, decimal.NewFromInt(10000), nil, march, PolicyPreserve)

	if result.TotalHours != 8 {
		t.Fatalf("expected 8 hours, got %v", result.TotalHours)
	}
	wantAmount(t, "gross", result.GrossPay, 80000)
	wantAmount(t, "income tax", result.IncomeTax, 2400)
	wantAmount(t, "local tax", result.LocalTax, 240)
	wantAmount(t, "total deductions", result.TotalDeductions, 2640)
	wantAmount(t, "net", result.NetPay, 77360)
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}
}

func TestComputePayrollFixedRule(t *testing.T) {
	entries := []worklog.Entry{shift(3, "09:00", "17:00", worklog.StateApproved)}
	rules := []deduction.Rule{{Name: "Meal", Kind: deduction.KindFixed, Amount: decimal.NewFromInt(5000), Active: true}}
	result := ComputePayroll(entries, decimal.NewFromInt(10000), rules, march, PolicyPreserve)

	wantAmount(t, "other deductions", result.OtherDeductions, 5000)
	wantAmount(t, "total deductions", result.TotalDeductions, 7640)
	wantAmount(t, "net", result.NetPay, 72360)
	if len(result.Deductions) != 3 {
		t.Fatalf("expected 3 deduction lines, got %d", len(result.Deductions))
	}
}

func TestComputePayrollPercentageRule(t *testing.T) {
	entries := []worklog.Entry{shift(3, "09:00", "17:00", worklog.StateApproved)}
	rules := []deduction.Rule{{Name: "Pension", Kind: deduction.KindPercentage, Amount: decimal.NewFromInt(10), Active: true}}
	result := ComputePayroll(entries, decimal.NewFromInt(10000), rules, march, PolicyPreserve)

	wantAmount(t, "other deductions", result.OtherDeductions, 8000)
	wantAmount(t, "total deductions", result.TotalDeductions, 10640)
	wantAmount(t, "net", result.NetPay, 69360)
}

func TestInactiveRulesContributeNothing(t *testing.T) {
	entries := []worklog.Entry{shift(3, "09:00", "17:00", worklog.StateApproved)}
	rules := []deduction.Rule{
		{Name: "Meal", Kind: deduction.KindFixed, Amount: decimal.NewFromInt(5000)},
		{Name: "Pension", Kind: deduction.KindPercentage, Amount: decimal.NewFromInt(50)},
	}
	result := ComputePayroll(entries, decimal.NewFromInt(10000), rules, march, PolicyPreserve)

	wantAmount(t, "other deductions", result.OtherDeductions, 0)
	wantAmount(t, "net", result.NetPay, 77360)
}

func TestComputePayrollIsDeterministic(t *testing.T) {
	entries := []worklog.Entry{
		shift(3, "09:00", "17:00", worklog.StateApproved),
		shift(4, "22:00", "06:00", worklog.StateApproved),
	}
	rules := []deduction.Rule{{Name: "Pension", Kind: deduction.KindPercentage, Amount: decimal.RequireFromString("4.5"), Active: true}}
	wage := decimal.NewFromInt(9860)

	first := ComputePayroll(entries, wage, rules, march, PolicyPreserve)
	second := ComputePayroll(entries, wage, rules, march, PolicyPreserve)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestAggregationCountsApprovedOnly(t *testing.T) {
	entries := []worklog.Entry{
		shift(3, "09:00", "17:00", worklog.StateApproved),
		shift(4, "09:00", "17:00", worklog.StatePending),
		shift(5, "09:00", "17:00", worklog.StateRejected),
	}
	result := ComputePayroll(entries, decimal.NewFromInt(10000), nil, march, PolicyPreserve)
	if result.TotalHours != 8 {
		t.Fatalf("expected 8 hours, got %v", result.TotalHours)
	}
	wantAmount(t, "gross", result.GrossPay, 80000)
}

func TestAggregationIgnoresOtherMonths(t *testing.T) {
	outside := shift(3, "09:00", "17:00", worklog.StateApproved)
	outside.Date = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	entries := []worklog.Entry{shift(31, "09:00", "17:00", worklog.StateApproved), outside}

	result := ComputePayroll(entries, decimal.NewFromInt(10000), nil, march, PolicyPreserve)
	if result.TotalHours != 8 {
		t.Fatalf("expected 8 hours, got %v", result.TotalHours)
	}
}

func TestLineItemsAreFloored(t *testing.T) {
	// 7.5h at 9,999 is 74,992.5 gross.
	entries := []worklog.Entry{shift(3, "09:00", "16:30", worklog.StateApproved)}
	rules := []deduction.Rule{{Name: "Union", Kind: deduction.KindPercentage, Amount: decimal.RequireFromString("1.5"), Active: true}}
	result := ComputePayroll(entries, decimal.NewFromInt(9999), rules, march, PolicyPreserve)

	wantAmount(t, "gross", result.GrossPay, 74992)
	wantAmount(t, "income tax", result.IncomeTax, 2249)
	wantAmount(t, "local tax", result.LocalTax, 224)
	wantAmount(t, "other deductions", result.OtherDeductions, 1124)
	wantAmount(t, "net", result.NetPay, 74992-2249-224-1124)
}

func TestComputeDayAmortizesFixedRules(t *testing.T) {
	entries := []worklog.Entry{shift(3, "09:00", "17:00", worklog.StateApproved)}
	rules := []deduction.Rule{
		{Name: "Meal", Kind: deduction.KindFixed, Amount: decimal.NewFromInt(5000), Active: true},
		{Name: "Pension", Kind: deduction.KindPercentage, Amount: decimal.NewFromInt(10), Active: true},
	}
	day := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)
	result := ComputeDay(entries, day, decimal.NewFromInt(10000), rules, PolicyPreserve)

	wantAmount(t, "gross", result.GrossPay, 80000)
	wantAmount(t, "other deductions", result.OtherDeductions, 166+8000)
	wantAmount(t, "net", result.NetPay, 80000-2400-240-166-8000)
	if result.Period.Label != "2025-03-03" {
		t.Fatalf("expected day label, got %q", result.Period.Label)
	}

	other := ComputeDay(entries, day.AddDate(0, 0, 1), decimal.NewFromInt(10000), rules, PolicyPreserve)
	wantAmount(t, "gross on another day", other.GrossPay, 0)
}

func TestNegativeNetPolicies(t *testing.T) {
	entries := []worklog.Entry{shift(3, "09:00", "10:00", worklog.StateApproved)}
	rules := []deduction.Rule{{Name: "Loan", Kind: deduction.KindFixed, Amount: decimal.NewFromInt(5000), Active: true}}

	preserved := ComputePayroll(entries, decimal.NewFromInt(1000), rules, march, PolicyPreserve)
	wantAmount(t, "preserved net", preserved.NetPay, 1000-30-3-5000)
	if len(preserved.Warnings) != 1 || preserved.Warnings[0] != WarningNegativeNet {
		t.Fatalf("expected negative_net warning, got %v", preserved.Warnings)
	}

	clamped := ComputePayroll(entries, decimal.NewFromInt(1000), rules, march, PolicyClamp)
	wantAmount(t, "clamped net", clamped.NetPay, 0)
	wantAmount(t, "clamped total deductions", clamped.TotalDeductions, 5033)
	if len(clamped.Warnings) != 1 || clamped.Warnings[0] != WarningNegativeNet {
		t.Fatalf("expected negative_net warning, got %v", clamped.Warnings)
	}
}

func TestOpenShiftWarning(t *testing.T) {
	open := shift(3, "09:00", "", worklog.StateApproved)
	open.ClockOut = nil
	result := ComputePayroll([]worklog.Entry{open}, decimal.NewFromInt(10000), nil, march, PolicyPreserve)
	if result.TotalHours != 0 {
		t.Fatalf("expected 0 hours, got %v", result.TotalHours)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != WarningOpenShift {
		t.Fatalf("expected open_shift warning, got %v", result.Warnings)
	}
}

func TestParseNegativeNetPolicy(t *testing.T) {
	if p, err := ParseNegativeNetPolicy(""); err != nil || p != PolicyPreserve {
		t.Fatalf("expected preserve default, got %q %v", p, err)
	}
	if p, err := ParseNegativeNetPolicy("CLAMP"); err != nil || p != PolicyClamp {
		t.Fatalf("expected clamp, got %q %v", p, err)
	}
	if _, err := ParseNegativeNetPolicy("zero"); err != ErrInvalidPolicy {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}
}
