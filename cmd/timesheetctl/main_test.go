package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"timesheet/internal/domain/payroll"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHoursCommand(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"hours", "09:00", "18:00"}, "9.00\n"},
		{[]string{"hours", "22:00", "06:00"}, "8.00 (overnight)\n"},
		{[]string{"hours", "09:00", "09:00"}, "24.00 (overnight)\n"},
		{[]string{"hours", "09:00", "18:00", "--day-off"}, "0.00\n"},
	}
	for _, tc := range cases {
		got, err := run(t, tc.args...)
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		if got != tc.want {
			t.Fatalf("%v: want %q, got %q", tc.args, tc.want, got)
		}
	}
}

func TestHoursCommandRejectsBadClock(t *testing.T) {
	if _, err := run(t, "hours", "9am", "18:00"); err == nil {
		t.Fatal("expected error for bad clock")
	}
	if _, err := run(t, "hours", "09:00"); err == nil {
		t.Fatal("expected error for missing argument")
	}
}

func TestPayrollCommandNeedsEmployee(t *testing.T) {
	if _, err := run(t, "payroll", "--month", "2024-03"); err == nil || !strings.Contains(err.Error(), "--employee") {
		t.Fatalf("expected --employee error, got %v", err)
	}
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	summary := payroll.Summary{
		Employee: payroll.EmployeeRef{Name: "Kim", Email: "kim@example.com"},
		Result: payroll.Result{
			Period:     payroll.Period{Label: "2024-03"},
			TotalHours: 9,
			GrossPay:   decimal.NewFromInt(90000),
			NetPay:     decimal.NewFromInt(87030),
			Deductions: []payroll.DeductionLine{{Name: "Income tax", Amount: decimal.NewFromInt(2700)}},
			Warnings:   []string{payroll.WarningOpenShift},
		},
	}
	if err := printSummary(cmd, summary, "KRW"); err != nil {
		t.Fatalf("print: %v", err)
	}
	for _, want := range []string{"Kim <kim@example.com>", "90000 KRW", "-2700", "87030 KRW", "open_shift"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}
