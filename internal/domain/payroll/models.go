package payroll

import (
	"github.com/shopspring/decimal"

	"timesheet/internal/domain/employee"
	"timesheet/internal/domain/worklog"
)

// Result is the derived pay of one employee over one period. It is never stored.
type Result struct {
	Period          Period          `json:"period"`
	TotalHours      float64         `json:"totalHours"`
	HourlyWage      decimal.Decimal `json:"hourlyWage"`
	GrossPay        decimal.Decimal `json:"grossPay"`
	IncomeTax       decimal.Decimal `json:"incomeTax"`
	LocalTax        decimal.Decimal `json:"localTax"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
	Deductions      []DeductionLine `json:"deductions"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetPay          decimal.Decimal `json:"netPay"`
	Warnings        []string        `json:"warnings"`
}

// EntryView annotates a work log with its derived hours for display.
type EntryView struct {
	worklog.Entry
	Hours     float64 `json:"hours"`
	Overnight bool    `json:"overnight"`
	Counted   bool    `json:"counted"`
}

type EmployeeRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func refOf(p employee.Profile) EmployeeRef {
	return EmployeeRef{ID: p.ID, Name: p.Name, Email: p.Email}
}

type Summary struct {
	Employee EmployeeRef `json:"employee"`
	Result   Result      `json:"result"`
	Entries  []EntryView `json:"entries"`
}

type DayDetail struct {
	Employee EmployeeRef `json:"employee"`
	Result   Result      `json:"result"`
	Entry    *EntryView  `json:"entry,omitempty"`
}

// RegisterRow is one line of the monthly payroll register.
type RegisterRow struct {
	Employee EmployeeRef
	Result   Result
}
