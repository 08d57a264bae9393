package payroll

import "github.com/shopspring/decimal"

const (
	WarningNegativeNet = "negative_net"
	WarningOpenShift   = "open_shift"

	LineIncomeTax  = "income_tax"
	LineLocalTax   = "local_tax"
	LineFixed      = "fixed"
	LinePercentage = "percentage"

	// DaysPerMonth amortizes a monthly fixed deduction onto a single day.
	DaysPerMonth = 30
)

var (
	IncomeTaxRate = decimal.RequireFromString("0.03")
	LocalTaxRate  = decimal.RequireFromString("0.003")

	secondsPerHour = decimal.NewFromInt(3600)
	hundred        = decimal.NewFromInt(100)
)
