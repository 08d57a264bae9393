package payroll

import (
	"strings"

	"github.com/shopspring/decimal"

	"timesheet/internal/domain/deduction"
)

// NegativeNetPolicy decides what happens when deductions exceed gross pay.
type NegativeNetPolicy string

const (
	PolicyPreserve NegativeNetPolicy = "preserve"
	PolicyClamp    NegativeNetPolicy = "clamp"
)

func ParseNegativeNetPolicy(value string) (NegativeNetPolicy, error) {
	switch NegativeNetPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case PolicyPreserve, "":
		return PolicyPreserve, nil
	case PolicyClamp:
		return PolicyClamp, nil
	}
	return "", ErrInvalidPolicy
}

type DeductionLine struct {
	Name   string          `json:"name"`
	Kind   string          `json:"kind"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown is the outcome of the deduction pipeline for one gross amount.
type Breakdown struct {
	IncomeTax       decimal.Decimal
	LocalTax        decimal.Decimal
	OtherDeductions decimal.Decimal
	Lines           []DeductionLine
	Total           decimal.Decimal
	Net             decimal.Decimal
	Warnings        []string
}

// ApplyDeductions runs the monthly pipeline: statutory taxes plus every
// active rule. Each line is floored to the whole currency unit.
func ApplyDeductions(gross decimal.Decimal, rules []deduction.Rule, policy NegativeNetPolicy) Breakdown {
	return applyDeductions(gross, rules, policy, 1)
}

// ApplyDailyDeductions is the single-day variant: fixed rules are monthly
// amounts spread over DaysPerMonth days.
func ApplyDailyDeductions(gross decimal.Decimal, rules []deduction.Rule, policy NegativeNetPolicy) Breakdown {
	return applyDeductions(gross, rules, policy, DaysPerMonth)
}

func applyDeductions(gross decimal.Decimal, rules []deduction.Rule, policy NegativeNetPolicy, fixedDivisor int64) Breakdown {
	out := Breakdown{
		IncomeTax:       gross.Mul(IncomeTaxRate).Floor(),
		LocalTax:        gross.Mul(LocalTaxRate).Floor(),
		OtherDeductions: decimal.Zero,
	}
	out.Lines = append(out.Lines,
		DeductionLine{Name: "Income tax", Kind: LineIncomeTax, Rate: IncomeTaxRate.Mul(hundred), Amount: out.IncomeTax},
		DeductionLine{Name: "Local tax", Kind: LineLocalTax, Rate: LocalTaxRate.Mul(hundred), Amount: out.LocalTax},
	)

	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		line := DeductionLine{Name: rule.Name}
		switch rule.Kind {
		case deduction.KindFixed:
			line.Kind = LineFixed
			line.Amount = rule.Amount.Div(decimal.NewFromInt(fixedDivisor)).Floor()
		case deduction.KindPercentage:
			line.Kind = LinePercentage
			line.Rate = rule.Amount
			line.Amount = gross.Mul(rule.Amount).Div(hundred).Floor()
		default:
			continue
		}
		out.OtherDeductions = out.OtherDeductions.Add(line.Amount)
		out.Lines = append(out.Lines, line)
	}

	out.Total = out.IncomeTax.Add(out.LocalTax).Add(out.OtherDeductions)
	out.Net = gross.Sub(out.Total)
	if out.Net.IsNegative() {
		out.Warnings = append(out.Warnings, WarningNegativeNet)
		if policy == PolicyClamp {
			out.Net = decimal.Zero
		}
	}
	return out
}
