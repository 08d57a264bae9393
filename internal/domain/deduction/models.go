package deduction

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind says how Amount is read: a flat monthly amount or a share of gross pay.
type Kind string

const (
	KindFixed      Kind = "fixed"
	KindPercentage Kind = "percentage"
)

func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindFixed:
		return KindFixed, nil
	case KindPercentage:
		return KindPercentage, nil
	}
	return "", ErrInvalidKind
}

var hundred = decimal.NewFromInt(100)

type Rule struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       Kind            `json:"kind"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Validate checks the rule's name, kind and amount range.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if _, err := ParseKind(string(r.Kind)); err != nil {
		return err
	}
	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if r.Kind == KindPercentage && r.Amount.GreaterThan(hundred) {
		return ErrPercentageRange
	}
	return nil
}

// Active filters rules down to the ones currently applied.
func Active(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Active {
			out = append(out, rule)
		}
	}
	return out
}

type Input struct {
	EmployeeID string
	Name       string
	Amount     decimal.Decimal
	Kind       Kind
	Active     bool
}
