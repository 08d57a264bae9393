package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Profile struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       string          `json:"role"`
	HourlyWage decimal.Decimal `json:"hourlyWage"`
	Hidden     bool            `json:"hidden"`
	LastLogin  *time.Time      `json:"lastLogin,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type CreateInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	HourlyWage decimal.Decimal
}

// UpdateInput carries partial changes; nil fields are left alone.
type UpdateInput struct {
	Name       *string
	HourlyWage *decimal.Decimal
	Hidden     *bool
}
