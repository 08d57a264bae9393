package payroll

import "errors"

var (
	ErrInvalidPolicy = errors.New("negative net policy must be preserve or clamp")
	ErrInvalidMonth  = errors.New("month must be YYYY-MM")
	ErrForbidden     = errors.New("forbidden")
)
