package deduction

import "errors"

var (
	ErrNotFound        = errors.New("deduction rule not found")
	ErrInvalidKind     = errors.New("kind must be fixed or percentage")
	ErrNameRequired    = errors.New("name is required")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrPercentageRange = errors.New("percentage must be between 0 and 100")
	ErrEmployeeMissing = errors.New("employee id is required")
	ErrUnknownEmployee = errors.New("employee not found")
)
