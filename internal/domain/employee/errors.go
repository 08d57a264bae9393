package employee

import "errors"

var (
	ErrNotFound         = errors.New("employee not found")
	ErrEmailTaken       = errors.New("email is already registered")
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrNegativeWage     = errors.New("hourly wage must not be negative")
	ErrForbidden        = errors.New("forbidden")
	ErrSelfRoleChange   = errors.New("you cannot change your own role")
)
