package worklog

import "errors"

var (
	ErrNotFound         = errors.New("work log not found")
	ErrDuplicateEntry   = errors.New("a work log already exists for this date")
	ErrNotPending       = errors.New("work log is no longer pending")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidKind      = errors.New("work kind must be regular or day_off")
	ErrInvalidState     = errors.New("state must be pending, approved or rejected")
	ErrInvalidClock     = errors.New("clock time must be HH:MM or HH:MM:SS")
	ErrClockRequired    = errors.New("regular entries need a clock-in time")
	ErrDayOffClock      = errors.New("day-off entries cannot carry clock times")
	ErrReasonRequired   = errors.New("a reason is required")
	ErrDateRequired     = errors.New("date is required")
	ErrAlreadyClockedIn = errors.New("already clocked in today")
	ErrNoOpenEntry      = errors.New("no open shift to clock out of")
	ErrUnknownEmployee  = errors.New("employee not found")
)
