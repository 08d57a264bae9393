package worklog

import (
	"strings"
	"time"
)

// Kind tags an entry as a worked shift or an absence.
type Kind string

const (
	KindRegular Kind = "regular"
	KindDayOff  Kind = "day_off"
)

func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindRegular, "":
		return KindRegular, nil
	case KindDayOff:
		return KindDayOff, nil
	}
	return "", ErrInvalidKind
}

type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateRejected State = "rejected"
)

func ParseState(value string) (State, error) {
	switch State(strings.ToLower(strings.TrimSpace(value))) {
	case StatePending:
		return StatePending, nil
	case StateApproved:
		return StateApproved, nil
	case StateRejected:
		return StateRejected, nil
	}
	return "", ErrInvalidState
}

// Entry is one attendance record for one employee on one calendar date.
// Clock times are time-of-day strings ("HH:MM:SS") without a date.
type Entry struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employeeId"`
	EmployeeName    string    `json:"employeeName,omitempty"`
	Date            time.Time `json:"date"`
	ClockIn         *string   `json:"clockIn,omitempty"`
	ClockOut        *string   `json:"clockOut,omitempty"`
	Kind            Kind      `json:"kind"`
	State           State     `json:"state"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	DayOffReason    string    `json:"dayOffReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Open reports whether the entry is a shift that has started but not ended.
func (e Entry) Open() bool {
	return e.Kind == KindRegular && e.ClockIn != nil && e.ClockOut == nil
}

type Filter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
	State      State
	Limit      int
	Offset     int
}

// Input is the writable part of an entry, used for create and update.
type Input struct {
	EmployeeID   string
	Date         time.Time
	ClockIn      *string
	ClockOut     *string
	Kind         Kind
	DayOffReason string
	Approved     bool
}
