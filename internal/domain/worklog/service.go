package worklog

import (
	"context"
	"errors"
	"strings"
	"time"

	"timesheet/internal/domain/auth"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// ClockIn opens today's shift for the actor at now.
func (s *Service) ClockIn(ctx context.Context, actor auth.UserContext, now time.Time) (Entry, error) {
	date := DateOf(now)
	if _, err := s.store.FindByDate(ctx, actor.EmployeeID, date); err == nil {
		return Entry{}, ErrAlreadyClockedIn
	} else if !errors.Is(err, ErrNotFound) {
		return Entry{}, err
	}

	clock := ClockOf(now)
	return s.store.Create(ctx, Entry{
		EmployeeID: actor.EmployeeID,
		Date:       date,
		ClockIn:    &clock,
		Kind:       KindRegular,
		State:      StatePending,
	})
}

// ClockOut closes the actor's open shift. A shift left open yesterday is
// closed too, which is how overnight shifts end.
func (s *Service) ClockOut(ctx context.Context, actor auth.UserContext, now time.Time) (Entry, error) {
	today := DateOf(now)
	for _, date := range []time.Time{today, today.AddDate(0, 0, -1)} {
		entry, err := s.store.FindByDate(ctx, actor.EmployeeID, date)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Entry{}, err
		}
		if !entry.Open() {
			continue
		}
		clock := ClockOf(now)
		entry.ClockOut = &clock
		entry.State = StatePending
		entry.RejectionReason = ""
		return s.store.Update(ctx, entry)
	}
	return Entry{}, ErrNoOpenEntry
}

// Create records an entry. Employees may only create pending entries for
// themselves; admins may create for anyone and directly approve.
func (s *Service) Create(ctx context.Context, actor auth.UserContext, in Input) (Entry, error) {
	if !actor.IsAdmin() {
		if in.EmployeeID != "" && in.EmployeeID != actor.EmployeeID {
			return Entry{}, ErrForbidden
		}
		if in.Approved {
			return Entry{}, ErrForbidden
		}
		in.EmployeeID = actor.EmployeeID
	}
	if in.EmployeeID == "" {
		in.EmployeeID = actor.EmployeeID
	}

	entry, err := buildEntry(in)
	if err != nil {
		return Entry{}, err
	}
	entry.EmployeeID = in.EmployeeID
	entry.State = StatePending
	if in.Approved {
		entry.State = StateApproved
	}
	return s.store.Create(ctx, entry)
}

func (s *Service) RequestDayOff(ctx context.Context, actor auth.UserContext, employeeID string, date time.Time, reason string) (Entry, error) {
	return s.Create(ctx, actor, Input{
		EmployeeID:   employeeID,
		Date:         date,
		Kind:         KindDayOff,
		DayOffReason: reason,
	})
}

// Update rewrites an entry. An edit by the owning employee sends the entry
// back to pending.
func (s *Service) Update(ctx context.Context, actor auth.UserContext, id string, in Input) (Entry, error) {
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return Entry{}, err
	}
	if in.Approved && !actor.IsAdmin() {
		return Entry{}, ErrForbidden
	}

	next, err := buildEntry(in)
	if err != nil {
		return Entry{}, err
	}
	next.ID = current.ID
	next.EmployeeID = current.EmployeeID
	next.State = current.State
	next.RejectionReason = current.RejectionReason

	switch {
	case !actor.IsAdmin():
		next.State = StatePending
		next.RejectionReason = ""
	case in.Approved:
		next.State = StateApproved
		next.RejectionReason = ""
	}
	return s.store.Update(ctx, next)
}

func (s *Service) Approve(ctx context.Context, actor auth.UserContext, id string) (Entry, error) {
	return s.decide(ctx, actor, id, StateApproved, "")
}

func (s *Service) Reject(ctx context.Context, actor auth.UserContext, id, reason string) (Entry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Entry{}, ErrReasonRequired
	}
	return s.decide(ctx, actor, id, StateRejected, reason)
}

func (s *Service) decide(ctx context.Context, actor auth.UserContext, id string, state State, reason string) (Entry, error) {
	if !actor.IsAdmin() {
		return Entry{}, ErrForbidden
	}
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if entry.State != StatePending {
		return Entry{}, ErrNotPending
	}
	entry.State = state
	entry.RejectionReason = reason
	return s.store.Update(ctx, entry)
}

func (s *Service) Delete(ctx context.Context, actor auth.UserContext, id string) (Entry, error) {
	entry, err := s.Get(ctx, actor, id)
	if err != nil {
		return Entry{}, err
	}
	if entry.State != StatePending {
		return Entry{}, ErrNotPending
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *Service) Get(ctx context.Context, actor auth.UserContext, id string) (Entry, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if !actor.IsAdmin() && entry.EmployeeID != actor.EmployeeID {
		return Entry{}, ErrForbidden
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context, actor auth.UserContext, filter Filter) ([]Entry, int, error) {
	if !actor.IsAdmin() {
		filter.EmployeeID = actor.EmployeeID
	}
	return s.store.List(ctx, filter)
}

// ListRange returns every entry of one employee between from and to, without paging.
func (s *Service) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]Entry, error) {
	entries, _, err := s.store.List(ctx, Filter{EmployeeID: employeeID, From: from, To: to})
	return entries, err
}

func buildEntry(in Input) (Entry, error) {
	if in.Date.IsZero() {
		return Entry{}, ErrDateRequired
	}
	kind := in.Kind
	if kind == "" {
		kind = KindRegular
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return Entry{}, err
	}

	clockIn, err := normalizeClockPtr(in.ClockIn)
	if err != nil {
		return Entry{}, err
	}
	clockOut, err := normalizeClockPtr(in.ClockOut)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{Date: DateOf(in.Date), Kind: kind}
	switch kind {
	case KindDayOff:
		if clockIn != nil || clockOut != nil {
			return Entry{}, ErrDayOffClock
		}
		entry.DayOffReason = strings.TrimSpace(in.DayOffReason)
	case KindRegular:
		if clockIn == nil {
			return Entry{}, ErrClockRequired
		}
		entry.ClockIn = clockIn
		entry.ClockOut = clockOut
	}
	return entry, nil
}
