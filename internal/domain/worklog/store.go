package worklog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"timesheet/internal/platform/db"
	"timesheet/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(q querier.Querier) *Store {
	return &Store{DB: q}
}

const selectEntry = `
    SELECT w.id, w.employee_id, e.name, w.work_date,
           to_char(w.clock_in, 'HH24:MI:SS'), to_char(w.clock_out, 'HH24:MI:SS'),
           w.work_kind, w.state, w.rejection_reason, w.day_off_reason, w.created_at, w.updated_at
    FROM work_logs w
    JOIN employees e ON e.id = w.employee_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var kind, state string
	if err := row.Scan(&e.ID, &e.EmployeeID, &e.EmployeeName, &e.Date, &e.ClockIn, &e.ClockOut,
		&kind, &state, &e.RejectionReason, &e.DayOffReason, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Entry{}, err
	}
	e.Kind = Kind(kind)
	e.State = State(state)
	return e, nil
}

func (s *Store) Create(ctx context.Context, entry Entry) (Entry, error) {
	if _, err := uuid.Parse(entry.EmployeeID); err != nil {
		return Entry{}, ErrUnknownEmployee
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO work_logs (employee_id, work_date, clock_in, clock_out, work_kind, state, day_off_reason)
    VALUES ($1, $2, $3::text::time, $4::text::time, $5, $6, $7)
    RETURNING id
  `, entry.EmployeeID, entry.Date, entry.ClockIn, entry.ClockOut, string(entry.Kind), string(entry.State), entry.DayOffReason).Scan(&id)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return Entry{}, ErrDuplicateEntry
		case db.IsForeignKeyViolation(err):
			return Entry{}, ErrUnknownEmployee
		}
		return Entry{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Entry{}, ErrNotFound
	}
	entry, err := scanEntry(s.DB.QueryRow(ctx, selectEntry+" WHERE w.id = $1", id))
	if db.IsNoRows(err) {
		return Entry{}, ErrNotFound
	}
	return entry, err
}

func (s *Store) FindByDate(ctx context.Context, employeeID string, date time.Time) (Entry, error) {
	entry, err := scanEntry(s.DB.QueryRow(ctx, selectEntry+" WHERE w.employee_id = $1 AND w.work_date = $2", employeeID, date))
	if db.IsNoRows(err) {
		return Entry{}, ErrNotFound
	}
	return entry, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Entry, int, error) {
	where := " WHERE 1=1"
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		where += fmt.Sprintf(" AND w.employee_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where += fmt.Sprintf(" AND w.work_date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where += fmt.Sprintf(" AND w.work_date <= $%d", len(args))
	}
	if filter.State != "" {
		args = append(args, string(filter.State))
		where += fmt.Sprintf(" AND w.state = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM work_logs w"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := selectEntry + where + " ORDER BY w.work_date DESC, e.name"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

func (s *Store) Update(ctx context.Context, entry Entry) (Entry, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE work_logs
    SET work_date = $2, clock_in = $3::text::time, clock_out = $4::text::time, work_kind = $5,
        state = $6, rejection_reason = $7, day_off_reason = $8, updated_at = now()
    WHERE id = $1
  `, entry.ID, entry.Date, entry.ClockIn, entry.ClockOut, string(entry.Kind), string(entry.State), entry.RejectionReason, entry.DayOffReason)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Entry{}, ErrDuplicateEntry
		}
		return Entry{}, err
	}
	if tag.RowsAffected() == 0 {
		return Entry{}, ErrNotFound
	}
	return s.Get(ctx, entry.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM work_logs WHERE id = $1 AND state = $2", id, string(StatePending))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotPending
	}
	return nil
}
