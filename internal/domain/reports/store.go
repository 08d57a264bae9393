package reports

import (
	"context"
	"time"

	"timesheet/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) VisibleEmployees(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE NOT hidden").Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) EntriesByState(ctx context.Context, from, to time.Time) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT w.state, COUNT(1)
    FROM work_logs w
    JOIN employees e ON e.id = w.employee_id
    WHERE w.work_date BETWEEN $1 AND $2 AND NOT e.hidden
    GROUP BY w.state
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		out[state] = count
	}
	return out, rows.Err()
}

func (s *Store) ClockedIn(ctx context.Context, date time.Time) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM work_logs w
    JOIN employees e ON e.id = w.employee_id
    WHERE w.work_date = $1 AND w.work_kind = 'regular' AND w.clock_in IS NOT NULL AND NOT e.hidden
  `, date).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) DaysOff(ctx context.Context, from, to time.Time) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM work_logs w
    JOIN employees e ON e.id = w.employee_id
    WHERE w.work_date BETWEEN $1 AND $2 AND w.work_kind = 'day_off' AND NOT e.hidden
  `, from, to).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
