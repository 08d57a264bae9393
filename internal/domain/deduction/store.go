package deduction

import (
	"context"

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

const selectRule = `
    SELECT id, employee_id, name, amount, kind, active, created_at, updated_at
    FROM deduction_rules
`

type scanner interface {
	Scan(dest ...any) error
}

func scanRule(row scanner) (Rule, error) {
	var r Rule
	var kind string
	if err := row.Scan(&r.ID, &r.EmployeeID, &r.Name, &r.Amount, &kind, &r.Active, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return Rule{}, err
	}
	r.Kind = Kind(kind)
	return r, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Rule, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]Rule, error) {
	query := selectRule + " WHERE employee_id = $1"
	if activeOnly {
		query += " AND active"
	}
	return s.list(ctx, query+" ORDER BY created_at", employeeID)
}

func (s *Store) ListActiveAll(ctx context.Context) ([]Rule, error) {
	return s.list(ctx, selectRule+" WHERE active ORDER BY employee_id, created_at")
}

func (s *Store) Get(ctx context.Context, id string) (Rule, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Rule{}, ErrNotFound
	}
	rule, err := scanRule(s.DB.QueryRow(ctx, selectRule+" WHERE id = $1", id))
	if db.IsNoRows(err) {
		return Rule{}, ErrNotFound
	}
	return rule, err
}

func (s *Store) Create(ctx context.Context, rule Rule) (Rule, error) {
	if _, err := uuid.Parse(rule.EmployeeID); err != nil {
		return Rule{}, ErrUnknownEmployee
	}
	created, err := scanRule(s.DB.QueryRow(ctx, `
    INSERT INTO deduction_rules (employee_id, name, amount, kind, active)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, employee_id, name, amount, kind, active, created_at, updated_at
  `, rule.EmployeeID, rule.Name, rule.Amount, string(rule.Kind), rule.Active))
	if db.IsForeignKeyViolation(err) {
		return Rule{}, ErrUnknownEmployee
	}
	return created, err
}

func (s *Store) Update(ctx context.Context, rule Rule) (Rule, error) {
	updated, err := scanRule(s.DB.QueryRow(ctx, `
    UPDATE deduction_rules
    SET name = $2, amount = $3, kind = $4, active = $5, updated_at = now()
    WHERE id = $1
    RETURNING id, employee_id, name, amount, kind, active, created_at, updated_at
  `, rule.ID, rule.Name, rule.Amount, string(rule.Kind), rule.Active))
	if db.IsNoRows(err) {
		return Rule{}, ErrNotFound
	}
	return updated, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM deduction_rules WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
