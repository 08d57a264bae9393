package employee

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

const profileColumns = "id, name, email, role, hourly_wage, hidden, last_login, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.HourlyWage, &p.Hidden, &p.LastLogin, &p.CreatedAt)
	return p, err
}

func (s *Store) List(ctx context.Context, includeHidden bool) ([]Profile, error) {
	query := "SELECT " + profileColumns + " FROM employees"
	if !includeHidden {
		query += " WHERE NOT hidden"
	}
	rows, err := s.DB.Query(ctx, query+" ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, profile)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Profile{}, ErrNotFound
	}
	profile, err := scanProfile(s.DB.QueryRow(ctx, "SELECT "+profileColumns+" FROM employees WHERE id = $1", id))
	if db.IsNoRows(err) {
		return Profile{}, ErrNotFound
	}
	return profile, err
}

func (s *Store) Create(ctx context.Context, profile Profile, passwordHash string) (Profile, error) {
	created, err := scanProfile(s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, email, password_hash, role, hourly_wage)
    VALUES ($1, lower($2), $3, $4, $5)
    RETURNING `+profileColumns,
		profile.Name, profile.Email, passwordHash, profile.Role, profile.HourlyWage))
	if db.IsUniqueViolation(err) {
		return Profile{}, ErrEmailTaken
	}
	return created, err
}

func (s *Store) Update(ctx context.Context, profile Profile) (Profile, error) {
	updated, err := scanProfile(s.DB.QueryRow(ctx, `
    UPDATE employees SET name = $2, hourly_wage = $3, hidden = $4
    WHERE id = $1
    RETURNING `+profileColumns,
		profile.ID, profile.Name, profile.HourlyWage, profile.Hidden))
	if db.IsNoRows(err) {
		return Profile{}, ErrNotFound
	}
	return updated, err
}

func (s *Store) SetRole(ctx context.Context, id, role string) (Profile, error) {
	updated, err := scanProfile(s.DB.QueryRow(ctx,
		"UPDATE employees SET role = $2 WHERE id = $1 RETURNING "+profileColumns, id, role))
	if db.IsNoRows(err) {
		return Profile{}, ErrNotFound
	}
	return updated, err
}
