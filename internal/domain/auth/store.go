package auth

import (
	"context"

	"timesheet/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type AuthUser struct {
	ID       string
	Name     string
	Email    string
	Role     string
	Password string
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, role, password_hash
    FROM employees
    WHERE lower(email) = lower($1)
  `, email).Scan(&out.ID, &out.Name, &out.Email, &out.Role, &out.Password)
	return out, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, employeeID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE employees SET last_login = now() WHERE id = $1", employeeID)
	return err
}
