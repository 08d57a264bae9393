package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"timesheet/internal/domain/auth"
	"timesheet/internal/platform/config"
	"timesheet/internal/platform/querier"
)

// Seed makes sure the configured owner account exists with the super role.
// An existing account with the same email is left untouched.
func Seed(ctx context.Context, q querier.Querier, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedSuperEmail))
	if email == "" || strings.TrimSpace(cfg.SeedSuperPassword) == "" {
		slog.Info("seed skipped: no super user configured")
		return nil
	}
	created, err := ensureSuperUser(ctx, q, cfg.SeedSuperName, email, cfg.SeedSuperPassword)
	if err != nil {
		return err
	}
	if created {
		slog.Info("seeded super user", "email", email)
	}
	return nil
}

func ensureSuperUser(ctx context.Context, q querier.Querier, name, email, password string) (bool, error) {
	var id string
	err := q.QueryRow(ctx, "SELECT id FROM employees WHERE email = $1", email).Scan(&id)
	if err == nil {
		return false, nil
	}
	if !IsNoRows(err) {
		return false, fmt.Errorf("lookup super user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Owner"
	}
	tag, err := q.Exec(ctx, `
    INSERT INTO employees (name, email, password_hash, role)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (email) DO NOTHING
  `, strings.TrimSpace(name), email, hash, auth.RoleSuper)
	if err != nil {
		return false, fmt.Errorf("insert super user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
