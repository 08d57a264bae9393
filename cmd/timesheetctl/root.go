package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"timesheet/internal/platform/config"
	"timesheet/internal/platform/db"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "timesheetctl",
		Short:         "Operate the timesheet and payroll service",
		SilenceUsage:  true,
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newHoursCmd(), newPayrollCmd())
	return root
}

// connect opens a pool from the environment configuration.
func connect(ctx context.Context) (*pgxpool.Pool, config.Config, error) {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return nil, cfg, fmt.Errorf("DATABASE_URL is required")
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("db connect: %w", err)
	}
	return pool, cfg, nil
}

func newMigrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, cfg, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			if dir == "" {
				dir = cfg.MigrationsDir
			}
			if err := db.Migrate(cmd.Context(), pool, dir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the configured super user if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, cfg, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := db.Seed(cmd.Context(), pool, cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
			return nil
		},
	}
}
