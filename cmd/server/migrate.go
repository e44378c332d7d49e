package main

import (
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	_ "project-hub/migrations"
)

func newMigrateCommand() *cobra.Command {
	var down bool

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply every pending migration from the migrations directory.

With --down the most recent migration is rolled back instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := connectDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := goose.SetDialect("postgres"); err != nil {
				return fmt.Errorf("set goose dialect: %w", err)
			}

			if down {
				if err := goose.DownContext(cmd.Context(), db.DB, cfg.MigrationsDir); err != nil {
					return fmt.Errorf("goose: roll back migration: %w", err)
				}
				slog.Info("Rolled back the latest migration")
				return nil
			}

			if err := goose.UpContext(cmd.Context(), db.DB, cfg.MigrationsDir); err != nil {
				return fmt.Errorf("goose: failed to run migrations: %w", err)
			}
			slog.Info("Migrations applied successfully")
			return nil
		},
	}

	migrateCmd.Flags().BoolVar(&down, "down", false, "Roll back the most recent migration")
	return migrateCmd
}
