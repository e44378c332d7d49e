package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"project-hub/internal/repository"
	"project-hub/internal/seed"
)

func newSeedCommand() *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo accounts and sample project",
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

			seeder := seed.NewSeeder(
				repository.NewPostgresUserRepository(db),
				repository.NewPostgresProjectRepository(db),
				repository.NewPostgresTaskRepository(db),
				bcrypt.DefaultCost,
			)
			_, err = seeder.Run(cmd.Context())
			return err
		},
	}
	return seedCmd
}
