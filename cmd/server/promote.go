package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newPromoteCommand() *cobra.Command {
	promoteCmd := &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := connectDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			services, err := wire(cfg, db)
			if err != nil {
				return err
			}

			if err := services.Auth.PromoteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			slog.Info("User promoted to admin", slog.String("email", args[0]))
			return nil
		},
	}
	return promoteCmd
}
