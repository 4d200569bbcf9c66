package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spherecast/spherecast/internal/config"
	"github.com/spherecast/spherecast/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the postgres backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := a.cfg.Storage.DatabaseURL
			if url == "" {
				return errors.New("database_url is required (set " + config.EnvPrefix + "_DATABASE_URL)")
			}
			db, err := database.Connect(cmd.Context(), url)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(url); err != nil {
				return err
			}
			slog.Info("database migrations applied")
			return nil
		},
	}
}
