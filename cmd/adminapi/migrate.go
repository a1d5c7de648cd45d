package main

import (
	"github.com/spf13/cobra"

	"adminapi/internal/database"
	"adminapi/internal/database/migration"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema when it does not exist yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.Database)
			if err != nil {
				return fail("db_connect_failed", err)
			}
			defer db.Close()

			return migration.EnsureMigrated(cmd.Context(), db, cfg.Database.Type, cfg.Database.Host)
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the schema if needed and load the initial data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.Database)
			if err != nil {
				return fail("db_connect_failed", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := migration.EnsureMigrated(ctx, db, cfg.Database.Type, cfg.Database.Host); err != nil {
				return err
			}
			return migration.Seed(ctx, db, cfg.Database.Type)
		},
	}
}
