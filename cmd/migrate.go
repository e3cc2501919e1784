package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/sca-inventory-backend/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// app.New migrates on open.
		a, err := app.New(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		a.Log.Info("Schema is up to date", "driver", a.Cfg.DB.Driver)
		return nil
	},
}
