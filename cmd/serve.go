package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/sca-inventory-backend/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the expiry monitor.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Start(ctx); err != nil {
		return err
	}
	a.Log.Info("Server starting", "addr", a.Cfg.Addr(), "product_store", a.Cfg.ProductStore, "session_store", a.Cfg.SessionStore)
	return a.Run(ctx)
}
