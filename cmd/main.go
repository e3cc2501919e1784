package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sca-inventory",
	Short: "FIFO batch inventory backend with expiration tracking.",
	Long: `sca-inventory serves the inventory API. Run without a subcommand ` +
		`to start the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	// A missing .env is normal in containers.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, reportCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
