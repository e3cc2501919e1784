package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/sca-inventory-backend/internal/app"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the seed fixture into an empty database.",
	Long: `Loads the default admins, products and batches. Does nothing when ` +
		`users already exist. SEED_ADMIN_PASSWORD is required and SEED_FILE ` +
		`overrides the embedded fixture.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Services.Seed.Seed(cmd.Context())
		if err != nil {
			return err
		}
		if !res.Seeded {
			fmt.Fprintln(cmd.OutOrStdout(), "database already has users; nothing seeded")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d products, %d batches\n", res.Users, res.Products, res.Batches)
		return nil
	},
}
