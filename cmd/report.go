package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/sca-inventory-backend/internal/app"
	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
)

var reportFlags struct {
	out         string
	productID   string
	batchNumber string
	from        string
	to          string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the batch report as CSV.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := reportFilter()
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var w io.Writer = cmd.OutOrStdout()
		var file *os.File
		if reportFlags.out != "" && reportFlags.out != "-" {
			file, err = os.CreateTemp(filepath.Dir(reportFlags.out), ".report-*.csv")
			if err != nil {
				return err
			}
			defer os.Remove(file.Name())
			w = file
		}

		name, err := a.Services.Report.ExportCSV(cmd.Context(), f, w)
		if err != nil {
			if file != nil {
				_ = file.Close()
			}
			return err
		}
		if file == nil {
			return nil
		}
		if err := file.Close(); err != nil {
			return err
		}
		if err := os.Rename(file.Name(), reportFlags.out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (suggested name %s)\n", reportFlags.out, name)
		return nil
	},
}

func init() {
	fl := reportCmd.Flags()
	fl.StringVarP(&reportFlags.out, "out", "o", "", "output file (default stdout)")
	fl.StringVar(&reportFlags.productID, "product", "", "product id")
	fl.StringVar(&reportFlags.batchNumber, "batch", "", "batch number substring")
	fl.StringVar(&reportFlags.from, "from", "", "earliest entry date, YYYY-MM-DD")
	fl.StringVar(&reportFlags.to, "to", "", "latest entry date, YYYY-MM-DD")
}

func reportFilter() (inventory.ReportFilter, error) {
	f := inventory.ReportFilter{BatchNumber: reportFlags.batchNumber}
	if reportFlags.productID != "" {
		id, err := uuid.Parse(reportFlags.productID)
		if err != nil {
			return f, fmt.Errorf("--product: %w", err)
		}
		f.ProductID = id
	}
	for _, d := range []struct {
		flag string
		raw  string
		dst  *types.Date
	}{
		{"--from", reportFlags.from, &f.From},
		{"--to", reportFlags.to, &f.To},
	} {
		if d.raw == "" {
			continue
		}
		v, err := types.ParseDate(d.raw)
		if err != nil {
			return f, fmt.Errorf("%s: %w", d.flag, err)
		}
		*d.dst = v
	}
	return f, nil
}
