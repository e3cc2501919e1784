package services

import (
	"context"
	"io"
	"time"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type ReportRow struct {
	inventory.ExpiryStatus
	Status string `json:"status"`
}

type BatchReport struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Filter      inventory.ReportFilter `json:"filter"`
	Summary     inventory.ReportTotals `json:"summary"`
	Rows        []ReportRow            `json:"rows"`
}

// ReportService is read-only and does not check the caller; the HTTP layer
// and the CLI decide who may run it.
type ReportService interface {
	Batches(ctx context.Context, f inventory.ReportFilter) (*BatchReport, error)
	// ExportCSV writes the filtered rows and returns the suggested file name.
	ExportCSV(ctx context.Context, f inventory.ReportFilter, w io.Writer) (string, error)
}

type reportService struct {
	log       *logger.Logger
	batchRepo repos.BatchRepo
	cfg       InventoryConfig
}

func NewReportService(log *logger.Logger, batchRepo repos.BatchRepo, cfg InventoryConfig) ReportService {
	return &reportService{
		log:       log.With("service", "ReportService"),
		batchRepo: batchRepo,
		cfg:       cfg,
	}
}

func checkRange(f inventory.ReportFilter) error {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return apierr.Invalid("date_range_invalid", "to (%s) is before from (%s)", f.To, f.From)
	}
	return nil
}

func (rs *reportService) Batches(ctx context.Context, f inventory.ReportFilter) (*BatchReport, error) {
	if err := checkRange(f); err != nil {
		return nil, err
	}
	all, err := rs.batchRepo.List(dbcOf(ctx))
	if err != nil {
		return nil, err
	}
	now, w := rs.cfg.now(), rs.cfg.windows()
	rows := inventory.FilterReport(values(all), f)
	out := &BatchReport{
		GeneratedAt: now,
		Filter:      f,
		Summary:     inventory.ReportSummary(rows, now, w),
		Rows:        make([]ReportRow, 0, len(rows)),
	}
	for _, b := range rows {
		st := inventory.StatusOf(b, now, w)
		out.Rows = append(out.Rows, ReportRow{ExpiryStatus: st, Status: inventory.ReportStatus(st.DaysLeft, w)})
	}
	return out, nil
}

func (rs *reportService) ExportCSV(ctx context.Context, f inventory.ReportFilter, w io.Writer) (string, error) {
	if err := checkRange(f); err != nil {
		return "", err
	}
	all, err := rs.batchRepo.List(dbcOf(ctx))
	if err != nil {
		return "", err
	}
	now := rs.cfg.now()
	rows := inventory.FilterReport(values(all), f)
	if err := inventory.WriteReportCSV(w, rows, now, rs.cfg.windows()); err != nil {
		return "", err
	}
	rs.log.Info("Report exported", "rows", len(rows))
	return inventory.ReportFileName(now), nil
}
