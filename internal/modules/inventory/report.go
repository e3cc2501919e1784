package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
)

// ReportFilter narrows the batch report. Zero values mean "no constraint".
type ReportFilter struct {
	ProductID   uuid.UUID  `json:"product_id,omitempty"`
	BatchNumber string     `json:"batch_number,omitempty"`
	From        types.Date `json:"from,omitempty"`
	To          types.Date `json:"to,omitempty"`
}

func (f ReportFilter) matches(b types.Batch) bool {
	if f.ProductID != uuid.Nil && b.ProductID != f.ProductID {
		return false
	}
	if q := strings.TrimSpace(f.BatchNumber); q != "" &&
		!strings.Contains(strings.ToLower(b.BatchNumber), strings.ToLower(q)) {
		return false
	}
	if !f.From.IsZero() && b.EntryDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && b.EntryDate.After(f.To) {
		return false
	}
	return true
}

// FilterReport returns the matching batches ordered by product name and then
// FIFO order. The entry date range is inclusive on both ends.
func FilterReport(batches []types.Batch, f ReportFilter) []types.Batch {
	out := make([]types.Batch, 0, len(batches))
	for _, b := range batches {
		if f.matches(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return fifoLess(out[i], out[j])
	})
	return out
}

type ReportTotals struct {
	Rows           int             `json:"rows"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	UniqueProducts int             `json:"unique_products"`
	CriticalCount  int             `json:"critical_count"`
}

// ReportSummary totals the rows. CriticalCount includes expired batches.
func ReportSummary(rows []types.Batch, now time.Time, w Windows) ReportTotals {
	t := ReportTotals{Rows: len(rows), TotalQuantity: TotalQuantity(rows)}
	seen := map[uuid.UUID]struct{}{}
	for _, b := range rows {
		seen[b.ProductID] = struct{}{}
		if DaysUntil(b.ExpirationDate, now, nil) <= w.Critical {
			t.CriticalCount++
		}
	}
	t.UniqueProducts = len(seen)
	return t
}

const (
	StatusCritical  = "Crítico"
	StatusAttention = "Atención"
	StatusNormal    = "Normal"
)

// ReportStatus is the label printed in the Estado column.
func ReportStatus(days int, w Windows) string {
	switch {
	case days <= w.Critical:
		return StatusCritical
	case days <= w.Expiring:
		return StatusAttention
	default:
		return StatusNormal
	}
}

var reportHeader = []string{"Producto", "Lote", "Cantidad", "Fecha Entrada", "Fecha Vencimiento", "Estado"}

func WriteReportCSV(out io.Writer, rows []types.Batch, now time.Time, w Windows) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, b := range rows {
		days := DaysUntil(b.ExpirationDate, now, nil)
		rec := []string{
			b.ProductName,
			b.BatchNumber,
			b.Quantity.String(),
			shortDate(b.EntryDate),
			shortDate(b.ExpirationDate),
			ReportStatus(days, w),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportFileName is the download name for a report generated on now's day.
func ReportFileName(now time.Time) string {
	return fmt.Sprintf("reporte_inventario_%s.csv", Today(now).String())
}

// shortDate renders d/m/yyyy without zero padding.
func shortDate(d types.Date) string {
	if d.IsZero() {
		return ""
	}
	t := d.Time()
	return strconv.Itoa(t.Day()) + "/" + strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Year())
}
