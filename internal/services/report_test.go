package services

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
)

func TestReportBatches(t *testing.T) {
	f := newFixture(t)
	rs := NewReportService(f.log, f.batches, f.inv)
	ctx := context.Background()

	flour := f.product(t, "Harina de Trigo", "Materia Prima", "kg")
	sugar := f.product(t, "Azúcar", "Materia Prima", "kg")
	f.batch(t, flour, "H-001", 100, "2025-01-02", "2025-01-12")
	f.batch(t, flour, "H-002", 50, "2025-01-06", "2025-02-01")
	f.batch(t, sugar, "A-001", 25, "2025-01-03", "2025-06-01")

	rep, err := rs.Batches(ctx, inventory.ReportFilter{BatchNumber: "h-", From: types.MustDate("2025-01-01"), To: types.MustDate("2025-01-05")})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "H-001", rep.Rows[0].BatchNumber)
	assert.Equal(t, inventory.StatusCritical, rep.Rows[0].Status)
	assert.Equal(t, 1, rep.Summary.CriticalCount)

	all, err := rs.Batches(ctx, inventory.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Summary.Rows)
	assert.Equal(t, 2, all.Summary.UniqueProducts)
	assert.Equal(t, "Azúcar", all.Rows[0].ProductName)

	_, err = rs.Batches(ctx, inventory.ReportFilter{From: types.MustDate("2025-02-01"), To: types.MustDate("2025-01-01")})
	requireCode(t, err, http.StatusBadRequest, "date_range_invalid")
}

func TestReportExportCSV(t *testing.T) {
	f := newFixture(t)
	rs := NewReportService(f.log, f.batches, f.inv)
	p := f.product(t, "Harina de Trigo", "Materia Prima", "kg")
	f.batch(t, p, "H-001", 100, "2025-01-02", "2025-02-01")

	var buf bytes.Buffer
	name, err := rs.ExportCSV(context.Background(), inventory.ReportFilter{ProductID: p.ID}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "reporte_inventario_2025-01-10.csv", name)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Producto,Lote,Cantidad,Fecha Entrada,Fecha Vencimiento,Estado", lines[0])
	assert.Equal(t, "Harina de Trigo,H-001,100,2/1/2025,1/2/2025,Atención", lines[1])
}
