package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sca-inventory-backend/internal/http/response"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/services"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func reportFilter(c *gin.Context) (inventory.ReportFilter, error) {
	var (
		f   inventory.ReportFilter
		err error
	)
	if f.ProductID, err = queryUUID(c, "product_id"); err != nil {
		return f, err
	}
	if f.From, err = queryDate(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(c, "to"); err != nil {
		return f, err
	}
	f.BatchNumber = c.Query("batch_number")
	return f, nil
}

// GET /reports/batches
func (h *ReportHandler) Batches(c *gin.Context) {
	f, err := reportFilter(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	rep, err := h.reportService.Batches(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, rep)
}

// GET /reports/batches.csv
func (h *ReportHandler) BatchesCSV(c *gin.Context) {
	f, err := reportFilter(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	// Buffered so a failure can still produce a JSON error.
	var buf bytes.Buffer
	name, err := h.reportService.ExportCSV(c.Request.Context(), f, &buf)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
