package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sca-inventory-backend/internal/http/response"
	"github.com/yungbote/sca-inventory-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	s, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, s)
}

func (h *DashboardHandler) Notifications(c *gin.Context) {
	rows, err := h.dashboardService.Notifications(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notifications": rows, "count": len(rows)})
}
