package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sca-inventory-backend/internal/http/response"
	"github.com/yungbote/sca-inventory-backend/internal/services"
)

type AdminHandler struct {
	seedService services.SeedService
}

func NewAdminHandler(seedService services.SeedService) *AdminHandler {
	return &AdminHandler{seedService: seedService}
}

// GET /diagnostic
func (h *AdminHandler) Diagnostic(c *gin.Context) {
	d, err := h.seedService.Diagnostic(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, d)
}

// POST /init
func (h *AdminHandler) Init(c *gin.Context) {
	res, err := h.seedService.Seed(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}
