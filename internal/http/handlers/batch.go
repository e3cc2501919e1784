package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	"github.com/yungbote/sca-inventory-backend/internal/http/response"
	"github.com/yungbote/sca-inventory-backend/internal/services"
)

type BatchHandler struct {
	batchService services.BatchService
}

func NewBatchHandler(batchService services.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// GET /batches?product_id=&active=true
func (h *BatchHandler) List(c *gin.Context) {
	productID, err := queryUUID(c, "product_id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	rows, err := h.batchService.List(c.Request.Context(), services.BatchQuery{
		ProductID:  productID,
		ActiveOnly: queryBool(c, "active"),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"batches": rows})
}

// GET /batches/:id
func (h *BatchHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.batchService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"batch": b})
}

// POST /batches and POST /inventory/entries
func (h *BatchHandler) Entry(c *gin.Context) {
	var req services.EntryInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.batchService.Entry(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, res)
}

// PUT /batches/:id
func (h *BatchHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.BatchPatch
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.batchService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"batch": b})
}

// DELETE /batches/:id
func (h *BatchHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.batchService.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /inventory/dispatches
func (h *BatchHandler) Dispatch(c *gin.Context) {
	var req services.DispatchInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.batchService.Dispatch(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /inventory/movements?product_id=&batch_id=&kind=&since=&limit=
func (h *BatchHandler) Movements(c *gin.Context) {
	var (
		f   repos.MovementFilter
		err error
	)
	if f.ProductID, err = queryUUID(c, "product_id"); err != nil {
		response.RespondErr(c, err)
		return
	}
	if f.BatchID, err = queryUUID(c, "batch_id"); err != nil {
		response.RespondErr(c, err)
		return
	}
	if f.Since, err = queryTime(c, "since"); err != nil {
		response.RespondErr(c, err)
		return
	}
	if f.Limit, err = queryInt(c, "limit", 0); err != nil {
		response.RespondErr(c, err)
		return
	}
	f.Kind = c.Query("kind")

	rows, err := h.batchService.Movements(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"movements": rows})
}
