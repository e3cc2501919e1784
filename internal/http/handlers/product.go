package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sca-inventory-backend/internal/http/response"
	"github.com/yungbote/sca-inventory-backend/internal/services"
)

type ProductHandler struct {
	productService services.ProductService
	batchService   services.BatchService
}

func NewProductHandler(productService services.ProductService, batchService services.BatchService) *ProductHandler {
	return &ProductHandler{productService: productService, batchService: batchService}
}

// GET /products?search=
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"products": products})
}

// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	stats, err := h.productService.Stats(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, stats)
}

// POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req services.ProductInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"product": p})
}

// PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.ProductPatch
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"product": p})
}

// DELETE /products/:id?cascade=true
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	removed, err := h.productService.Delete(c.Request.Context(), id, queryBool(c, "cascade"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "batches_removed": removed})
}

// GET /products/:id/fifo
func (h *ProductHandler) FIFO(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, err := h.batchService.Suggest(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, s)
}
