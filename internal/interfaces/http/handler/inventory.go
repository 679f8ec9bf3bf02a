package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appinventory "github.com/dawapos/backend/internal/application/inventory"
	"github.com/dawapos/backend/internal/interfaces/http/dto"
	"github.com/dawapos/backend/internal/interfaces/http/middleware"
)

// InventoryHandler serves the stock endpoints
type InventoryHandler struct {
	stock *appinventory.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stock *appinventory.StockService) *InventoryHandler {
	return &InventoryHandler{stock: stock}
}

// Receive handles POST /inventory/receive
func (h *InventoryHandler) Receive(c *gin.Context) {
	var req appinventory.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.stock.Receive(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// Adjust handles POST /inventory/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req appinventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.stock.Adjust(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// ListLots handles GET /inventory/lots
func (h *InventoryHandler) ListLots(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	if productID := c.Query("product_id"); productID != "" {
		filter.Filters["product_id"] = productID
	}
	if branchID := c.Query("branch_id"); branchID != "" {
		filter.Filters["branch_id"] = branchID
	}

	page, err := h.stock.ListLots(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKPaginated(page))
}

// ListMovements handles GET /inventory/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	if lotID := c.Query("stock_lot_id"); lotID != "" {
		filter.Filters["stock_lot_id"] = lotID
	}
	if productID := c.Query("product_id"); productID != "" {
		filter.Filters["product_id"] = productID
	}

	page, err := h.stock.ListMovements(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKPaginated(page))
}
