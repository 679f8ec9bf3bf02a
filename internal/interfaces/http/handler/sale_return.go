package handler

import (
	"github.com/gin-gonic/gin"

	appsales "github.com/dawapos/backend/internal/application/sales"
	"github.com/dawapos/backend/internal/interfaces/http/dto"
	"github.com/dawapos/backend/internal/interfaces/http/middleware"
)

// SaleReturnHandler serves the sale return endpoints
type SaleReturnHandler struct {
	returns *appsales.SaleReturnService
}

// NewSaleReturnHandler creates a new SaleReturnHandler
func NewSaleReturnHandler(returns *appsales.SaleReturnService) *SaleReturnHandler {
	return &SaleReturnHandler{returns: returns}
}

// Create handles POST /sales/:id/returns
func (h *SaleReturnHandler) Create(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		respondValidationError(c, err)
		return
	}

	var req appsales.CreateSaleReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.returns.Create(c.Request.Context(), middleware.GetTenantID(c), uri.ID, middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// ListBySale handles GET /sales/:id/returns
func (h *SaleReturnHandler) ListBySale(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.returns.ListBySale(c.Request.Context(), middleware.GetTenantID(c), uri.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Get handles GET /returns/:id
func (h *SaleReturnHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.returns.GetByID(c.Request.Context(), middleware.GetTenantID(c), uri.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}
