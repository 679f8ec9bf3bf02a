package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appsales "github.com/dawapos/backend/internal/application/sales"
	"github.com/dawapos/backend/internal/interfaces/http/dto"
	"github.com/dawapos/backend/internal/interfaces/http/middleware"
)

// EditRequestHandler serves the maker-checker edit request endpoints
type EditRequestHandler struct {
	requests *appsales.EditRequestService
}

// NewEditRequestHandler creates a new EditRequestHandler
func NewEditRequestHandler(requests *appsales.EditRequestService) *EditRequestHandler {
	return &EditRequestHandler{requests: requests}
}

// Create handles POST /edit-requests
func (h *EditRequestHandler) Create(c *gin.Context) {
	var req appsales.CreateEditRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.requests.Create(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// Decide handles POST /edit-requests/:id/decision
func (h *EditRequestHandler) Decide(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		respondValidationError(c, err)
		return
	}

	var req appsales.DecideEditRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.requests.Decide(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), uri.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Get handles GET /edit-requests/:id
func (h *EditRequestHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.requests.GetByID(c.Request.Context(), middleware.GetTenantID(c), uri.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// List handles GET /edit-requests
func (h *EditRequestHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if saleID := c.Query("sale_id"); saleID != "" {
		filter.Filters["sale_id"] = saleID
	}

	page, err := h.requests.List(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKPaginated(page))
}
