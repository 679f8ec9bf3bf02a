package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appsales "github.com/dawapos/backend/internal/application/sales"
	"github.com/dawapos/backend/internal/domain/shared"
	"github.com/dawapos/backend/internal/interfaces/http/dto"
	"github.com/dawapos/backend/internal/interfaces/http/middleware"
)

// SaleHandler serves the sale endpoints
type SaleHandler struct {
	sales *appsales.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(sales *appsales.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req appsales.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.sales.Create(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// Get handles GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.sales.GetByID(c.Request.Context(), middleware.GetTenantID(c), uri.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if branchID := c.Query("branch_id"); branchID != "" {
		filter.Filters["branch_id"] = branchID
	}
	if cashierID := c.Query("cashier_id"); cashierID != "" {
		filter.Filters["cashier_id"] = cashierID
	}

	page, err := h.sales.List(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKPaginated(page))
}

// Commission handles GET /sales/commission/:id where :id is the cashier
func (h *SaleHandler) Commission(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		respondValidationError(c, err)
		return
	}

	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.sales.CashierCommission(c.Request.Context(), middleware.GetTenantID(c), uri.ID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// MyCommission handles GET /sales/my/commission for the logged-in cashier
func (h *SaleHandler) MyCommission(c *gin.Context) {
	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.sales.CashierCommission(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// parseDateRange parses from/to query dates. Defaults to the current
// month when absent; to is exclusive and covers the whole end day.
func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return from, to, shared.NewDomainError("INVALID_INPUT", "from must be formatted YYYY-MM-DD")
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return from, to, shared.NewDomainError("INVALID_INPUT", "to must be formatted YYYY-MM-DD")
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return from, to, shared.NewDomainError("INVALID_INPUT", "to must be after from")
	}
	return from, to, nil
}
