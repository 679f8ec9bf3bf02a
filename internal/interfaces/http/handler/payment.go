package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appsales "github.com/dawapos/backend/internal/application/sales"
	"github.com/dawapos/backend/internal/domain/shared"
	"github.com/dawapos/backend/internal/infrastructure/logger"
	"github.com/dawapos/backend/internal/infrastructure/payment"
	"github.com/dawapos/backend/internal/interfaces/http/middleware"
)

// PaymentHandler serves M-Pesa STK push and its asynchronous callback
type PaymentHandler struct {
	gateway *payment.MpesaGateway
	sales   *appsales.SaleService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(gateway *payment.MpesaGateway, sales *appsales.SaleService) *PaymentHandler {
	return &PaymentHandler{gateway: gateway, sales: sales}
}

// StkPushRequest asks for a payment prompt on the customer's phone for
// an existing sale.
type StkPushRequest struct {
	SaleID      uuid.UUID `json:"sale_id" binding:"required"`
	PhoneNumber string    `json:"phone_number" binding:"required,msisdn"`
	Amount      *float64  `json:"amount" binding:"omitempty,gt=0"`
}

// StkPush handles POST /payments/mpesa/stk-push
func (h *PaymentHandler) StkPush(c *gin.Context) {
	var req StkPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	sale, err := h.sales.GetByID(c.Request.Context(), middleware.GetTenantID(c), req.SaleID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Default to the full sale total; partial pushes cover split payments
	amount := sale.TotalAmount
	if req.Amount != nil {
		amount = decimal.NewFromFloat(*req.Amount)
	}

	resp, err := h.gateway.STKPush(c.Request.Context(), payment.StkPushRequest{
		Amount:           amount,
		PhoneNumber:      req.PhoneNumber,
		AccountReference: sale.SaleNumber,
		Description:      "sale " + sale.SaleNumber,
	})
	if err != nil {
		respondError(c, shared.NewDomainErrorf("PAYMENT_GATEWAY_ERROR", "stk push failed: %v", err))
		return
	}
	respondOK(c, resp)
}

// Callback handles POST /payments/mpesa/callback. It is unauthenticated
// because Safaricom posts to it; the payload is acknowledged even when
// the payment failed, otherwise Daraja keeps retrying.
func (h *PaymentHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ResultCode": 1, "ResultDesc": "unreadable payload"})
		return
	}

	cb, err := payment.ParseCallback(body)
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("rejected mpesa callback", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"ResultCode": 1, "ResultDesc": "invalid payload"})
		return
	}

	log := logger.FromContext(c.Request.Context())
	if cb.Successful() {
		log.Info("mpesa payment confirmed",
			zap.String("checkout_request_id", cb.CheckoutRequestID),
			zap.String("receipt", cb.ReceiptNumber),
			zap.String("amount", cb.Amount.StringFixed(2)))
	} else {
		log.Warn("mpesa payment failed",
			zap.String("checkout_request_id", cb.CheckoutRequestID),
			zap.Int("result_code", cb.ResultCode),
			zap.String("result_desc", cb.ResultDescription))
	}

	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}

// QueryStatus handles GET /payments/mpesa/status/:id where :id is the
// checkout request ID.
func (h *PaymentHandler) QueryStatus(c *gin.Context) {
	checkoutRequestID := c.Param("id")
	if checkoutRequestID == "" {
		respondError(c, shared.NewDomainError("INVALID_INPUT", "checkout request id is required"))
		return
	}

	resp, err := h.gateway.QueryStatus(c.Request.Context(), checkoutRequestID)
	if err != nil {
		respondError(c, shared.NewDomainErrorf("PAYMENT_GATEWAY_ERROR", "status query failed: %v", err))
		return
	}
	respondOK(c, resp)
}
