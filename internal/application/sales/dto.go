package sales

import (
	"time"

	"github.com/google/uuid"

	"github.com/dawapos/backend/internal/domain/sales"
)

// CreateSaleRequest is the payload for creating a sale
type CreateSaleRequest struct {
	BranchID       uuid.UUID                   `json:"branch_id" binding:"required"`
	CustomerID     *uuid.UUID                  `json:"customer_id"`
	CustomerName   string                      `json:"customer_name"`
	CustomerPhone  string                      `json:"customer_phone"`
	LineItems      []CreateSaleLineItemRequest `json:"line_items" binding:"required,min=1,dive"`
	Payments       []CreateSalePaymentRequest  `json:"payments" binding:"omitempty,dive"`
	IsCreditSale   bool                        `json:"is_credit_sale"`
	DiscountAmount float64                     `json:"discount_amount" binding:"gte=0"`
	Notes          string                      `json:"notes"`
}

// CreateSaleLineItemRequest is one requested sale position. It names
// the exact stock lot to sell from, not just the product.
type CreateSaleLineItemRequest struct {
	ProductID          uuid.UUID `json:"product_id" binding:"required"`
	StockLotID         uuid.UUID `json:"stock_lot_id" binding:"required"`
	Quantity           float64   `json:"quantity" binding:"required,gt=0"`
	UnitPrice          float64   `json:"unit_price" binding:"required,gt=0"`
	DiscountPercentage float64   `json:"discount_percentage" binding:"gte=0,lte=100"`
	DiscountAmount     float64   `json:"discount_amount" binding:"gte=0"`
	Notes              string    `json:"notes"`
}

// CreateSalePaymentRequest is one payment covering (part of) a sale
type CreateSalePaymentRequest struct {
	PaymentMethod   string  `json:"payment_method" binding:"required"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	ReferenceNumber string  `json:"reference_number"`
	Notes           string  `json:"notes"`
}

// SaleLineItemResponse is the API shape of a sale line item
type SaleLineItemResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ProductID          uuid.UUID  `json:"product_id"`
	StockLotID         uuid.UUID  `json:"stock_lot_id"`
	BatchNumber        string     `json:"batch_number,omitempty"`
	ExpiryDate         *time.Time `json:"expiry_date,omitempty"`
	Quantity           float64    `json:"quantity"`
	UnitPrice          float64    `json:"unit_price"`
	DiscountPercentage float64    `json:"discount_percentage"`
	DiscountAmount     float64    `json:"discount_amount"`
	TaxRate            float64    `json:"tax_rate"`
	NetAmount          float64    `json:"net_amount"`
	TaxAmount          float64    `json:"tax_amount"`
	LineTotal          float64    `json:"line_total"`
	ReturnedQuantity   float64    `json:"returned_quantity"`
	Notes              string     `json:"notes,omitempty"`
}

// SalePaymentResponse is the API shape of a sale payment
type SalePaymentResponse struct {
	ID              uuid.UUID `json:"id"`
	PaymentMethod   string    `json:"payment_method"`
	Amount          float64   `json:"amount"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// SaleResponse is the API shape of a sale with nested lines and payments
type SaleResponse struct {
	ID             uuid.UUID              `json:"id"`
	SaleNumber     string                 `json:"sale_number"`
	BranchID       uuid.UUID              `json:"branch_id"`
	CustomerID     *uuid.UUID             `json:"customer_id,omitempty"`
	CustomerName   string                 `json:"customer_name,omitempty"`
	CustomerPhone  string                 `json:"customer_phone,omitempty"`
	CashierID      uuid.UUID              `json:"cashier_id"`
	Status         string                 `json:"status"`
	ReturnStatus   string                 `json:"return_status"`
	IsCreditSale   bool                   `json:"is_credit_sale"`
	Subtotal       float64                `json:"subtotal"`
	TaxAmount      float64                `json:"tax_amount"`
	DiscountAmount float64                `json:"discount_amount"`
	TotalAmount    float64                `json:"total_amount"`
	Notes          string                 `json:"notes,omitempty"`
	SaleDate       time.Time              `json:"sale_date"`
	LineItems      []SaleLineItemResponse `json:"line_items"`
	Payments       []SalePaymentResponse  `json:"payments"`
	CreatedAt      time.Time              `json:"created_at"`
}

// ToSaleResponse converts a sale aggregate to its API shape
func ToSaleResponse(sale *sales.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:             sale.ID,
		SaleNumber:     sale.SaleNumber,
		BranchID:       sale.BranchID,
		CustomerID:     sale.CustomerID,
		CustomerName:   sale.CustomerName,
		CustomerPhone:  sale.CustomerPhone,
		CashierID:      sale.CashierID,
		Status:         string(sale.Status),
		ReturnStatus:   string(sale.ReturnStatus),
		IsCreditSale:   sale.IsCreditSale,
		Subtotal:       sale.Subtotal.InexactFloat64(),
		TaxAmount:      sale.TaxAmount.InexactFloat64(),
		DiscountAmount: sale.DiscountAmount.InexactFloat64(),
		TotalAmount:    sale.TotalAmount.InexactFloat64(),
		Notes:          sale.Notes,
		SaleDate:       sale.SaleDate,
		LineItems:      make([]SaleLineItemResponse, 0, len(sale.LineItems)),
		Payments:       make([]SalePaymentResponse, 0, len(sale.Payments)),
		CreatedAt:      sale.CreatedAt,
	}
	for i := range sale.LineItems {
		li := &sale.LineItems[i]
		resp.LineItems = append(resp.LineItems, SaleLineItemResponse{
			ID:                 li.ID,
			ProductID:          li.ProductID,
			StockLotID:         li.StockLotID,
			BatchNumber:        li.BatchNumber,
			ExpiryDate:         li.ExpiryDate,
			Quantity:           li.Quantity.InexactFloat64(),
			UnitPrice:          li.UnitPrice.InexactFloat64(),
			DiscountPercentage: li.DiscountPercentage.InexactFloat64(),
			DiscountAmount:     li.DiscountAmount.InexactFloat64(),
			TaxRate:            li.TaxRate.InexactFloat64(),
			NetAmount:          li.NetAmount.InexactFloat64(),
			TaxAmount:          li.TaxAmount.InexactFloat64(),
			LineTotal:          li.LineTotal.InexactFloat64(),
			ReturnedQuantity:   li.ReturnedQuantity.InexactFloat64(),
			Notes:              li.Notes,
		})
	}
	for i := range sale.Payments {
		p := &sale.Payments[i]
		resp.Payments = append(resp.Payments, SalePaymentResponse{
			ID:              p.ID,
			PaymentMethod:   string(p.Method),
			Amount:          p.Amount.InexactFloat64(),
			ReferenceNumber: p.ReferenceNumber,
			Notes:           p.Notes,
		})
	}
	return resp
}

// CreateSaleReturnRequest is the payload for returning sold items
type CreateSaleReturnRequest struct {
	Reason    string                        `json:"reason" binding:"required"`
	Notes     string                        `json:"notes"`
	LineItems []CreateSaleReturnLineRequest `json:"line_items" binding:"required,min=1,dive"`
}

// CreateSaleReturnLineRequest is one returned position
type CreateSaleReturnLineRequest struct {
	SaleLineItemID     uuid.UUID `json:"sale_line_item_id" binding:"required"`
	Quantity           float64   `json:"quantity" binding:"required,gt=0"`
	UnitPrice          float64   `json:"unit_price" binding:"gte=0"`
	RestoreToInventory bool      `json:"restore_to_inventory"`
	Notes              string    `json:"notes"`
}

// SaleReturnLineResponse is the API shape of a return line
type SaleReturnLineResponse struct {
	ID                 uuid.UUID `json:"id"`
	SaleLineItemID     uuid.UUID `json:"sale_line_item_id"`
	ProductID          uuid.UUID `json:"product_id"`
	QuantityReturned   float64   `json:"quantity_returned"`
	UnitPrice          float64   `json:"unit_price"`
	RefundAmount       float64   `json:"refund_amount"`
	RestoreToInventory bool      `json:"restore_to_inventory"`
	Notes              string    `json:"notes,omitempty"`
}

// SaleReturnResponse is the API shape of a sale return
type SaleReturnResponse struct {
	ID           uuid.UUID                `json:"id"`
	ReturnNumber string                   `json:"return_number"`
	SaleID       uuid.UUID                `json:"sale_id"`
	SaleNumber   string                   `json:"sale_number"`
	Reason       string                   `json:"reason"`
	Notes        string                   `json:"notes,omitempty"`
	TotalRefund  float64                  `json:"total_refund"`
	ProcessedBy  uuid.UUID                `json:"processed_by"`
	LineItems    []SaleReturnLineResponse `json:"line_items"`
	CreatedAt    time.Time                `json:"created_at"`
}

// ToSaleReturnResponse converts a sale return to its API shape
func ToSaleReturnResponse(ret *sales.SaleReturn) *SaleReturnResponse {
	resp := &SaleReturnResponse{
		ID:           ret.ID,
		ReturnNumber: ret.ReturnNumber,
		SaleID:       ret.SaleID,
		SaleNumber:   ret.SaleNumber,
		Reason:       ret.Reason,
		Notes:        ret.Notes,
		TotalRefund:  ret.TotalRefund.InexactFloat64(),
		ProcessedBy:  ret.ProcessedBy,
		LineItems:    make([]SaleReturnLineResponse, 0, len(ret.LineItems)),
		CreatedAt:    ret.CreatedAt,
	}
	for i := range ret.LineItems {
		li := &ret.LineItems[i]
		resp.LineItems = append(resp.LineItems, SaleReturnLineResponse{
			ID:                 li.ID,
			SaleLineItemID:     li.SaleLineItemID,
			ProductID:          li.ProductID,
			QuantityReturned:   li.QuantityReturned.InexactFloat64(),
			UnitPrice:          li.UnitPrice.InexactFloat64(),
			RefundAmount:       li.RefundAmount.InexactFloat64(),
			RestoreToInventory: li.RestoreToInventory,
			Notes:              li.Notes,
		})
	}
	return resp
}

// CreateEditRequestRequest is the payload for a maker-checker edit request
type CreateEditRequestRequest struct {
	SaleID         uuid.UUID `json:"sale_id" binding:"required"`
	SaleLineItemID uuid.UUID `json:"sale_line_item_id" binding:"required"`
	RequestType    string    `json:"request_type" binding:"required,oneof=PRICE_CHANGE LINE_DELETE"`
	NewUnitPrice   *float64  `json:"new_unit_price" binding:"omitempty,gt=0"`
	Reason         string    `json:"reason" binding:"required"`
}

// DecideEditRequestRequest is the payload for approving or rejecting
type DecideEditRequestRequest struct {
	Approved        *bool  `json:"approved" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}

// EditRequestResponse is the API shape of an edit request
type EditRequestResponse struct {
	ID              uuid.UUID  `json:"id"`
	SaleID          uuid.UUID  `json:"sale_id"`
	SaleLineItemID  uuid.UUID  `json:"sale_line_item_id"`
	RequestType     string     `json:"request_type"`
	NewUnitPrice    *float64   `json:"new_unit_price,omitempty"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	RequestedBy     uuid.UUID  `json:"requested_by"`
	DecidedBy       *uuid.UUID `json:"decided_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToEditRequestResponse converts an edit request to its API shape
func ToEditRequestResponse(req *sales.EditRequest) *EditRequestResponse {
	resp := &EditRequestResponse{
		ID:              req.ID,
		SaleID:          req.SaleID,
		SaleLineItemID:  req.SaleLineItemID,
		RequestType:     string(req.Type),
		Reason:          req.Reason,
		Status:          string(req.Status),
		RequestedBy:     req.RequestedBy,
		DecidedBy:       req.DecidedBy,
		DecidedAt:       req.DecidedAt,
		RejectionReason: req.RejectionReason,
		CreatedAt:       req.CreatedAt,
	}
	if req.NewUnitPrice != nil {
		price := req.NewUnitPrice.InexactFloat64()
		resp.NewUnitPrice = &price
	}
	return resp
}

// CommissionResponse is the cashier commission view, computed on read
type CommissionResponse struct {
	CashierID      uuid.UUID `json:"cashier_id"`
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	SalesCount     int       `json:"sales_count"`
	GrossProfit    float64   `json:"gross_profit"`
	CommissionRate float64   `json:"commission_rate"`
	Commission     float64   `json:"commission"`
}
