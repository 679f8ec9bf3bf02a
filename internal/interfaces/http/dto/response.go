package dto

import (
	"github.com/google/uuid"

	"github.com/dawapos/backend/internal/domain/shared"
)

// Response is the uniform API envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo carries the machine-readable error code and a human message
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta carries pagination information for list responses
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// OK wraps data in a success envelope
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// OKPaginated wraps a page of items in a success envelope with meta
func OKPaginated[T any](page *shared.Paginated[T]) Response {
	return Response{
		Success: true,
		Data:    page.Items,
		Meta: &Meta{
			Page:       page.Page,
			PageSize:   page.PageSize,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	}
}

// Err wraps an error code and message in a failure envelope
func Err(code, message string) Response {
	return Response{Success: false, Error: &ErrorInfo{Code: code, Message: message}}
}

// ListRequest holds common list query parameters
type ListRequest struct {
	Page     int    `form:"page,default=1" binding:"omitempty,gte=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,gte=1,lte=200"`
	OrderBy  string `form:"order_by,default=created_at"`
	OrderDir string `form:"order_dir,default=desc" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// ToFilter converts the request to a domain filter
func (r *ListRequest) ToFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if r.Page > 0 {
		filter.Page = r.Page
	}
	if r.PageSize > 0 {
		filter.PageSize = r.PageSize
	}
	if r.OrderBy != "" {
		filter.OrderBy = r.OrderBy
	}
	if r.OrderDir != "" {
		filter.OrderDir = r.OrderDir
	}
	filter.Search = r.Search
	return filter
}

// IDRequest binds a UUID path parameter
type IDRequest struct {
	ID uuid.UUID `uri:"id" binding:"required"`
}
