package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dawapos/backend/internal/infrastructure/logger"
)

// RequestIDHeader is the header carrying the request correlation ID
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a correlation ID to every request, honoring one
// supplied by the caller, and enriches the request logger with it.
func RequestID(baseLogger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx, reqLogger := logger.WithRequestID(c.Request.Context(), baseLogger, requestID)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, reqLogger))
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
