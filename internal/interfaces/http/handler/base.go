package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dawapos/backend/internal/domain/shared"
	"github.com/dawapos/backend/internal/infrastructure/logger"
	"github.com/dawapos/backend/internal/interfaces/http/dto"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.OK(data))
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.OK(data))
}

// respondError translates an error into the API envelope. Domain errors
// carry their own code; anything else is an internal error and only its
// code leaves the process.
func respondError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.HTTPStatusForCode(domainErr.Code)
		c.JSON(status, dto.Err(domainErr.Code, domainErr.Message))
		return
	}

	logger.FromContext(c.Request.Context()).Error("unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.Err(dto.ErrCodeInternal, "an internal error occurred"))
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.Err(dto.ErrCodeValidation, err.Error()))
}
