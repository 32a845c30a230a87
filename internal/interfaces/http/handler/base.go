package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/datamaq/notifier/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}
