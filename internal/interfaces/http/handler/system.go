package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datamaq/notifier/internal/interfaces/http/dto"
)

// SystemHandler handles service health endpoints
type SystemHandler struct {
	serviceName string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(serviceName string) *SystemHandler {
	return &SystemHandler{serviceName: serviceName}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Service: h.serviceName,
		Status:  "ok",
	})
}
