package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	contactapp "github.com/datamaq/notifier/internal/application/contact"
	contactdomain "github.com/datamaq/notifier/internal/domain/contact"
	"github.com/datamaq/notifier/internal/domain/shared"
	"github.com/datamaq/notifier/internal/infrastructure/logger"
	"github.com/datamaq/notifier/internal/interfaces/http/dto"
	"github.com/datamaq/notifier/internal/interfaces/http/middleware"
)

// ContactHandler handles contact form submissions relayed over SMTP
type ContactHandler struct {
	BaseHandler
	contacts  *contactapp.Service
	rateLimit gin.HandlerFunc

	// deliver sends the accepted message in the background. Tests swap
	// it to run synchronously.
	deliver func(msg contactdomain.Message, requestID string)
}

// NewContactHandler creates a new contact handler. rateLimit guards the
// intake routes and may be nil.
func NewContactHandler(contacts *contactapp.Service, rateLimit gin.HandlerFunc) *ContactHandler {
	h := &ContactHandler{contacts: contacts, rateLimit: rateLimit}
	h.deliver = func(msg contactdomain.Message, requestID string) {
		go contacts.Deliver(msg, requestID)
	}
	return h
}

// RegisterRoutes registers contact routes
func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("")
	if h.rateLimit != nil {
		group.Use(h.rateLimit)
	}
	group.POST("/contact", h.Contact)
	group.POST("/mail", h.Mail)
}

// Contact handles POST /contact
func (h *ContactHandler) Contact(c *gin.Context) {
	h.submit(c, "/contact", "Mensaje recibido. Te contactaremos pronto.")
}

// Mail handles POST /mail
func (h *ContactHandler) Mail(c *gin.Context) {
	h.submit(c, "/mail", "Mensaje recibido.")
}

func (h *ContactHandler) submit(c *gin.Context, endpoint, successMessage string) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetGinLogger(c).Warn("contact submission rejected", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, middleware.FormatValidationErrors(err, ""))
		return
	}

	result, err := h.contacts.Submit(req.ToMessage(), c.ClientIP(), endpoint, successMessage)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			h.Error(c, http.StatusBadRequest, domainErr.Code, domainErr.Message)
			return
		}
		h.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to accept submission")
		return
	}

	h.deliver(req.ToMessage(), result.RequestID)

	c.JSON(http.StatusAccepted, dto.AcceptedResponse{
		RequestID: result.RequestID,
		Status:    result.Status,
		Message:   result.Message,
	})
}
