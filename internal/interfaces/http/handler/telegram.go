package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	telegramapp "github.com/datamaq/notifier/internal/application/telegram"
	"github.com/datamaq/notifier/internal/domain/shared"
	"github.com/datamaq/notifier/internal/infrastructure/logger"
	"github.com/datamaq/notifier/internal/interfaces/http/dto"
)

// TelegramHandler handles Telegram webhook ingestion and conversation lookup
type TelegramHandler struct {
	BaseHandler
	webhooks    *telegramapp.WebhookService
	webhookPath string
}

// NewTelegramHandler creates a new Telegram handler. webhookPath is the
// route the webhook is mounted at, normally /telegram/webhook.
func NewTelegramHandler(webhooks *telegramapp.WebhookService, webhookPath string) *TelegramHandler {
	if webhookPath == "" {
		webhookPath = "/telegram/webhook"
	}
	return &TelegramHandler{webhooks: webhooks, webhookPath: webhookPath}
}

// RegisterRoutes registers telegram routes
func (h *TelegramHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST(h.webhookPath, h.Webhook)
	rg.GET("/telegram/last_chat", h.LastChat)
}

// Webhook handles POST /telegram/webhook
func (h *TelegramHandler) Webhook(c *gin.Context) {
	var update map[string]any
	if err := c.ShouldBindJSON(&update); err != nil {
		logger.GetGinLogger(c).Warn("webhook body rejected", zap.Error(err))
		h.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Request body must be a JSON object")
		return
	}

	secret := c.GetHeader("X-Telegram-Bot-Api-Secret-Token")
	chatID, found, err := h.webhooks.Process(update, secret, getRequestID(c))
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "INVALID_SECRET" {
			h.Error(c, http.StatusForbidden, domainErr.Code, domainErr.Message)
			return
		}
		h.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process update")
		return
	}

	c.JSON(http.StatusOK, dto.NewWebhookAck(chatID, found))
}

// LastChat handles GET /telegram/last_chat
func (h *TelegramHandler) LastChat(c *gin.Context) {
	chatID, found := h.webhooks.LastChat()
	c.JSON(http.StatusOK, dto.NewLastChatResponse(chatID, found))
}
