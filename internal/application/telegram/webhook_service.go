package telegram

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/datamaq/notifier/internal/domain/shared"
	telegramdomain "github.com/datamaq/notifier/internal/domain/telegram"
	"github.com/datamaq/notifier/internal/infrastructure/logger"
)

// ChatStateStore is the durable single-slot store for the last known chat id
type ChatStateStore interface {
	Get() (int64, bool)
	Set(chatID int64)
}

// WebhookService processes inbound Telegram updates: it validates the shared
// secret, extracts the chat id when one is present, and records it.
type WebhookService struct {
	store            ChatStateStore
	expectedSecret   string
	logger           *zap.Logger
	maskSensitiveIDs bool
}

// NewWebhookService creates the service. An empty expectedSecret disables
// secret validation.
func NewWebhookService(store ChatStateStore, expectedSecret string, log *zap.Logger, maskSensitiveIDs bool) *WebhookService {
	return &WebhookService{
		store:            store,
		expectedSecret:   expectedSecret,
		logger:           log,
		maskSensitiveIDs: maskSensitiveIDs,
	}
}

// Process handles one webhook invocation. It returns the captured chat id (if
// any); "no chat id found" is a normal outcome, not an error. The only error
// is shared.ErrInvalidSecret, returned before any state mutation.
func (s *WebhookService) Process(update map[string]any, providedSecret, requestID string) (int64, bool, error) {
	s.logger.Info("telegram_webhook_received",
		zap.String("request_id", requestID),
		zap.Any("update_id", update["update_id"]),
		zap.Bool("has_secret_header", providedSecret != ""),
	)

	if s.expectedSecret != "" && providedSecret != s.expectedSecret {
		s.logger.Warn("telegram_webhook_rejected",
			zap.String("request_id", requestID),
			zap.String("reason", "invalid_secret"),
			zap.Bool("has_secret_header", providedSecret != ""),
		)
		return 0, false, shared.ErrInvalidSecret
	}

	chatID, found := telegramdomain.ExtractChatID(update)
	if !found {
		s.logger.Info("telegram_webhook_no_chat_id", zap.String("request_id", requestID))
		return 0, false, nil
	}

	s.store.Set(chatID)
	s.logger.Info("telegram_webhook_chat_captured",
		zap.String("request_id", requestID),
		zap.String("chat_id", s.safeChatID(chatID)),
	)
	return chatID, true, nil
}

// LastChat returns the current stored chat id, if any
func (s *WebhookService) LastChat() (int64, bool) {
	chatID, ok := s.store.Get()
	s.logger.Info("last_chat_id queried", zap.Bool("present", ok))
	return chatID, ok
}

func (s *WebhookService) safeChatID(chatID int64) string {
	if !s.maskSensitiveIDs {
		return strconv.FormatInt(chatID, 10)
	}
	return logger.MaskIdentifier(chatID, 2, 2)
}
