package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	contactapp "github.com/datamaq/notifier/internal/application/contact"
	contactdomain "github.com/datamaq/notifier/internal/domain/contact"
)

func newContactRouter(mail *recordingMail) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := contactapp.NewService(mail, "website", zap.NewNop())
	h := NewContactHandler(svc, nil)
	// Deliver inline so assertions see the relayed message.
	h.deliver = func(msg contactdomain.Message, requestID string) {
		svc.Deliver(msg, requestID)
	}

	router := gin.New()
	h.RegisterRoutes(router.Group(""))
	return router
}

func TestContactSubmit(t *testing.T) {
	t.Run("accepts valid submission with 202", func(t *testing.T) {
		mail := &recordingMail{}
		router := newContactRouter(mail)

		w := performJSON(t, router, "POST", "/contact", map[string]any{
			"name":    "Jane Roe",
			"email":   "jane@example.com",
			"message": "Hola, quiero más información.",
			"meta":    map[string]any{"page": "/pricing"},
		}, nil)

		require.Equal(t, http.StatusAccepted, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "accepted", body["status"])
		assert.NotEmpty(t, body["message"])

		requestID, ok := body["request_id"].(string)
		require.True(t, ok)
		_, err := uuid.Parse(requestID)
		assert.NoError(t, err)

		require.Len(t, mail.delivered, 1)
		assert.Equal(t, "jane@example.com", mail.delivered[0].msg.Email)
		assert.Equal(t, requestID, mail.delivered[0].requestID)
	})

	t.Run("honeypot submission rejected without delivery", func(t *testing.T) {
		mail := &recordingMail{}
		router := newContactRouter(mail)

		w := performJSON(t, router, "POST", "/contact", map[string]any{
			"name":        "Bot",
			"email":       "bot@example.com",
			"message":     "spam",
			"attribution": map[string]string{"website": "https://spam.example"},
		}, nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "BAD_REQUEST")
		assert.Empty(t, mail.delivered)
	})

	t.Run("invalid email rejected with field detail", func(t *testing.T) {
		mail := &recordingMail{}
		router := newContactRouter(mail)

		w := performJSON(t, router, "POST", "/contact", map[string]any{
			"name":    "Jane",
			"email":   "not-an-email",
			"message": "hola",
		}, nil)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
		assert.Contains(t, w.Body.String(), "email")
		assert.Empty(t, mail.delivered)
	})

	t.Run("mail endpoint shares the intake path", func(t *testing.T) {
		mail := &recordingMail{}
		router := newContactRouter(mail)

		w := performJSON(t, router, "POST", "/mail", map[string]any{
			"name":    "Ops",
			"email":   "ops@example.com",
			"message": "reenvío manual",
		}, nil)

		require.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, mail.delivered, 1)
		assert.Equal(t, "Ops", mail.delivered[0].msg.Name)
	})
}
