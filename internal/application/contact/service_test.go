package contact

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	contactdomain "github.com/datamaq/notifier/internal/domain/contact"
	"github.com/datamaq/notifier/internal/domain/shared"
)

type recordingGateway struct {
	delivered []string
}

func (g *recordingGateway) Deliver(_ contactdomain.Message, requestID string) {
	g.delivered = append(g.delivered, requestID)
}

func TestSubmitAccepted(t *testing.T) {
	svc := NewService(&recordingGateway{}, "website", zap.NewNop())

	msg := contactdomain.Message{Name: "Jane", Email: "jane@example.com", Body: "hola"}
	result, err := svc.Submit(msg, "203.0.113.9", "contact", "Contact request accepted for processing")
	require.NoError(t, err)

	assert.Equal(t, "accepted", result.Status)
	assert.Equal(t, "Contact request accepted for processing", result.Message)
	_, parseErr := uuid.Parse(result.RequestID)
	assert.NoError(t, parseErr)
}

func TestSubmitHoneypotRejected(t *testing.T) {
	gw := &recordingGateway{}
	svc := NewService(gw, "website", zap.NewNop())

	msg := contactdomain.Message{
		Name:        "Bot",
		Email:       "bot@example.com",
		Attribution: map[string]string{"website": "http://spam"},
	}
	_, err := svc.Submit(msg, "203.0.113.9", "contact", "ok")
	assert.ErrorIs(t, err, shared.ErrHoneypot)
	assert.Empty(t, gw.delivered)
}

func TestDeliverForwardsToGateway(t *testing.T) {
	gw := &recordingGateway{}
	svc := NewService(gw, "website", zap.NewNop())

	svc.Deliver(contactdomain.Message{Name: "Jane"}, "req-1")
	assert.Equal(t, []string{"req-1"}, gw.delivered)
}
