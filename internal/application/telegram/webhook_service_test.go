package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/datamaq/notifier/internal/domain/shared"
)

type memoryStore struct {
	chatID *int64
	sets   int
}

func (m *memoryStore) Get() (int64, bool) {
	if m.chatID == nil {
		return 0, false
	}
	return *m.chatID, true
}

func (m *memoryStore) Set(chatID int64) {
	m.chatID = &chatID
	m.sets++
}

func messageUpdate(id float64) map[string]any {
	return map[string]any{
		"update_id": float64(1),
		"message":   map[string]any{"chat": map[string]any{"id": id}},
	}
}

func TestProcessCapturesChatID(t *testing.T) {
	store := &memoryStore{}
	svc := NewWebhookService(store, "", zap.NewNop(), true)

	chatID, found, err := svc.Process(messageUpdate(888), "", "req-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(888), chatID)

	stored, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, int64(888), stored)
}

func TestProcessInvalidSecretDoesNotMutate(t *testing.T) {
	store := &memoryStore{}
	svc := NewWebhookService(store, "expected", zap.NewNop(), true)

	_, _, err := svc.Process(messageUpdate(888), "wrong", "req-1")
	assert.ErrorIs(t, err, shared.ErrInvalidSecret)
	assert.Zero(t, store.sets)
}

func TestProcessMatchingSecretProceeds(t *testing.T) {
	store := &memoryStore{}
	svc := NewWebhookService(store, "expected", zap.NewNop(), true)

	chatID, found, err := svc.Process(messageUpdate(42), "expected", "req-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(42), chatID)
}

func TestProcessNoSecretConfiguredAcceptsAnyHeader(t *testing.T) {
	svc := NewWebhookService(&memoryStore{}, "", zap.NewNop(), true)

	_, found, err := svc.Process(messageUpdate(1), "whatever", "req-1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestProcessNoChatIDLeavesStateUntouched(t *testing.T) {
	store := &memoryStore{}
	svc := NewWebhookService(store, "", zap.NewNop(), true)

	_, found, err := svc.Process(map[string]any{"update_id": float64(5)}, "", "req-1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, store.sets)
}

func TestProcessStringChatIDIsAbsent(t *testing.T) {
	store := &memoryStore{}
	svc := NewWebhookService(store, "", zap.NewNop(), true)

	update := map[string]any{"message": map[string]any{"chat": map[string]any{"id": "888"}}}
	_, found, err := svc.Process(update, "", "req-1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, store.sets)
}

func TestLastChat(t *testing.T) {
	store := &memoryStore{}
	svc := NewWebhookService(store, "", zap.NewNop(), true)

	_, ok := svc.LastChat()
	assert.False(t, ok)

	store.Set(999)
	chatID, ok := svc.LastChat()
	assert.True(t, ok)
	assert.Equal(t, int64(999), chatID)
}
