package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	contactdomain "github.com/datamaq/notifier/internal/domain/contact"
	"github.com/datamaq/notifier/internal/interfaces/http/middleware"
)

func TestMain(m *testing.M) {
	middleware.SetupValidator()
	os.Exit(m.Run())
}

type memoryStore struct {
	mu     sync.Mutex
	chatID *int64
	sets   int
}

func (m *memoryStore) Get() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.chatID == nil {
		return 0, false
	}
	return *m.chatID, true
}

func (m *memoryStore) Set(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatID = &chatID
	m.sets++
}

type sentMessage struct {
	chatID int64
	text   string
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []sentMessage
}

func (n *recordingNotifier) SendMessage(_ context.Context, chatID int64, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, sentMessage{chatID: chatID, text: text})
}

type deliveredMail struct {
	msg       contactdomain.Message
	requestID string
}

type recordingMail struct {
	mu        sync.Mutex
	delivered []deliveredMail
}

func (m *recordingMail) Deliver(msg contactdomain.Message, requestID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delivered = append(m.delivered, deliveredMail{msg: msg, requestID: requestID})
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func intPtr(v int64) *int64 {
	return &v
}
