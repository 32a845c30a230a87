package task

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/datamaq/notifier/internal/domain/shared"
	taskdomain "github.com/datamaq/notifier/internal/domain/task"
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

type recordingNotifier struct {
	chatIDs []int64
	texts   []string
}

func (n *recordingNotifier) SendMessage(_ context.Context, chatID int64, text string) {
	n.chatIDs = append(n.chatIDs, chatID)
	n.texts = append(n.texts, text)
}

func newTestService(store *memoryStore, notifier *recordingNotifier, fallback *int64) *Service {
	svc := NewService(store, notifier, zap.NewNop(), "telegram-task-notifier", fallback)
	svc.sleep = func(time.Duration) {}
	return svc
}

func TestStartWithoutChatOrFallbackFails(t *testing.T) {
	store := &memoryStore{}
	svc := newTestService(store, &recordingNotifier{}, nil)

	_, err := svc.Start(taskdomain.ExecutionRequest{DurationSeconds: 1})
	assert.ErrorIs(t, err, shared.ErrNoConversation)
	assert.Zero(t, store.sets)
}

func TestStartUsesStoredChatID(t *testing.T) {
	store := &memoryStore{}
	store.Set(888)
	store.sets = 0
	svc := newTestService(store, &recordingNotifier{}, nil)

	task, err := svc.Start(taskdomain.ExecutionRequest{DurationSeconds: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(888), task.ChatID)
	assert.Zero(t, store.sets, "stored id must not be rewritten")
}

func TestStartFallbackIsPersisted(t *testing.T) {
	store := &memoryStore{}
	fallback := int64(555)
	svc := newTestService(store, &recordingNotifier{}, &fallback)

	task, err := svc.Start(taskdomain.ExecutionRequest{DurationSeconds: 0, ModifiedFilesCount: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(555), task.ChatID)
	assert.Equal(t, 2, task.ModifiedFilesCount)

	stored, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, int64(555), stored)
}

func TestStartNormalizesMetadata(t *testing.T) {
	store := &memoryStore{}
	store.Set(1)
	svc := newTestService(store, &recordingNotifier{}, nil)

	task, err := svc.Start(taskdomain.ExecutionRequest{
		DurationSeconds:    1,
		ModifiedFilesCount: -10,
		RepositoryName:     "  some-repo  ",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, task.ModifiedFilesCount)
	assert.Equal(t, "some-repo", task.RepositoryName)
}

func TestRunAndNotifySendsExactlyOnceOnSuccess(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(&memoryStore{}, notifier, nil)

	svc.RunAndNotify(context.Background(), taskdomain.StartedTask{ChatID: 888, DurationSeconds: 0})

	require.Len(t, notifier.texts, 1)
	assert.Equal(t, int64(888), notifier.chatIDs[0])
	assert.True(t, strings.HasPrefix(notifier.texts[0], taskdomain.StatusCompleted))
}

func TestRunAndNotifySendsExactlyOnceOnForcedFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(&memoryStore{}, notifier, nil)

	svc.RunAndNotify(context.Background(), taskdomain.StartedTask{
		ChatID:             888,
		ForceFail:          true,
		RepositoryName:     "my-repo",
		ModifiedFilesCount: 4,
	})

	require.Len(t, notifier.texts, 1)
	text := notifier.texts[0]
	assert.True(t, strings.HasPrefix(text, taskdomain.StatusFailed))
	assert.Contains(t, text, "Repositorio: my-repo")
	assert.Contains(t, text, "Archivos modificados: 4")
}

func TestRunAndNotifyUsesProvidedExecutionTime(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(&memoryStore{}, notifier, nil)

	provided := 42.5
	svc.RunAndNotify(context.Background(), taskdomain.StartedTask{
		ChatID:               1,
		ExecutionTimeSeconds: &provided,
		ModifiedFilesCount:   3,
	})

	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "42.50s")
	assert.Contains(t, notifier.texts[0], "Archivos modificados: 3")
}

func TestRunAndNotifyFallsBackToConfiguredRepository(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(&memoryStore{}, notifier, nil)

	svc.RunAndNotify(context.Background(), taskdomain.StartedTask{ChatID: 1})

	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "Repositorio: telegram-task-notifier")
}

func TestRunAndNotifyPanicStillNotifiesOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(&memoryStore{}, notifier, nil)
	svc.sleep = func(time.Duration) { panic("boom") }

	svc.RunAndNotify(context.Background(), taskdomain.StartedTask{ChatID: 7})

	require.Len(t, notifier.texts, 1)
	assert.True(t, strings.HasPrefix(notifier.texts[0], taskdomain.StatusFailed))
}

func TestNewServiceDefaultsRepositoryName(t *testing.T) {
	svc := NewService(&memoryStore{}, &recordingNotifier{}, zap.NewNop(), "   ", nil)
	assert.Equal(t, "unknown-repository", svc.repositoryName)
}
