package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/datamaq/notifier/internal/domain/shared"
	taskdomain "github.com/datamaq/notifier/internal/domain/task"
)

// ChatStateStore is the durable single-slot store for the last known chat id
type ChatStateStore interface {
	Get() (int64, bool)
	Set(chatID int64)
}

// Notifier delivers a text notification to a chat. Delivery is best-effort:
// implementations log failures and never surface them.
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string)
}

const defaultRepositoryName = "unknown-repository"

// Service is the task lifecycle manager. Start validates preconditions and
// fails fast inside the request context; RunAndNotify runs out-of-band and
// never fails outward, so every started task yields exactly one notification.
type Service struct {
	store          ChatStateStore
	notifier       Notifier
	logger         *zap.Logger
	repositoryName string
	fallbackChatID *int64

	sleep func(time.Duration)
}

// NewService creates the task service. fallbackChatID may be nil when no
// operator default is configured.
func NewService(store ChatStateStore, notifier Notifier, log *zap.Logger, repositoryName string, fallbackChatID *int64) *Service {
	repositoryName = strings.TrimSpace(repositoryName)
	if repositoryName == "" {
		repositoryName = defaultRepositoryName
	}
	return &Service{
		store:          store,
		notifier:       notifier,
		logger:         log,
		repositoryName: repositoryName,
		fallbackChatID: fallbackChatID,
		sleep:          time.Sleep,
	}
}

// Start normalizes the request, resolves the target chat id, and returns the
// immutable task to be scheduled. When neither a captured chat id nor a
// fallback exists it fails with shared.ErrNoConversation; that is a
// caller-correctable precondition failure, never retried or queued.
func (s *Service) Start(req taskdomain.ExecutionRequest) (taskdomain.StartedTask, error) {
	s.logger.Info("task start requested",
		zap.Float64("duration_seconds", req.DurationSeconds),
		zap.Bool("force_fail", req.ForceFail),
		zap.Int("modified_files_count", taskdomain.NormalizeFilesCount(req.ModifiedFilesCount)),
		zap.String("repository_name", taskdomain.NormalizeRepositoryName(req.RepositoryName)),
	)

	chatID, ok := s.store.Get()
	if !ok {
		if s.fallbackChatID == nil {
			return taskdomain.StartedTask{}, shared.ErrNoConversation
		}
		chatID = *s.fallbackChatID
		s.store.Set(chatID)
		s.logger.Info("using fallback chat id", zap.Int64("chat_id", chatID))
	}

	s.logger.Info("task scheduled", zap.Int64("chat_id", chatID))
	return taskdomain.NewStartedTask(chatID, req), nil
}

// RunAndNotify executes the task body and reports the outcome. It sends
// exactly one notification per invocation: success after the simulated work,
// failure when the task is forced to fail or the body panics. Nothing
// propagates out of this method; a background goroutine has no one to
// propagate to.
func (s *Service) RunAndNotify(ctx context.Context, task taskdomain.StartedTask) {
	s.logger.Info("task started",
		zap.Int64("chat_id", task.ChatID),
		zap.Float64("duration_seconds", task.DurationSeconds),
		zap.Bool("force_fail", task.ForceFail),
	)
	startedAt := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task body panicked", zap.Int64("chat_id", task.ChatID), zap.Any("panic", r))
			s.notify(ctx, task, taskdomain.StatusFailed, time.Since(startedAt).Seconds())
		}
	}()

	s.sleep(time.Duration(task.DurationSeconds * float64(time.Second)))
	s.logger.Info("task finished waiting", zap.Int64("chat_id", task.ChatID))

	if task.ForceFail {
		s.logger.Error("task failed", zap.Int64("chat_id", task.ChatID), zap.String("reason", "forced failure"))
		s.notify(ctx, task, taskdomain.StatusFailed, time.Since(startedAt).Seconds())
		return
	}

	s.notify(ctx, task, taskdomain.StatusCompleted, time.Since(startedAt).Seconds())
}

func (s *Service) notify(ctx context.Context, task taskdomain.StartedTask, status string, measuredSeconds float64) {
	elapsed := taskdomain.ResolveElapsedSeconds(measuredSeconds, task.ExecutionTimeSeconds)
	text := taskdomain.BuildSummary(status, task, elapsed, s.repositoryName)
	s.notifier.SendMessage(ctx, task.ChatID, text)
}
