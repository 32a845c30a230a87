package task

import (
	"strings"
	"time"
)

// ExecutionRequest is the input for starting a task. It is consumed once to
// produce exactly one StartedTask.
type ExecutionRequest struct {
	DurationSeconds      float64
	ForceFail            bool
	ModifiedFilesCount   int
	RepositoryName       string
	ExecutionTimeSeconds *float64
	StartDatetime        *time.Time
	EndDatetime          *time.Time
}

// StartedTask is one scheduled unit of work bound to a resolved chat.
// It is immutable after construction and produces exactly one notification.
type StartedTask struct {
	ChatID               int64
	DurationSeconds      float64
	ForceFail            bool
	ModifiedFilesCount   int
	RepositoryName       string // normalized; empty means absent
	ExecutionTimeSeconds *float64
	StartDatetime        *time.Time
	EndDatetime          *time.Time
}

// NormalizeFilesCount clamps a negative modified-file count to zero.
func NormalizeFilesCount(count int) int {
	if count < 0 {
		return 0
	}
	return count
}

// NormalizeRepositoryName trims the repository name; blank becomes absent.
func NormalizeRepositoryName(name string) string {
	return strings.TrimSpace(name)
}

// NewStartedTask builds the immutable task from a normalized request and the
// resolved chat id.
func NewStartedTask(chatID int64, req ExecutionRequest) StartedTask {
	return StartedTask{
		ChatID:               chatID,
		DurationSeconds:      req.DurationSeconds,
		ForceFail:            req.ForceFail,
		ModifiedFilesCount:   NormalizeFilesCount(req.ModifiedFilesCount),
		RepositoryName:       NormalizeRepositoryName(req.RepositoryName),
		ExecutionTimeSeconds: req.ExecutionTimeSeconds,
		StartDatetime:        req.StartDatetime,
		EndDatetime:          req.EndDatetime,
	}
}
