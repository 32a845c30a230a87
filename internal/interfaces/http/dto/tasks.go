package dto

import (
	"time"

	taskdomain "github.com/datamaq/notifier/internal/domain/task"
)

// TaskStartRequest is the request body for POST /tasks/start. Bounds mirror
// the external API contract; only duration_seconds is required.
type TaskStartRequest struct {
	DurationSeconds      *float64   `json:"duration_seconds" binding:"required,gte=0,lte=600"`
	ForceFail            bool       `json:"force_fail"`
	ModifiedFilesCount   int        `json:"modified_files_count" binding:"gte=0,lte=200000"`
	RepositoryName       string     `json:"repository_name" binding:"max=240"`
	ExecutionTimeSeconds *float64   `json:"execution_time_seconds" binding:"omitempty,gte=0,lte=86400"`
	StartDatetime        *time.Time `json:"start_datetime"`
	EndDatetime          *time.Time `json:"end_datetime"`
}

// ToExecutionRequest converts the validated body into the domain request
func (r TaskStartRequest) ToExecutionRequest() taskdomain.ExecutionRequest {
	return taskdomain.ExecutionRequest{
		DurationSeconds:      *r.DurationSeconds,
		ForceFail:            r.ForceFail,
		ModifiedFilesCount:   r.ModifiedFilesCount,
		RepositoryName:       r.RepositoryName,
		ExecutionTimeSeconds: r.ExecutionTimeSeconds,
		StartDatetime:        r.StartDatetime,
		EndDatetime:          r.EndDatetime,
	}
}

// TaskStartedResponse echoes the scheduled task back to the caller
type TaskStartedResponse struct {
	Status               string   `json:"status"`
	ChatID               int64    `json:"chat_id"`
	DurationSeconds      float64  `json:"duration_seconds"`
	ForceFail            bool     `json:"force_fail"`
	ModifiedFilesCount   int      `json:"modified_files_count"`
	RepositoryName       *string  `json:"repository_name"`
	ExecutionTimeSeconds *float64 `json:"execution_time_seconds"`
	StartDatetime        *string  `json:"start_datetime"`
	EndDatetime          *string  `json:"end_datetime"`
}

// NewTaskStartedResponse presents a StartedTask
func NewTaskStartedResponse(t taskdomain.StartedTask) TaskStartedResponse {
	resp := TaskStartedResponse{
		Status:               "started",
		ChatID:               t.ChatID,
		DurationSeconds:      t.DurationSeconds,
		ForceFail:            t.ForceFail,
		ModifiedFilesCount:   t.ModifiedFilesCount,
		ExecutionTimeSeconds: t.ExecutionTimeSeconds,
	}
	if t.RepositoryName != "" {
		name := t.RepositoryName
		resp.RepositoryName = &name
	}
	if t.StartDatetime != nil {
		formatted := taskdomain.FormatUTC(*t.StartDatetime)
		resp.StartDatetime = &formatted
	}
	if t.EndDatetime != nil {
		formatted := taskdomain.FormatUTC(*t.EndDatetime)
		resp.EndDatetime = &formatted
	}
	return resp
}
