package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	taskapp "github.com/datamaq/notifier/internal/application/task"
	"github.com/datamaq/notifier/internal/domain/shared"
	taskdomain "github.com/datamaq/notifier/internal/domain/task"
	"github.com/datamaq/notifier/internal/infrastructure/logger"
	"github.com/datamaq/notifier/internal/interfaces/http/dto"
	"github.com/datamaq/notifier/internal/interfaces/http/middleware"
)

const taskStartHint = `curl -X POST /tasks/start -H 'Content-Type: application/json' -d '{"duration_seconds": 5, "force_fail": false}'`

// TaskHandler handles async task lifecycle requests
type TaskHandler struct {
	BaseHandler
	tasks *taskapp.Service

	// schedule runs the accepted task in the background. Tests swap it
	// to run synchronously.
	schedule func(task taskdomain.StartedTask)
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *taskapp.Service) *TaskHandler {
	h := &TaskHandler{tasks: tasks}
	h.schedule = func(task taskdomain.StartedTask) {
		go tasks.RunAndNotify(context.Background(), task)
	}
	return h
}

// RegisterRoutes registers task routes
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tasks/start", h.Start)
}

// Start handles POST /tasks/start
func (h *TaskHandler) Start(c *gin.Context) {
	var req dto.TaskStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetGinLogger(c).Warn("task start rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(err, taskStartHint))
		return
	}

	task, err := h.tasks.Start(req.ToExecutionRequest())
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			h.Error(c, http.StatusBadRequest, domainErr.Code, domainErr.Message)
			return
		}
		h.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start task")
		return
	}

	h.schedule(task)

	c.JSON(http.StatusOK, dto.NewTaskStartedResponse(task))
}
