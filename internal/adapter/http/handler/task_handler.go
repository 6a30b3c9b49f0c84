package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"tasktracker/internal/adapter/http/helper"
	"tasktracker/internal/adapter/http/middleware"
	"tasktracker/internal/adapter/http/validation"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/model/request"
	"tasktracker/internal/core/model/response"
	"tasktracker/internal/core/port"
	"tasktracker/pkg/config"
	"tasktracker/pkg/tracing"
)

type TaskHandler struct {
	svc    port.TaskService
	Logger *config.LokiLogger
}

func NewTaskHandler(svc port.TaskService, logger *config.LokiLogger) *TaskHandler {
	if logger == nil {
		logger = config.NewNopLokiLogger()
	}

	return &TaskHandler{
		svc:    svc,
		Logger: logger,
	}
}

// taskID reports a malformed id as not found, same as a task owned by someone else.
func taskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))

	if err != nil {
		helper.SendDomainError(c, domain.NewTaskNotFoundError(uuid.Nil))
		return uuid.Nil, false
	}

	return id, true
}

func owner(c *gin.Context) (domain.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(c)

	if !ok {
		helper.SendDomainError(c, domain.NewAuthenticationError(""))
	}

	return identity, ok
}

func (t *TaskHandler) logFailure(c *gin.Context, msg string, err error) {
	if domain.KindOf(err) != domain.KindInternal {
		return
	}

	t.Logger.ErrorWithTrace(c.Request.Context(), msg, zap.Error(err), zap.String("path", c.FullPath()))
}

func (t *TaskHandler) GetAllTodos(c *gin.Context) {
	ctx, span := tracing.CreateChildSpan(c.Request.Context(), "handler.task.GetAllTodos", []attribute.KeyValue{
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
	defer span.End()

	identity, ok := owner(c)

	if !ok {
		return
	}

	tasks, err := t.svc.List(ctx, identity)

	if err != nil {
		tracing.AddSpanError(span, err)
		t.logFailure(c, "Failed to list todos", err)
		helper.SendDomainError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("todo.count", len(tasks)))

	helper.SendSuccess(c, http.StatusOK, response.NewTaskListResponse(tasks))
}

func (t *TaskHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := owner(c)

	if !ok {
		return
	}

	var params request.TaskRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	if err := validation.Validate(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	priority, err := domain.ParsePriority(params.Priority)

	if err != nil {
		helper.SendDomainError(c, domain.NewTaskCreationError(err))
		return
	}

	task, err := t.svc.Create(ctx, identity, domain.Task{
		Title:       params.Title,
		Description: params.Description,
		Priority:    priority,
	})

	if err != nil {
		t.logFailure(c, "Failed to create todo", err)
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, response.NewTaskResponse(task))
}

func (t *TaskHandler) GetTodo(c *gin.Context) {
	identity, ok := owner(c)

	if !ok {
		return
	}

	id, ok := taskID(c)

	if !ok {
		return
	}

	task, err := t.svc.Get(c.Request.Context(), identity, id)

	if err != nil {
		t.logFailure(c, "Failed to get todo", err)
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, response.NewTaskResponse(task))
}

func (t *TaskHandler) UpdateTodo(c *gin.Context) {
	identity, ok := owner(c)

	if !ok {
		return
	}

	id, ok := taskID(c)

	if !ok {
		return
	}

	var params request.TaskUpdateRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	if err := validation.Validate(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	patch := domain.TaskPatch{
		Title:       params.Title,
		Description: params.Description,
	}

	if params.Priority != nil {
		priority, err := domain.ParsePriority(*params.Priority)

		if err != nil {
			helper.SendValidationError(c, err)
			return
		}

		patch.Priority = &priority
	}

	task, err := t.svc.Update(c.Request.Context(), identity, id, patch)

	if err != nil {
		t.logFailure(c, "Failed to update todo", err)
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, response.NewTaskResponse(task))
}

func (t *TaskHandler) CompleteTodo(c *gin.Context) {
	identity, ok := owner(c)

	if !ok {
		return
	}

	id, ok := taskID(c)

	if !ok {
		return
	}

	task, err := t.svc.Complete(c.Request.Context(), identity, id)

	if err != nil {
		t.logFailure(c, "Failed to complete todo", err)
		helper.SendDomainError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, response.NewTaskResponse(task))
}

func (t *TaskHandler) DeleteTodo(c *gin.Context) {
	identity, ok := owner(c)

	if !ok {
		return
	}

	id, ok := taskID(c)

	if !ok {
		return
	}

	if err := t.svc.Delete(c.Request.Context(), identity, id); err != nil {
		t.logFailure(c, "Failed to delete todo", err)
		helper.SendDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
