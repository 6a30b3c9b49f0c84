package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/port"
	"tasktracker/internal/core/telemetry"
)

// TaskService scopes every operation to the calling identity. A task owned by
// someone else is reported exactly like a missing one.
type TaskService struct {
	repo  port.TaskRepository
	clock port.Clock
	probe port.Telemetry
}

func NewTaskService(repo port.TaskRepository, clock port.Clock, probe port.Telemetry) *TaskService {
	return &TaskService{
		repo:  repo,
		clock: clock,
		probe: telemetry.OrNoOp(probe),
	}
}

func (ts *TaskService) observe(ctx context.Context, operation string, owner domain.Identity, attrs map[string]interface{}) (context.Context, func(error)) {
	start := time.Now()
	userID := owner.UserID.String()
	ctx, span := ts.probe.StartServiceSpan(ctx, "task", operation, userID, attrs)

	return ctx, func(err error) {
		ts.probe.RecordServiceOperation(ctx, "task", operation, userID, time.Since(start), err)
		span.End()
	}
}

func taskError(operation string, id uuid.UUID, err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.NewTaskNotFoundError(id)
	}

	slog.Error("Task#"+operation, "id", id, "error", err)

	return domain.NewInternalError(err)
}

func (ts *TaskService) Create(ctx context.Context, owner domain.Identity, task domain.Task) (created domain.Task, err error) {
	ctx, finish := ts.observe(ctx, "create", owner, map[string]interface{}{"title": task.Title})
	defer func() { finish(err) }()

	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}

	if !task.Priority.IsValid() {
		return domain.Task{}, domain.NewTaskCreationError(fmt.Errorf("invalid priority: %s", task.Priority))
	}

	now := ts.clock.Now()

	newTask := domain.Task{
		ID:          uuid.New(),
		OwnerID:     owner.UserID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Completed:   false,
		CompletedAt: nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err = ts.repo.Create(ctx, newTask)

	if err != nil {
		slog.Error("Task#Create", "title", newTask.Title, "error", err)
		return domain.Task{}, domain.NewTaskCreationError(err)
	}

	slog.Info("Task#Create", "id", created.ID, "owner", owner.UserID)
	ts.probe.RecordBusinessEvent(ctx, "task_created", "task", created.ID.String(), owner.UserID.String(), map[string]interface{}{
		"priority": created.Priority.String(),
	})

	return created, nil
}

func (ts *TaskService) List(ctx context.Context, owner domain.Identity) (tasks []domain.Task, err error) {
	ctx, finish := ts.observe(ctx, "list", owner, nil)
	defer func() { finish(err) }()

	tasks, err = ts.repo.ListByOwner(ctx, owner.UserID)

	if err != nil {
		slog.Error("Task#List", "owner", owner.UserID, "error", err)
		return nil, domain.NewInternalError(err)
	}

	if tasks == nil {
		tasks = make([]domain.Task, 0)
	}

	return tasks, nil
}

func (ts *TaskService) Get(ctx context.Context, owner domain.Identity, id uuid.UUID) (task domain.Task, err error) {
	ctx, finish := ts.observe(ctx, "get", owner, map[string]interface{}{"task.id": id.String()})
	defer func() { finish(err) }()

	task, err = ts.repo.GetByOwner(ctx, owner.UserID, id)

	if err != nil {
		return domain.Task{}, taskError("Get", id, err)
	}

	return task, nil
}

func (ts *TaskService) Update(ctx context.Context, owner domain.Identity, id uuid.UUID, patch domain.TaskPatch) (task domain.Task, err error) {
	if patch.IsEmpty() {
		return ts.Get(ctx, owner, id)
	}

	ctx, finish := ts.observe(ctx, "update", owner, map[string]interface{}{"task.id": id.String()})
	defer func() { finish(err) }()

	if patch.Priority != nil && !patch.Priority.IsValid() {
		return domain.Task{}, domain.NewValidationError(fmt.Sprintf("invalid priority: %s", *patch.Priority))
	}

	task, err = ts.repo.UpdateByOwner(ctx, owner.UserID, id, patch, ts.clock.Now())

	if err != nil {
		return domain.Task{}, taskError("Update", id, err)
	}

	return task, nil
}

// Complete is idempotent: an already completed task comes back unchanged.
func (ts *TaskService) Complete(ctx context.Context, owner domain.Identity, id uuid.UUID) (task domain.Task, err error) {
	ctx, finish := ts.observe(ctx, "complete", owner, map[string]interface{}{"task.id": id.String()})
	defer func() { finish(err) }()

	task, err = ts.repo.CompleteByOwner(ctx, owner.UserID, id, ts.clock.Now())

	if err != nil {
		return domain.Task{}, taskError("Complete", id, err)
	}

	slog.Info("Task#Complete", "id", id, "owner", owner.UserID)
	ts.probe.RecordBusinessEvent(ctx, "task_completed", "task", id.String(), owner.UserID.String(), nil)

	return task, nil
}

func (ts *TaskService) Delete(ctx context.Context, owner domain.Identity, id uuid.UUID) (err error) {
	ctx, finish := ts.observe(ctx, "delete", owner, map[string]interface{}{"task.id": id.String()})
	defer func() { finish(err) }()

	if err = ts.repo.DeleteByOwner(ctx, owner.UserID, id); err != nil {
		return taskError("Delete", id, err)
	}

	ts.probe.RecordBusinessEvent(ctx, "task_deleted", "task", id.String(), owner.UserID.String(), nil)

	return nil
}
