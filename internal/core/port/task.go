package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/core/domain"
)

// TaskRepository never exposes a task without its owner id in the predicate.
type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (domain.Task, error)
	UpdateByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) (domain.Task, error)
	CompleteByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, completedAt time.Time) (domain.Task, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) error
}

type TaskService interface {
	Create(ctx context.Context, owner domain.Identity, task domain.Task) (domain.Task, error)
	List(ctx context.Context, owner domain.Identity) ([]domain.Task, error)
	Get(ctx context.Context, owner domain.Identity, id uuid.UUID) (domain.Task, error)
	Update(ctx context.Context, owner domain.Identity, id uuid.UUID, patch domain.TaskPatch) (domain.Task, error)
	Complete(ctx context.Context, owner domain.Identity, id uuid.UUID) (domain.Task, error)
	Delete(ctx context.Context, owner domain.Identity, id uuid.UUID) error
}
