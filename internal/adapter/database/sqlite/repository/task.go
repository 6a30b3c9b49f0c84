package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"tasktracker/internal/adapter/database/sqlite"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/port"
	tel "tasktracker/internal/core/telemetry"
)

var taskColumns = []string{"id", "owner_id", "title", "description", "priority", "completed", "completed_at", "created_at", "updated_at"}

// TaskRepository filters every statement by owner_id, so a foreign task is
// indistinguishable from a missing one.
type TaskRepository struct {
	db        *sqlite.DB
	scanner   *sqlite.Scanner
	telemetry port.Telemetry
}

func NewTaskRepository(db *sqlite.DB, telemetry port.Telemetry) port.TaskRepository {
	return &TaskRepository{
		db:        db,
		scanner:   sqlite.NewScanner(),
		telemetry: tel.OrNoOp(telemetry),
	}
}

func ownedBy(ownerID uuid.UUID, id uuid.UUID) sq.Eq {
	return sq.Eq{"owner_id": ownerID.String(), "id": id.String()}
}

func (tr *TaskRepository) getOne(ctx context.Context, q sqlite.Querier, ownerID uuid.UUID, id uuid.UUID) (domain.Task, error) {
	stmt, args, err := tr.db.QueryBuilder.Select(taskColumns...).
		From("tasks").
		Where(ownedBy(ownerID, id)).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	rows, err := q.QueryContext(ctx, stmt, args...)

	if err != nil {
		return domain.Task{}, err
	}

	defer rows.Close()

	var task domain.Task

	if err := tr.scanner.ScanRowToStruct(rows, &task); err != nil {
		return domain.Task{}, translate(err)
	}

	return task, nil
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (saved domain.Task, err error) {
	ctx, done := observe(ctx, tr.telemetry, "Create", "task", map[string]interface{}{
		"db.operation": "INSERT",
		"task.id":      task.ID.String(),
		"user.id":      task.OwnerID.String(),
	})
	defer func() { done(err) }()

	err = tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, args, err := tr.db.QueryBuilder.Insert("tasks").
			Columns(taskColumns...).
			Values(
				task.ID.String(),
				task.OwnerID.String(),
				task.Title,
				task.Description,
				task.Priority.String(),
				task.Completed,
				nullableTime(task.CompletedAt),
				task.CreatedAt.UTC(),
				task.UpdatedAt.UTC(),
			).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return translate(err)
		}

		saved, err = tr.getOne(ctx, tx, task.OwnerID, task.ID)

		return err
	})

	if err != nil {
		return domain.Task{}, err
	}

	return saved, nil
}

func (tr *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) (tasks []domain.Task, err error) {
	ctx, done := observe(ctx, tr.telemetry, "ListByOwner", "task", map[string]interface{}{
		"db.operation": "SELECT",
		"user.id":      ownerID.String(),
	})
	defer func() { done(err) }()

	stmt, args, err := tr.db.QueryBuilder.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"owner_id": ownerID.String()}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	tasks = make([]domain.Task, 0)

	if err := tr.scanner.ScanRowsToSlice(rows, &tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (tr *TaskRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (task domain.Task, err error) {
	ctx, done := observe(ctx, tr.telemetry, "GetByOwner", "task", map[string]interface{}{
		"db.operation": "SELECT",
		"task.id":      id.String(),
		"user.id":      ownerID.String(),
	})
	defer func() { done(err) }()

	return tr.getOne(ctx, tr.db, ownerID, id)
}

func (tr *TaskRepository) UpdateByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) (saved domain.Task, err error) {
	ctx, done := observe(ctx, tr.telemetry, "UpdateByOwner", "task", map[string]interface{}{
		"db.operation": "UPDATE",
		"task.id":      id.String(),
		"user.id":      ownerID.String(),
	})
	defer func() { done(err) }()

	fields := patch.ToMap()
	fields["updated_at"] = updatedAt.UTC()

	err = tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, args, err := tr.db.QueryBuilder.Update("tasks").
			SetMap(fields).
			Where(ownedBy(ownerID, id)).
			ToSql()

		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, stmt, args...)

		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()

		if err != nil {
			return err
		}

		if affected == 0 {
			return domain.ErrRecordNotFound
		}

		saved, err = tr.getOne(ctx, tx, ownerID, id)

		return err
	})

	if err != nil {
		return domain.Task{}, err
	}

	return saved, nil
}

// CompleteByOwner sets completed_at once. A second call returns the stored task untouched.
func (tr *TaskRepository) CompleteByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, completedAt time.Time) (saved domain.Task, err error) {
	ctx, done := observe(ctx, tr.telemetry, "CompleteByOwner", "task", map[string]interface{}{
		"db.operation": "UPDATE",
		"task.id":      id.String(),
		"user.id":      ownerID.String(),
	})
	defer func() { done(err) }()

	err = tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		current, err := tr.getOne(ctx, tx, ownerID, id)

		if err != nil {
			return err
		}

		if current.IsCompleted() {
			saved = current
			return nil
		}

		stmt, args, err := tr.db.QueryBuilder.Update("tasks").
			Set("completed", true).
			Set("completed_at", completedAt.UTC()).
			Set("updated_at", completedAt.UTC()).
			Where(ownedBy(ownerID, id)).
			Where(sq.Eq{"completed": false}).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return err
		}

		saved, err = tr.getOne(ctx, tx, ownerID, id)

		return err
	})

	if err != nil {
		return domain.Task{}, err
	}

	return saved, nil
}

func (tr *TaskRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (err error) {
	ctx, done := observe(ctx, tr.telemetry, "DeleteByOwner", "task", map[string]interface{}{
		"db.operation": "DELETE",
		"task.id":      id.String(),
		"user.id":      ownerID.String(),
	})
	defer func() { done(err) }()

	stmt, args, err := tr.db.QueryBuilder.Delete("tasks").
		Where(ownedBy(ownerID, id)).
		ToSql()

	if err != nil {
		return err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
