package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tasktracker/internal/adapter/database/postgres"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/port"
	tel "tasktracker/internal/core/telemetry"
)

var taskColumns = []string{"id", "owner_id", "title", "description", "priority", "completed", "completed_at", "created_at", "updated_at"}

type TaskRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewTaskRepository(db *postgres.DB, telemetry port.Telemetry) port.TaskRepository {
	return &TaskRepository{db: db, telemetry: tel.OrNoOp(telemetry)}
}

func returning() string {
	return "RETURNING " + strings.Join(taskColumns, ", ")
}

func ownedBy(ownerID uuid.UUID, id uuid.UUID) sq.Eq {
	return sq.Eq{"owner_id": ownerID, "id": id}
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task
	var priority string

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&priority,
		&task.Completed,
		&task.CompletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		return domain.Task{}, translate(err)
	}

	task.Priority = domain.Priority(priority)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	if task.CompletedAt != nil {
		completedAt := task.CompletedAt.UTC()
		task.CompletedAt = &completedAt
	}

	return task, nil
}

func (tr *TaskRepository) getOne(ctx context.Context, q postgres.Querier, ownerID uuid.UUID, id uuid.UUID, forUpdate bool) (domain.Task, error) {
	query := tr.db.QueryBuilder.Select(taskColumns...).
		From("tasks").
		Where(ownedBy(ownerID, id)).
		Limit(1)

	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	return scanTask(q.QueryRow(ctx, stmt, args...))
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (saved domain.Task, err error) {
	ctx, done := observe(ctx, tr.telemetry, "Create", "task", "tasks", "INSERT",
		attribute.String("task.id", task.ID.String()),
		attribute.String("user.id", task.OwnerID.String()),
	)
	defer func() { done(err) }()

	stmt, args, err := tr.db.QueryBuilder.Insert("tasks").
		Columns(taskColumns...).
		Values(
			task.ID,
			task.OwnerID,
			task.Title,
			task.Description,
			task.Priority.String(),
			task.Completed,
			task.CompletedAt,
			task.CreatedAt.UTC(),
			task.UpdatedAt.UTC(),
		).
		Suffix(returning()).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	return scanTask(tr.db.QueryRow(ctx, stmt, args...))
}

func (tr *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) (data []domain.Task, err error) {
	ctx, done := observe(ctx, tr.telemetry, "ListByOwner", "task", "tasks", "SELECT", attribute.String("user.id", ownerID.String()))
	defer func() { done(err) }()

	stmt, args, err := tr.db.QueryBuilder.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.Query(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	data = []domain.Task{}

	for rows.Next() {
		task, err := scanTask(rows)

		if err != nil {
			return nil, err
		}

		data = append(data, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("db.rows_returned", len(data)))

	return data, nil
}

func (tr *TaskRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (task domain.Task, err error) {
	ctx, done := observe(ctx, tr.telemetry, "GetByOwner", "task", "tasks", "SELECT", attribute.String("task.id", id.String()))
	defer func() { done(err) }()

	return tr.getOne(ctx, tr.db, ownerID, id, false)
}

func (tr *TaskRepository) UpdateByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) (saved domain.Task, err error) {
	ctx, done := observe(ctx, tr.telemetry, "UpdateByOwner", "task", "tasks", "UPDATE", attribute.String("task.id", id.String()))
	defer func() { done(err) }()

	fields := patch.ToMap()
	fields["updated_at"] = updatedAt.UTC()

	stmt, args, err := tr.db.QueryBuilder.Update("tasks").
		SetMap(fields).
		Where(ownedBy(ownerID, id)).
		Suffix(returning()).
		ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	return scanTask(tr.db.QueryRow(ctx, stmt, args...))
}

// CompleteByOwner locks the row so concurrent completions observe a single completed_at.
func (tr *TaskRepository) CompleteByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, completedAt time.Time) (saved domain.Task, err error) {
	ctx, done := observe(ctx, tr.telemetry, "CompleteByOwner", "task", "tasks", "UPDATE", attribute.String("task.id", id.String()))
	defer func() { done(err) }()

	err = tr.db.WithTx(ctx, func(tx pgx.Tx) error {
		current, err := tr.getOne(ctx, tx, ownerID, id, true)

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
			Suffix(returning()).
			ToSql()

		if err != nil {
			return err
		}

		saved, err = scanTask(tx.QueryRow(ctx, stmt, args...))

		return err
	})

	if err != nil {
		return domain.Task{}, err
	}

	return saved, nil
}

func (tr *TaskRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (err error) {
	ctx, done := observe(ctx, tr.telemetry, "DeleteByOwner", "task", "tasks", "DELETE", attribute.String("task.id", id.String()))
	defer func() { done(err) }()

	stmt, args, err := tr.db.QueryBuilder.Delete("tasks").
		Where(ownedBy(ownerID, id)).
		ToSql()

	if err != nil {
		return err
	}

	tag, err := tr.db.Exec(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
