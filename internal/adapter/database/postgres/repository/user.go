package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"

	"tasktracker/internal/adapter/database/postgres"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/port"
	tel "tasktracker/internal/core/telemetry"
)

var userColumns = []string{"id", "email", "first_name", "last_name", "password_hash", "created_at", "updated_at"}

type UserRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *postgres.DB, telemetry port.Telemetry) port.UserRepository {
	return &UserRepository{db: db, telemetry: tel.OrNoOp(telemetry)}
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return domain.User{}, translate(err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()

	return user, nil
}

func (ur *UserRepository) getOne(ctx context.Context, q postgres.Querier, where sq.Eq) (domain.User, error) {
	stmt, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return scanUser(q.QueryRow(ctx, stmt, args...))
}

func (ur *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user domain.User, err error) {
	ctx, done := observe(ctx, ur.telemetry, "GetByID", "user", "users", "SELECT", attribute.String("user.id", id.String()))
	defer func() { done(err) }()

	return ur.getOne(ctx, ur.db, sq.Eq{"id": id})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (user domain.User, err error) {
	ctx, done := observe(ctx, ur.telemetry, "GetByEmail", "user", "users", "SELECT")
	defer func() { done(err) }()

	return ur.getOne(ctx, ur.db, sq.Eq{"email": email})
}

// Create relies on the unique constraint for a concurrent insert of the same email.
func (ur *UserRepository) Create(ctx context.Context, user domain.User) (saved domain.User, err error) {
	ctx, done := observe(ctx, ur.telemetry, "Create", "user", "users", "INSERT", attribute.String("user.id", user.ID.String()))
	defer func() { done(err) }()

	stmt, args, err := ur.db.QueryBuilder.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Email, user.FirstName, user.LastName, user.PasswordHash, user.CreatedAt.UTC(), user.UpdatedAt.UTC()).
		Suffix("RETURNING id, email, first_name, last_name, password_hash, created_at, updated_at").
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return scanUser(ur.db.QueryRow(ctx, stmt, args...))
}

func (ur *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) (saved domain.User, err error) {
	ctx, done := observe(ctx, ur.telemetry, "UpdatePassword", "user", "users", "UPDATE", attribute.String("user.id", id.String()))
	defer func() { done(err) }()

	stmt, args, err := ur.db.QueryBuilder.Update("users").
		Set("password_hash", passwordHash).
		Set("updated_at", updatedAt.UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, email, first_name, last_name, password_hash, created_at, updated_at").
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return scanUser(ur.db.QueryRow(ctx, stmt, args...))
}
