package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"tasktracker/internal/adapter/database/sqlite"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/port"
	tel "tasktracker/internal/core/telemetry"
)

var userColumns = []string{"id", "email", "first_name", "last_name", "password_hash", "created_at", "updated_at"}

type UserRepository struct {
	db        *sqlite.DB
	scanner   *sqlite.Scanner
	telemetry port.Telemetry
}

func NewUserRepository(db *sqlite.DB, telemetry port.Telemetry) port.UserRepository {
	return &UserRepository{
		db:        db,
		scanner:   sqlite.NewScanner(),
		telemetry: tel.OrNoOp(telemetry),
	}
}

func (ur *UserRepository) getOne(ctx context.Context, q sqlite.Querier, where sq.Eq) (domain.User, error) {
	stmt, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	rows, err := q.QueryContext(ctx, stmt, args...)

	if err != nil {
		return domain.User{}, err
	}

	defer rows.Close()

	var user domain.User

	if err := ur.scanner.ScanRowToStruct(rows, &user); err != nil {
		return domain.User{}, translate(err)
	}

	return user, nil
}

func (ur *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user domain.User, err error) {
	ctx, done := observe(ctx, ur.telemetry, "GetByID", "user", map[string]interface{}{"user.id": id.String()})
	defer func() { done(err) }()

	return ur.getOne(ctx, ur.db, sq.Eq{"id": id.String()})
}

// GetByEmail matches the stored email exactly.
func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (user domain.User, err error) {
	ctx, done := observe(ctx, ur.telemetry, "GetByEmail", "user", map[string]interface{}{})
	defer func() { done(err) }()

	return ur.getOne(ctx, ur.db, sq.Eq{"email": email})
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (saved domain.User, err error) {
	ctx, done := observe(ctx, ur.telemetry, "Create", "user", map[string]interface{}{"user.id": user.ID.String()})
	defer func() { done(err) }()

	err = ur.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := ur.getOne(ctx, tx, sq.Eq{"email": user.Email}); err == nil {
			return domain.ErrDuplicateRecord
		} else if !errors.Is(err, domain.ErrRecordNotFound) {
			return err
		}

		stmt, args, err := ur.db.QueryBuilder.Insert("users").
			Columns(userColumns...).
			Values(user.ID.String(), user.Email, user.FirstName, user.LastName, user.PasswordHash, user.CreatedAt.UTC(), user.UpdatedAt.UTC()).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return translate(err)
		}

		saved, err = ur.getOne(ctx, tx, sq.Eq{"id": user.ID.String()})

		return err
	})

	if err != nil {
		return domain.User{}, err
	}

	return saved, nil
}

func (ur *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) (saved domain.User, err error) {
	ctx, done := observe(ctx, ur.telemetry, "UpdatePassword", "user", map[string]interface{}{"user.id": id.String()})
	defer func() { done(err) }()

	err = ur.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, args, err := ur.db.QueryBuilder.Update("users").
			Set("password_hash", passwordHash).
			Set("updated_at", updatedAt.UTC()).
			Where(sq.Eq{"id": id.String()}).
			ToSql()

		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, stmt, args...)

		if err != nil {
			return err
		}

		if affected, err := result.RowsAffected(); err != nil {
			return err
		} else if affected == 0 {
			return domain.ErrRecordNotFound
		}

		saved, err = ur.getOne(ctx, tx, sq.Eq{"id": id.String()})

		return err
	})

	if err != nil {
		return domain.User{}, err
	}

	return saved, nil
}
