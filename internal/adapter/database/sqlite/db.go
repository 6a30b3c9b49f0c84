package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	sqlitedriver "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"tasktracker/internal/adapter/database/sqlite/migrations"
)

const MemoryPath = ":memory:"

type Options struct {
	Path string
	// LogLevel is a zerolog level name; "disabled" silences the SQL log.
	LogLevel string
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

func dsn(path string) string {
	if path == MemoryPath {
		return MemoryPath + "?_foreign_keys=on"
	}

	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path)
}

func Open(opts Options) (*DB, error) {
	if opts.Path == "" {
		opts.Path = "database.db"
	}

	source := dsn(opts.Path)

	tracedDB, err := otelsql.Open("sqlite3", source,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("tasktracker"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.LogLevel))

	if err != nil || opts.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("component", "sqlite").Logger()

	sqlDB := sqldblogger.OpenDriver(source, tracedDB.Driver(), zerologadapter.New(logger))

	// every connection to :memory: is a separate database
	if opts.Path == MemoryPath {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}, nil
}

func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, ".")

	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// WithTx commits when fn returns nil and rolls back otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}

	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func IsUniqueViolation(err error) bool {
	var sqliteErr sqlitedriver.Error

	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlitedriver.ErrConstraint &&
			(sqliteErr.ExtendedCode == sqlitedriver.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlitedriver.ErrConstraintPrimaryKey)
	}

	return false
}
