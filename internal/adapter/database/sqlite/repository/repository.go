package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tasktracker/internal/adapter/database/sqlite"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/port"
)

// observe opens a repository span and returns the func that closes it with the outcome.
func observe(ctx context.Context, probe port.Telemetry, operation string, entity string, attrs map[string]interface{}) (context.Context, func(error)) {
	start := time.Now()
	attrs["db.system"] = "sqlite"

	ctx, span := probe.StartRepositorySpan(ctx, operation, entity, attrs)

	return ctx, func(err error) {
		// a missing row is an expected outcome, not a fault
		if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
			span.SetStatus("error", err.Error())
			span.RecordError(err)
			probe.RecordRepositoryOperation(ctx, operation, entity, time.Since(start), err)
		} else {
			span.SetStatus("ok", "")
			probe.RecordRepositoryOperation(ctx, operation, entity, time.Since(start), nil)
		}

		span.End()
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrRecordNotFound
	case sqlite.IsUniqueViolation(err):
		return domain.ErrDuplicateRecord
	default:
		return err
	}
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}

	return t.UTC()
}
