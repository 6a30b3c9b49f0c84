package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"

	"tasktracker/internal/adapter/database/postgres"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/port"
	"tasktracker/pkg/tracing"
)

const dbSystem = "postgresql"

// observe opens a db.<table>.<statement> span and returns the func that
// closes it and reports the call to the repository metrics.
func observe(ctx context.Context, metrics port.Telemetry, operation string, entity string, table string, statement string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()

	ctx, span := tracing.DatabaseSpan(ctx, dbSystem, table, statement, attrs...)

	return ctx, func(err error) {
		// a missing row is an expected outcome, not a fault
		if errors.Is(err, domain.ErrRecordNotFound) {
			err = nil
		}

		if err != nil {
			tracing.AddSpanError(span, err)
		}

		metrics.RecordRepositoryOperation(ctx, operation, entity, time.Since(start), err)
		span.End()
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrRecordNotFound
	case postgres.IsUniqueViolation(err):
		return domain.ErrDuplicateRecord
	default:
		return err
	}
}
