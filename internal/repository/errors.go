package repository

import (
	"errors"
	"time"

	pkgerrors "github.com/certiswift/certiswift-api/pkg/errors"
	"github.com/certiswift/certiswift-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories translate
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// translate maps a driver error to an error kind. resource names the record for not-found messages.
func translate(operation, resource string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return pkgerrors.NotFoundError(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return pkgerrors.NotFoundError(resource)
		case pgUniqueViolation:
			return pkgerrors.ConflictError(resource + " already exists")
		case pgCheckViolation, pgNotNullViolation:
			field := pgErr.ColumnName
			if field == "" {
				field = pgErr.ConstraintName
			}
			return pkgerrors.InvalidInputError(field, "rejected by database constraint")
		}
	}

	return pkgerrors.BackendError(operation, err)
}

// observe records the DB client metric. Misses and rejected input are not client failures.
func observe(operation string, start time.Time, err error) {
	if errors.Is(err, pkgerrors.ErrNotFound) ||
		errors.Is(err, pkgerrors.ErrConflict) ||
		errors.Is(err, pkgerrors.ErrInvalidInput) {
		err = nil
	}
	metrics.RecordDBOperation(operation, start, err)
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
