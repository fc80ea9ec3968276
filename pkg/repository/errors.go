package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUndefinedTableCode = "42P01"

// MapError translates pgx errors to domain errors. pgx.ErrNoRows maps to
// notFoundErr; PostgreSQL undefined-table (42P01), which indicates the
// catalog schema has not been migrated, maps to schemaErr. Other errors are
// returned unchanged.
func MapError(err error, notFoundErr, schemaErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTableCode {
		return schemaErr
	}

	return err
}
