package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/migrations"
)

const (
	dialectPostgres = "pgx"
	dialectSQLite   = "sqlite3"
)

// DB wraps a database/sql connection together with the backend dialect and
// the error classifier used to decide whether failed operations are worth
// retrying.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	dialect            string
}

// Migrate brings the database schema up to date. The SQLite backend creates
// its schema at connect time, so only the PostgreSQL backend runs the
// embedded goose migrations here.
func (db *DB) Migrate() error {
	if db.dialect == dialectSQLite {
		return nil
	}

	return migrations.Migrate(db.DB)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// retryAttempts bounds how many times a single statement is attempted when
// the backend reports a transient failure.
const retryAttempts = 3

// classify delegates to the backend's error classifier. Backends without one
// (SQLite, test fixtures) treat every failure as non-retryable.
func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return NonRetryable
	}
	return db.errorClassificator.Classify(err)
}

// execRetry runs ExecContext, re-attempting statements that failed with a
// retryable driver error (dropped connection, deadlock rollback).
func (db *DB) execRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var result sql.Result
	var err error

	for attempt := 1; attempt <= retryAttempts; attempt++ {
		result, err = db.ExecContext(ctx, query, args...)
		if err == nil || db.classify(err) == NonRetryable || ctx.Err() != nil {
			return result, err
		}
		db.logger.Warn().Err(err).Int("attempt", attempt).Msg("retryable database error, re-executing statement")
	}

	return result, err
}

// queryRetry runs QueryContext with the same retry policy as execRetry.
func (db *DB) queryRetry(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	var rows *sql.Rows
	var err error

	for attempt := 1; attempt <= retryAttempts; attempt++ {
		rows, err = db.QueryContext(ctx, query, args...)
		if err == nil || db.classify(err) == NonRetryable || ctx.Err() != nil {
			return rows, err
		}
		db.logger.Warn().Err(err).Int("attempt", attempt).Msg("retryable database error, re-running query")
	}

	return rows, err
}

// queryRowRetry runs QueryRowContext, re-issuing the query while the row
// carries a retryable execution error. The returned row is never nil; scan
// errors surface to the caller as usual.
func (db *DB) queryRowRetry(ctx context.Context, query string, args ...any) *sql.Row {
	var row *sql.Row

	for attempt := 1; attempt <= retryAttempts; attempt++ {
		row = db.QueryRowContext(ctx, query, args...)
		err := row.Err()
		if err == nil || db.classify(err) == NonRetryable || ctx.Err() != nil {
			return row
		}
		db.logger.Warn().Err(err).Int("attempt", attempt).Msg("retryable database error, re-running query")
	}

	return row
}
