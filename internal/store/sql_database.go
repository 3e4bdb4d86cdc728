// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/migrations"
	"github.com/MKhiriev/go-case-sync/models"
)

// maxTxAttempts bounds the number of times a transaction classified as
// [Retryable] is run.
const maxTxAttempts = 3

// DB wraps a *sql.DB with the dialect specifics shared by the repositories.
type DB struct {
	*sql.DB
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnect opens a connection for the configured dialect.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.Dialect {
	case config.DialectSQLite:
		return NewConnectSQLite(ctx, cfg, log)
	case config.DialectPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, cfg.Dialect)
	}
}

// Dialect returns the SQL dialect of the connection.
func (db *DB) Dialect() string {
	return db.dialect
}

// Migrate applies the embedded migrations of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// placeholder returns the bind-variable format of the dialect.
func (db *DB) placeholder() sq.PlaceholderFormat {
	if db.dialect == config.DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// rebind rewrites the `?` placeholders of a static query for the dialect.
func (db *DB) rebind(query string) string {
	if db.dialect != config.DialectPostgres {
		return query
	}
	rebound, err := sq.Dollar.ReplacePlaceholders(query)
	if err != nil {
		return query
	}
	return rebound
}

// timeArg converts t into the bind value stored in timestamp columns:
// text in [models.TimestampLayout] on SQLite, a UTC time on PostgreSQL.
func (db *DB) timeArg(t time.Time) any {
	if db.dialect == config.DialectPostgres {
		return t.UTC()
	}
	return t.UTC().Format(models.TimestampLayout)
}

func (db *DB) nullTimeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return db.timeArg(*t)
}

// classify delegates to the configured classifier. Connections built without
// one treat every error as [NonRetryable].
func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return NonRetryable
	}
	return db.errorClassificator.Classify(err)
}

// inTx runs fn in a transaction and commits it. A run whose error is
// classified as [Retryable] is repeated up to maxTxAttempts times.
func (db *DB) inTx(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = db.runTx(ctx, funcName, fn)
		if err == nil || db.classify(err) != Retryable || ctx.Err() != nil {
			return err
		}

		log.Warn().
			Err(err).
			Str("func", funcName).
			Int("attempt", attempt).
			Msg("retrying transaction after transient error")
	}

	return err
}

func (db *DB) runTx(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", funcName).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// dbTime scans timestamp columns stored as text (SQLite) or as native
// timestamps (PostgreSQL).
type dbTime struct {
	Time  time.Time
	Valid bool
}

var timestampLayouts = []string{
	models.TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05Z",
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp value of type %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	var errs []error
	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("unparsable timestamp %q: %w", s, errors.Join(errs...))
}

func (t dbTime) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
