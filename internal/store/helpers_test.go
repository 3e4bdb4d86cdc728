// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

// newMockDB wraps a sqlmock connection in a DB of the given dialect.
func newMockDB(t *testing.T, dialect string) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	var classifier ErrorClassificator = NewSQLiteErrorClassifier()
	if dialect == config.DialectPostgres {
		classifier = NewPostgresErrorClassifier()
	}

	return &DB{
		DB:                 sqlDB,
		dialect:            dialect,
		errorClassificator: classifier,
		logger:             logger.Nop(),
	}, mock
}

// newSQLiteStorages opens a migrated in-memory SQLite database.
func newSQLiteStorages(t *testing.T) (*Storages, *DB) {
	t.Helper()

	db, err := NewConnectSQLite(testContext(), config.DB{DSN: ":memory:", Dialect: config.DialectSQLite}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	return NewStoragesFromDB(db, logger.Nop()), db
}
