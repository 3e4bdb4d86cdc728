package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
)

// Storages groups the repositories of the object store into a single value
// that can be passed around the service layer.
type Storages struct {
	// ObjectRepository persists objects and answers discovery searches.
	ObjectRepository ObjectRepository
	// SynchronizationRepository reads and writes synchronization records.
	SynchronizationRepository SynchronizationRepository

	db *DB
}

// NewStorages initialises the storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens a connection for cfg.Dialect (SQLite creates the file when
//     missing).
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs the repositories sharing the connection.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewStorages(ctx context.Context, cfg config.DB, logger *logger.Logger) (*Storages, error) {
	logger.Info().Str("dialect", cfg.Dialect).Msg("creating new storages...")

	db, err := NewConnect(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("%s connection error: %w", cfg.Dialect, err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewStoragesFromDB(db, logger), nil
}

// NewStoragesFromDB wires the repositories to an already migrated
// connection.
func NewStoragesFromDB(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		ObjectRepository:          NewObjectRepository(db, logger),
		SynchronizationRepository: NewSynchronizationRepository(db, logger),
		db:                        db,
	}
}

// Close closes the underlying connection.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
