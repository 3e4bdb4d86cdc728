// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/utils"
	"github.com/MKhiriev/go-case-sync/models"
)

// execer is the subset of *sql.DB and *sql.Tx used by writes.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// synchronizationRepository is the SQL implementation of
// [SynchronizationRepository] over the "synchronizations" table.
type synchronizationRepository struct {
	*DB
	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

// NewSynchronizationRepository constructs a [SynchronizationRepository]
// backed by db.
func NewSynchronizationRepository(db *DB, logger *logger.Logger) SynchronizationRepository {
	return newSynchronizationRepository(db, logger)
}

func newSynchronizationRepository(db *DB, logger *logger.Logger) *synchronizationRepository {
	return &synchronizationRepository{
		DB:     db,
		ids:    utils.NewUUIDGenerator(),
		logger: logger,
	}
}

// FindSynchronization returns the record of (objectID, sourceID).
func (r *synchronizationRepository) FindSynchronization(ctx context.Context, objectID, sourceID string) (models.Synchronization, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, r.rebind(selectSynchronization), objectID, sourceID)
	sync, err := scanSynchronization(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Synchronization{}, fmt.Errorf("%w: object %s, source %s", ErrSynchronizationNotFound, objectID, sourceID)
	}
	if err != nil {
		log.Err(err).
			Str("func", "synchronizationRepository.FindSynchronization").
			Str("object_id", objectID).
			Str("source_id", sourceID).
			Msg("failed to read synchronization")
		return models.Synchronization{}, err
	}

	return sync, nil
}

// ListSynchronizations returns the records of objectID ordered by source.
func (r *synchronizationRepository) ListSynchronizations(ctx context.Context, objectID string) ([]models.Synchronization, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, r.rebind(listSynchronizations), objectID)
	if err != nil {
		log.Err(err).
			Str("func", "synchronizationRepository.ListSynchronizations").
			Str("object_id", objectID).
			Msg("failed to execute query for listing synchronizations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	syncs := make([]models.Synchronization, 0)
	for rows.Next() {
		sync, scanErr := scanSynchronization(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "synchronizationRepository.ListSynchronizations").
				Str("object_id", objectID).
				Msg("failed to scan synchronization row")
			return nil, scanErr
		}
		syncs = append(syncs, sync)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return syncs, nil
}

// saveSynchronization updates the record by id and falls back to an insert
// when no row was touched. An insert colliding with the (object, source)
// constraint yields [ErrSynchronizationExists].
func (r *synchronizationRepository) saveSynchronization(ctx context.Context, exec execer, sync models.Synchronization) (models.Synchronization, error) {
	log := logger.FromContext(ctx)

	if sync.ID != "" {
		res, err := exec.ExecContext(ctx, r.rebind(updateSynchronization),
			sync.Entity,
			r.nullTimeArg(sync.LastSynced),
			r.nullTimeArg(sync.SourceLastChanged),
			r.nullTimeArg(sync.LastChecked),
			sync.Hash,
			sync.ID,
		)
		if err != nil {
			log.Err(err).
				Str("func", "synchronizationRepository.saveSynchronization").
				Str("synchronization_id", sync.ID).
				Msg("failed to update synchronization")
			return models.Synchronization{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if affected, err := res.RowsAffected(); err == nil && affected > 0 {
			return sync, nil
		}
	} else {
		sync.ID = r.ids.Generate()
	}

	_, err := exec.ExecContext(ctx, r.rebind(insertSynchronization),
		sync.ID,
		sync.SourceID,
		sync.ObjectID,
		sync.Entity,
		r.nullTimeArg(sync.LastSynced),
		r.nullTimeArg(sync.SourceLastChanged),
		r.nullTimeArg(sync.LastChecked),
		sync.Hash,
	)
	if err != nil {
		if r.classify(err) == UniqueViolation {
			log.Error().
				Str("func", "synchronizationRepository.saveSynchronization").
				Str("object_id", sync.ObjectID).
				Str("source_id", sync.SourceID).
				Msg("synchronization already exists")
			return models.Synchronization{}, fmt.Errorf("%w: object %s, source %s", ErrSynchronizationExists, sync.ObjectID, sync.SourceID)
		}
		log.Err(err).
			Str("func", "synchronizationRepository.saveSynchronization").
			Str("object_id", sync.ObjectID).
			Str("source_id", sync.SourceID).
			Msg("failed to insert synchronization")
		return models.Synchronization{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return sync, nil
}

func scanSynchronization(row rowScanner) (models.Synchronization, error) {
	var (
		sync              models.Synchronization
		lastSynced        dbTime
		sourceLastChanged dbTime
		lastChecked       dbTime
	)

	err := row.Scan(
		&sync.ID,
		&sync.SourceID,
		&sync.ObjectID,
		&sync.Entity,
		&lastSynced,
		&sourceLastChanged,
		&lastChecked,
		&sync.Hash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Synchronization{}, err
		}
		return models.Synchronization{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	sync.LastSynced = lastSynced.ptr()
	sync.SourceLastChanged = sourceLastChanged.ptr()
	sync.LastChecked = lastChecked.ptr()

	return sync, nil
}
