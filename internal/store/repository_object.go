// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/models"
)

// objectRepository is the SQL implementation of [ObjectRepository] over the
// "objects" table. Writes that include a synchronization record share a
// transaction with [synchronizationRepository].
type objectRepository struct {
	*DB
	syncs  *synchronizationRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewObjectRepository constructs an [ObjectRepository] backed by db.
func NewObjectRepository(db *DB, logger *logger.Logger) ObjectRepository {
	return newObjectRepository(db, logger)
}

func newObjectRepository(db *DB, logger *logger.Logger) *objectRepository {
	return &objectRepository{
		DB:     db,
		syncs:  newSynchronizationRepository(db, logger),
		logger: logger,
		now:    time.Now,
	}
}

// pageCapacity bounds the result slice by the page size, not the full count.
func pageCapacity(total int, limit uint64) int {
	if limit > 0 && uint64(total) > limit {
		return int(limit)
	}
	return total
}

// GetObject returns the object stored under id, with its synchronization
// records loaded.
func (r *objectRepository) GetObject(ctx context.Context, id string) (models.Object, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, r.rebind(selectObjectByID), id)
	obj, err := scanObject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Object{}, fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	if err != nil {
		log.Err(err).
			Str("func", "objectRepository.GetObject").
			Str("object_id", id).
			Msg("failed to read object")
		return models.Object{}, err
	}

	syncs, err := r.syncs.ListSynchronizations(ctx, id)
	if err != nil {
		return models.Object{}, err
	}
	obj.Synchronizations = syncs

	return obj, nil
}

// FindObjects runs the search described by filter.
func (r *objectRepository) FindObjects(ctx context.Context, filter models.Filter) (models.SearchResult, error) {
	log := logger.FromContext(ctx)

	pageBuilder, countBuilder, err := r.buildSearchQueries(filter)
	if err != nil {
		log.Err(err).
			Str("func", "objectRepository.FindObjects").
			Strs("schema_refs", filter.SchemaRefs).
			Msg("failed to translate filter")
		return models.SearchResult{}, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return models.SearchResult{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	pageQuery, pageArgs, err := pageBuilder.ToSql()
	if err != nil {
		return models.SearchResult{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).
			Str("func", "objectRepository.FindObjects").
			Str("query", countQuery).
			Msg("failed to count objects")
		return models.SearchResult{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		log.Err(err).
			Str("func", "objectRepository.FindObjects").
			Str("query", pageQuery).
			Msg("failed to execute search query")
		return models.SearchResult{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Object, 0, pageCapacity(total, filter.Limit))
	for rows.Next() {
		obj, scanErr := scanObject(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "objectRepository.FindObjects").
				Msg("failed to scan object row")
			return models.SearchResult{}, scanErr
		}
		results = append(results, obj)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "objectRepository.FindObjects").
			Msg("error occurred during rows iteration")
		return models.SearchResult{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	log.Debug().
		Str("func", "objectRepository.FindObjects").
		Int("total", total).
		Int("returned", len(results)).
		Msg("objects found")

	return models.SearchResult{Results: results, Total: total}, nil
}

// SaveObject upserts obj. CreatedAt defaults to now for new objects and
// UpdatedAt is always set to now.
func (r *objectRepository) SaveObject(ctx context.Context, obj models.Object) (models.Object, error) {
	obj = r.stamp(obj)

	err := r.inTx(ctx, "objectRepository.SaveObject", func(tx *sql.Tx) error {
		return r.upsertObject(ctx, tx, obj)
	})
	if err != nil {
		return models.Object{}, err
	}

	return obj, nil
}

// SaveObjectWithSynchronization upserts obj and inserts or updates sync in
// one transaction. sync.ObjectID is forced to obj.ID.
func (r *objectRepository) SaveObjectWithSynchronization(ctx context.Context, obj models.Object, sync models.Synchronization) (models.Object, models.Synchronization, error) {
	obj = r.stamp(obj)
	sync.ObjectID = obj.ID

	err := r.inTx(ctx, "objectRepository.SaveObjectWithSynchronization", func(tx *sql.Tx) error {
		if err := r.upsertObject(ctx, tx, obj); err != nil {
			return err
		}

		saved, err := r.syncs.saveSynchronization(ctx, tx, sync)
		if err != nil {
			return err
		}
		sync = saved
		return nil
	})
	if err != nil {
		return models.Object{}, models.Synchronization{}, err
	}

	obj.Synchronizations = upsertSynchronization(obj.Synchronizations, sync)
	return obj, sync, nil
}

func (r *objectRepository) stamp(obj models.Object) models.Object {
	now := r.now().UTC().Truncate(time.Second)
	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = now
	}
	obj.UpdatedAt = now
	if obj.Data == nil {
		obj.Data = map[string]any{}
	}
	return obj
}

func (r *objectRepository) upsertObject(ctx context.Context, tx *sql.Tx, obj models.Object) error {
	log := logger.FromContext(ctx)

	data, err := json.Marshal(obj.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingData, err)
	}

	_, err = tx.ExecContext(ctx, r.rebind(upsertObject),
		obj.ID,
		obj.SchemaRef,
		string(data),
		r.timeArg(obj.CreatedAt),
		r.timeArg(obj.UpdatedAt),
	)
	if err != nil {
		log.Err(err).
			Str("func", "objectRepository.upsertObject").
			Str("object_id", obj.ID).
			Str("schema_ref", obj.SchemaRef).
			Msg("failed to upsert object")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanObject(row rowScanner) (models.Object, error) {
	var (
		obj       models.Object
		data      []byte
		createdAt dbTime
		updatedAt dbTime
	)

	if err := row.Scan(&obj.ID, &obj.SchemaRef, &data, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Object{}, err
		}
		return models.Object{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	obj.Data = map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &obj.Data); err != nil {
			return models.Object{}, fmt.Errorf("%w: %w", ErrEncodingData, err)
		}
	}
	obj.CreatedAt = createdAt.Time
	obj.UpdatedAt = updatedAt.Time

	return obj, nil
}

func upsertSynchronization(list []models.Synchronization, sync models.Synchronization) []models.Synchronization {
	out := make([]models.Synchronization, 0, len(list)+1)
	replaced := false
	for _, s := range list {
		if s.SourceID == sync.SourceID {
			out = append(out, sync)
			replaced = true
			continue
		}
		out = append(out, s)
	}
	if !replaced {
		out = append(out, sync)
	}
	return out
}
