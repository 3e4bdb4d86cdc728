package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-case-sync/models"
)

// ObjectRepository persists local objects and answers filtered searches.
type ObjectRepository interface {
	// GetObject returns the object with the given id together with its
	// synchronization records, or [ErrObjectNotFound].
	GetObject(ctx context.Context, id string) (models.Object, error)
	// FindObjects returns the objects matching filter ordered by creation
	// time. Total counts every match regardless of filter.Limit.
	// Synchronizations are not loaded on search results.
	FindObjects(ctx context.Context, filter models.Filter) (models.SearchResult, error)
	// SaveObject inserts or updates obj in one transaction.
	SaveObject(ctx context.Context, obj models.Object) (models.Object, error)
	// SaveObjectWithSynchronization persists obj and sync in one transaction.
	SaveObjectWithSynchronization(ctx context.Context, obj models.Object, sync models.Synchronization) (models.Object, models.Synchronization, error)
}

// SynchronizationRepository reads synchronization records. Records are
// written together with their object through
// ObjectRepository.SaveObjectWithSynchronization.
type SynchronizationRepository interface {
	// FindSynchronization returns the record linking objectID and sourceID,
	// or [ErrSynchronizationNotFound].
	FindSynchronization(ctx context.Context, objectID, sourceID string) (models.Synchronization, error)
	// ListSynchronizations returns every record of objectID.
	ListSynchronizations(ctx context.Context, objectID string) ([]models.Synchronization, error)
}

// ErrorClassification tells the transaction runner what to do with a
// failed statement.
type ErrorClassification int

const (
	// NonRetryable is the default for every error not listed below.
	NonRetryable ErrorClassification = iota
	// Retryable errors are transient: lost connections, deadlocks,
	// serialization failures, busy SQLite files.
	Retryable
	// UniqueViolation is never retried. Repositories map it to a domain
	// sentinel such as [ErrSynchronizationExists].
	UniqueViolation
)

// ErrorClassificator maps driver errors to an [ErrorClassification].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
