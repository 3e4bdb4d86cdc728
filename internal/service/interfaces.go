package service

import (
	"context"

	"github.com/MKhiriev/go-case-sync/models"
)

// NaturalKeyResolver finds local objects by their business identifier.
type NaturalKeyResolver interface {
	// Resolve returns the single object of schemaRef whose identifierField
	// equals businessIdentifier (found=true), or a fresh unpersisted object
	// of schemaRef (found=false). Several matches yield an
	// [*AmbiguousKeyError].
	Resolve(ctx context.Context, schemaRef, identifierField string, businessIdentifier any) (models.Object, bool, error)
}

// Hydrator merges mapped fields into the object identified by their
// natural key.
type Hydrator interface {
	// Hydrate resolves or creates the object, merges mappedFields into it
	// and persists it in one transaction.
	Hydrate(ctx context.Context, mappedFields map[string]any, schemaRef, identifierField string) (models.Object, error)
	// Prepare resolves or creates the object and merges mappedFields into
	// it without persisting. found reports whether the object existed.
	Prepare(ctx context.Context, mappedFields map[string]any, schemaRef, identifierField string) (obj models.Object, found bool, err error)
	// Lock holds the natural key of schemaRef until the returned func is
	// called. Callers pairing Prepare with their own save hold it across
	// both; Hydrate takes it itself.
	Lock(schemaRef, identifierField string, key any) (unlock func())
}

// SyncTracker computes the bookkeeping of a synchronization record.
type SyncTracker interface {
	// Record stamps record after a successful remote exchange. It does not
	// persist the record.
	Record(ctx context.Context, record models.Synchronization, pushedPayload, responseBody map[string]any) (models.Synchronization, error)
	// Hash returns the hex sha384 digest of the canonical JSON of body.
	Hash(body any) (string, error)
}

// DocumentSyncer uploads the documents embedded in a mapped payload.
type DocumentSyncer interface {
	// SyncDocuments uploads every document of documents to endpoint on
	// source. refs holds the remote references of the uploaded documents
	// in input order, failed entries left out; outcomes has one entry per
	// input document.
	SyncDocuments(ctx context.Context, source models.Source, endpoint string, documents []any) (refs []any, outcomes []models.DocumentOutcome)
}

// PassOptions tunes one pass.
type PassOptions struct {
	// Observer receives progress events. Optional.
	Observer models.ProgressObserver
	// Limit bounds the number of discovered candidates. Zero means no limit.
	Limit uint64
}

// SyncService runs synchronization handlers.
type SyncService interface {
	// RunPass runs one pass of the named handler. Candidate failures are
	// reported in the returned report; an error means the pass could not
	// run at all.
	RunPass(ctx context.Context, handlerName string, opts PassOptions) (models.PassReport, error)
	// Consume runs the named handler on one object payload received from
	// the bus.
	Consume(ctx context.Context, handlerName string, payload map[string]any) (models.CandidateOutcome, error)
	// Handlers lists the configured handlers.
	Handlers(ctx context.Context) []models.HandlerConfig
}

// ObjectService exposes local objects and their synchronization state.
type ObjectService interface {
	GetObject(ctx context.Context, id string) (models.Object, error)
	Synchronizations(ctx context.Context, objectID string) ([]models.Synchronization, error)
	// Ingest hydrates fields as an object of schemaRef, using the schema's
	// identifier field as natural key.
	Ingest(ctx context.Context, schemaRef string, fields map[string]any) (models.Object, error)
}

// SchemaService flattens JSON schema fragments.
type SchemaService interface {
	Flatten(ctx context.Context, fragment map[string]any) (map[string]any, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	// GetServerName is the product token sent in the Server header.
	GetServerName(ctx context.Context) string
}

// SyncServiceWrapper defines middleware composition for SyncService.
// Implementations wrap an existing SyncService to add behavior such as
// validating.
type SyncServiceWrapper interface {
	Wrap(SyncService) SyncService
}
