package service

import (
	"context"
	"fmt"
	"maps"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/store"
	"github.com/MKhiriev/go-case-sync/models"
)

type hydrator struct {
	resolver NaturalKeyResolver
	objects  store.ObjectRepository
	keys     *objectLocks

	logger *logger.Logger
}

func NewHydrator(resolver NaturalKeyResolver, objects store.ObjectRepository, logger *logger.Logger) Hydrator {
	return &hydrator{
		resolver: resolver,
		objects:  objects,
		keys:     newObjectLocks(),
		logger:   logger,
	}
}

func (h *hydrator) Hydrate(ctx context.Context, mappedFields map[string]any, schemaRef, identifierField string) (models.Object, error) {
	unlock := h.Lock(schemaRef, identifierField, mappedFields[identifierField])
	defer unlock()

	obj, found, err := h.Prepare(ctx, mappedFields, schemaRef, identifierField)
	if err != nil {
		return models.Object{}, err
	}

	saved, err := h.objects.SaveObject(ctx, obj)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "hydrator.Hydrate").
			Str("object_id", obj.ID).
			Bool("existing", found).
			Msg("error persisting hydrated object")
		return models.Object{}, fmt.Errorf("error persisting hydrated object: %w", err)
	}

	return saved, nil
}

func (h *hydrator) Prepare(ctx context.Context, mappedFields map[string]any, schemaRef, identifierField string) (models.Object, bool, error) {
	key, ok := mappedFields[identifierField]
	if !ok || isEmptyValue(key) {
		return models.Object{}, false, fmt.Errorf("%w: mapped fields have no %q", ErrInvalidDataProvided, identifierField)
	}

	obj, found, err := h.resolver.Resolve(ctx, schemaRef, identifierField, key)
	if err != nil {
		return models.Object{}, false, err
	}

	return Merge(obj, mappedFields), found, nil
}

// Lock serializes resolve-and-save for one natural key. A key seen for the
// first time has no object id yet, so the id cannot be the lock key.
func (h *hydrator) Lock(schemaRef, identifierField string, key any) func() {
	if isEmptyValue(key) {
		return func() {}
	}
	return h.keys.lock(naturalKey(schemaRef, identifierField, key))
}

func naturalKey(schemaRef, identifierField string, key any) string {
	return fmt.Sprintf("%s\x00%s\x00%v", schemaRef, identifierField, key)
}

// Merge returns obj with fields written over its data. Keys are replaced
// as a whole; nested structures are never merged. obj is not modified.
func Merge(obj models.Object, fields map[string]any) models.Object {
	data := make(map[string]any, len(obj.Data)+len(fields))
	maps.Copy(data, obj.Data)
	maps.Copy(data, fields)
	obj.Data = data
	return obj
}
