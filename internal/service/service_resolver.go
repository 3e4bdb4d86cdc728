package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/store"
	"github.com/MKhiriev/go-case-sync/internal/utils"
	"github.com/MKhiriev/go-case-sync/models"
)

type naturalKeyResolver struct {
	objects store.ObjectRepository
	ids     *utils.UUIDGenerator

	logger *logger.Logger
}

func NewNaturalKeyResolver(objects store.ObjectRepository, logger *logger.Logger) NaturalKeyResolver {
	return &naturalKeyResolver{
		objects: objects,
		ids:     utils.NewUUIDGenerator(),
		logger:  logger,
	}
}

func (r *naturalKeyResolver) Resolve(ctx context.Context, schemaRef, identifierField string, businessIdentifier any) (models.Object, bool, error) {
	log := logger.FromContext(ctx)

	if isEmptyValue(businessIdentifier) || identifierField == "" {
		return models.Object{}, false, fmt.Errorf("%w: empty natural key %q of %q", ErrInvalidDataProvided, identifierField, schemaRef)
	}

	// two results are enough to tell "one" from "many"
	filter := models.Filter{SchemaRefs: []string{schemaRef}, Limit: 2}.
		Where(identifierField, models.OpEqual, businessIdentifier)

	found, err := r.objects.FindObjects(ctx, filter)
	if err != nil {
		log.Err(err).
			Str("func", "naturalKeyResolver.Resolve").
			Str("schema", schemaRef).
			Any("key", businessIdentifier).
			Msg("natural key lookup failed")
		return models.Object{}, false, fmt.Errorf("error looking up natural key: %w", err)
	}

	switch {
	case found.Total == 0 || len(found.Results) == 0:
		return models.Object{
			ID:        r.ids.Generate(),
			SchemaRef: schemaRef,
			Data:      map[string]any{},
		}, false, nil
	case found.Total > 1:
		err = &AmbiguousKeyError{SchemaRef: schemaRef, Field: identifierField, Value: businessIdentifier, Matches: found.Total}
		log.Err(err).Str("func", "naturalKeyResolver.Resolve").Msg("natural key is ambiguous")
		return models.Object{}, false, err
	}

	obj := found.Results[0]
	obj.SchemaRef = schemaRef
	return obj, true, nil
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}
