package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/store"
	"github.com/MKhiriev/go-case-sync/models"
)

type objectService struct {
	resources *models.Resources
	objects   store.ObjectRepository
	syncs     store.SynchronizationRepository
	hydrator  Hydrator

	logger *logger.Logger
}

func NewObjectService(resources *models.Resources, objects store.ObjectRepository, syncs store.SynchronizationRepository, hydrator Hydrator, logger *logger.Logger) ObjectService {
	return &objectService{
		resources: resources,
		objects:   objects,
		syncs:     syncs,
		hydrator:  hydrator,
		logger:    logger,
	}
}

func (s *objectService) GetObject(ctx context.Context, id string) (models.Object, error) {
	return s.objects.GetObject(ctx, id)
}

func (s *objectService) Synchronizations(ctx context.Context, objectID string) ([]models.Synchronization, error) {
	if _, err := s.objects.GetObject(ctx, objectID); err != nil {
		return nil, err
	}
	return s.syncs.ListSynchronizations(ctx, objectID)
}

func (s *objectService) Ingest(ctx context.Context, schemaRef string, fields map[string]any) (models.Object, error) {
	sch, ok := s.resources.FindSchema(schemaRef)
	if !ok {
		err := fmt.Errorf("%w: could not find schema %q", ErrConfiguration, schemaRef)
		logger.FromContext(ctx).Err(err).Str("func", "objectService.Ingest").Msg("unknown schema")
		return models.Object{}, err
	}

	return s.hydrator.Hydrate(ctx, fields, schemaRef, sch.IdentifierField)
}
