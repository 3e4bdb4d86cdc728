package service

import (
	"context"

	"github.com/MKhiriev/go-case-sync/internal/adapter"
	"github.com/MKhiriev/go-case-sync/internal/bus"
	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/mapper"
	"github.com/MKhiriev/go-case-sync/internal/store"
	"github.com/MKhiriev/go-case-sync/models"
)

type Services struct {
	SyncService    SyncService
	ObjectService  ObjectService
	SchemaService  SchemaService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, resources *models.Resources, caller adapter.Caller, b bus.Bus, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	resolver := NewNaturalKeyResolver(storages.ObjectRepository, logger)
	hydrator := NewHydrator(resolver, storages.ObjectRepository, logger)

	syncService := NewSyncService(SyncDependencies{
		Resources:        resources,
		Objects:          storages.ObjectRepository,
		Synchronizations: storages.SynchronizationRepository,
		Caller:           caller,
		Bus:              b,
		Mapper:           mapper.NewMapper(),
		Hydrator:         hydrator,
		Tracker:          NewSyncTracker(cfg.Engine, logger),
		Documents:        NewDocumentSyncer(caller, cfg.Engine.Concurrency, logger),
	}, cfg.Engine, logger)

	return &Services{
		SyncService:    NewSyncValidationService().Wrap(syncService),
		ObjectService:  NewObjectService(resources, storages.ObjectRepository, storages.SynchronizationRepository, hydrator, logger),
		SchemaService:  NewSchemaService(logger),
		AppInfoService: appInfo,
	}, nil
}

// SubscribeConsumers subscribes every inline handler of svc to its topic on
// b. Handler errors are returned to the bus, which redelivers the payload.
// It returns the number of subscribed handlers.
func SubscribeConsumers(ctx context.Context, b bus.Bus, svc SyncService) int {
	n := 0
	for _, h := range svc.Handlers(ctx) {
		if h.Strategy != models.StrategyInline || h.Topic == "" {
			continue
		}

		name := h.Name
		b.Subscribe(h.Topic, func(ctx context.Context, topic string, payload map[string]any) error {
			_, err := svc.Consume(ctx, name, payload)
			return err
		})
		n++
	}
	return n
}
