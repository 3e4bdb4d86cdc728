// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/adapter"
	"github.com/MKhiriev/go-case-sync/internal/bus"
	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/mapper"
	"github.com/MKhiriev/go-case-sync/internal/mock"
	"github.com/MKhiriev/go-case-sync/internal/store"
	"github.com/MKhiriev/go-case-sync/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// pdfBase64 is a minimal PDF document, enough for MIME sniffing.
var pdfBase64 = base64.StdEncoding.EncodeToString([]byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n"))

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

// testResources is the registry used by the sync tests: one source, one
// mapping from a case to a request, and one handler per strategy.
func testResources(location string) *models.Resources {
	r := &models.Resources{
		Sources: []models.Source{{
			Reference: "vrijbrp",
			Location:  location,
			Headers:   map[string]string{"Authorization": "Token secret"},
			Timeout:   5 * time.Second,
		}},
		Mappings: []models.Mapping{
			{
				Reference: "case-to-request",
				Mapping: map[string]string{
					"caseNumber": "identificatie",
					"type":       "embedded.zaaktype.identificatie",
					"documents":  "documents",
				},
			},
			{
				Reference: "request-to-case",
				Mapping: map[string]string{
					"identificatie": "caseNumber",
					"omschrijving":  "schema.title",
				},
			},
		},
		Schemas: []models.Schema{{Reference: "zaak", IdentifierField: "identificatie"}},
		Handlers: []models.HandlerConfig{
			{
				Name:               "push-cases",
				Strategy:           models.StrategyPush,
				Schema:             "zaak",
				Source:             "vrijbrp",
				Mapping:            "case-to-request",
				BeforeTimeModifier: "-10 minutes",
				TypePrefix:         "vrijbrp-",
			},
			{
				Name:               "dispatch-cases",
				Strategy:           models.StrategyDispatch,
				Schema:             "zaak",
				BeforeTimeModifier: "-10 minutes",
				CaseTypes:          "B0237, B0360",
				Topic:              "vrijbrp.zaak.created",
				DocumentTopic:      "vrijbrp.document.created",
			},
			{
				Name:     "inline-cases",
				Strategy: models.StrategyInline,
				Schema:   "zaak",
				Source:   "vrijbrp",
				Mapping:  "case-to-request",
				Topic:    "vrijbrp.caseToRequest.sync",
			},
			{
				Name:     "pull-requests",
				Strategy: models.StrategyPull,
				Schema:   "zaak",
				Source:   "vrijbrp",
				Mapping:  "request-to-case",
			},
		},
	}
	for i := range r.Handlers {
		h := &r.Handlers[i]
		h.TypeField = config.DefaultTypeField
		h.Endpoint = config.DefaultEndpoint
		h.DocumentEndpoint = config.DefaultDocumentEndpoint
		h.DocumentsField = config.DefaultDocumentsField
		h.Entity = config.DefaultEntity
	}
	return r
}

type syncMocks struct {
	objects *mock.MockObjectRepository
	syncs   *mock.MockSynchronizationRepository
	caller  *mock.MockCaller
	bus     *mock.MockBus
}

// newMockedSyncService wires a syncService to gomock collaborators. The
// tracker, hydrator, mapper and document syncer are the real ones.
func newMockedSyncService(t *testing.T, resources *models.Resources, cfg config.Engine) (*syncService, syncMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := syncMocks{
		objects: mock.NewMockObjectRepository(ctrl),
		syncs:   mock.NewMockSynchronizationRepository(ctrl),
		caller:  mock.NewMockCaller(ctrl),
		bus:     mock.NewMockBus(ctrl),
	}

	svc := newTestSyncService(resources, m.objects, m.syncs, m.caller, m.bus, cfg)
	return svc, m
}

func newTestSyncService(
	resources *models.Resources,
	objects store.ObjectRepository,
	syncs store.SynchronizationRepository,
	caller adapter.Caller,
	b bus.Bus,
	cfg config.Engine,
) *syncService {
	log := logger.Nop()
	tracker := NewSyncTracker(cfg, log).(*syncTracker)
	tracker.now = func() time.Time { return fixedNow }

	svc := NewSyncService(SyncDependencies{
		Resources:        resources,
		Objects:          objects,
		Synchronizations: syncs,
		Caller:           caller,
		Bus:              b,
		Mapper:           mapper.NewMapper(),
		Hydrator:         NewHydrator(NewNaturalKeyResolver(objects, log), objects, log),
		Tracker:          tracker,
		Documents:        NewDocumentSyncer(caller, 2, log),
	}, cfg, log).(*syncService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func caseObject(id, caseType string, createdAt time.Time) models.Object {
	return models.Object{
		ID:        id,
		SchemaRef: "zaak",
		Data: map[string]any{
			"identificatie": "Z-" + id,
			"embedded": map[string]any{
				"zaaktype": map[string]any{"identificatie": caseType},
			},
		},
		CreatedAt: createdAt,
	}
}

func requireSQLiteStorages(t *testing.T) *store.Storages {
	t.Helper()
	db, err := store.NewConnectSQLite(testContext(), config.DB{DSN: ":memory:", Dialect: config.DialectSQLite}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return store.NewStoragesFromDB(db, logger.Nop())
}

// slowObjects widens the gap between a natural-key lookup and the insert
// that follows it, as a remote database would.
type slowObjects struct {
	store.ObjectRepository
	delay time.Duration
}

func (s slowObjects) FindObjects(ctx context.Context, filter models.Filter) (models.SearchResult, error) {
	time.Sleep(s.delay)
	return s.ObjectRepository.FindObjects(ctx, filter)
}
