// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/adapter"
	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/mock"
	"github.com/MKhiriev/go-case-sync/internal/store"
	"github.com/MKhiriev/go-case-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testLocation = "http://vrijbrp.test"

func mustHandler(t *testing.T, r *models.Resources, name string) models.HandlerConfig {
	t.Helper()
	h, ok := r.FindHandler(name)
	require.True(t, ok, name)
	return h
}

// expectRequestPush answers POST /api/requests with the given body and
// stores the pushed payloads in pushed.
func expectRequestPush(caller *mock.MockCaller, body map[string]any, pushed *[]map[string]any) *gomock.Call {
	var mu sync.Mutex
	raw, _ := json.Marshal(body)
	return caller.EXPECT().
		Call(gomock.Any(), gomock.Any(), "/api/requests", http.MethodPost, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Source, _, _ string, opts adapter.CallOptions) (*adapter.Response, error) {
			if pushed != nil {
				mu.Lock()
				*pushed = append(*pushed, opts.Body.(map[string]any))
				mu.Unlock()
			}
			return &adapter.Response{Status: http.StatusCreated, Body: raw}, nil
		})
}

// ── discovery ───────────────────────────────────────────────────────────────

func TestDiscoveryFilter(t *testing.T) {
	before := fixedNow.Add(-10 * time.Minute)
	resources := testResources(testLocation)

	tests := []struct {
		name    string
		handler models.HandlerConfig
		want    []models.Predicate
	}{
		{
			name:    "type prefix",
			handler: mustHandler(t, resources, "push-cases"),
			want: []models.Predicate{
				{Field: models.FieldSelfSynchronizations, Operator: models.OpIsNull},
				{Field: config.DefaultTypeField, Operator: models.OpLike, Value: "vrijbrp-%"},
				{Field: models.FieldSelfDateCreated, Operator: models.OpBefore, Value: before},
			},
		},
		{
			name:    "case type list wins over prefix",
			handler: func() models.HandlerConfig { h := mustHandler(t, resources, "dispatch-cases"); h.TypePrefix = "ignored"; return h }(),
			want: []models.Predicate{
				{Field: models.FieldSelfSynchronizations, Operator: models.OpIsNull},
				{Field: config.DefaultTypeField, Operator: models.OpIn, Value: []string{"B0237", "B0360"}},
				{Field: models.FieldSelfDateCreated, Operator: models.OpBefore, Value: before},
			},
		},
		{
			name:    "no type restriction",
			handler: models.HandlerConfig{Schema: "zaak"},
			want: []models.Predicate{
				{Field: models.FieldSelfSynchronizations, Operator: models.OpIsNull},
				{Field: models.FieldSelfDateCreated, Operator: models.OpBefore, Value: before},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DiscoveryFilter(tt.handler, before)
			assert.Equal(t, []string{"zaak"}, f.SchemaRefs)
			assert.Equal(t, tt.want, f.Predicates)
		})
	}
}

func TestSyncService_RunPass_DiscoveryUsesModifierAndLimit(t *testing.T) {
	resources := testResources(testLocation)
	svc, m := newMockedSyncService(t, resources, config.Engine{Concurrency: 1})

	h := mustHandler(t, resources, "push-cases")
	want := DiscoveryFilter(h, fixedNow.Add(-10*time.Minute))
	want.Limit = 5
	m.objects.EXPECT().FindObjects(gomock.Any(), want).Return(models.SearchResult{}, nil)

	report, err := svc.RunPass(testContext(), "push-cases", PassOptions{Limit: 5})

	require.NoError(t, err)
	assert.Zero(t, report.Discovered)
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, fixedNow, report.StartedAt)
}

func TestSyncService_RunPass_InvalidModifier(t *testing.T) {
	resources := testResources(testLocation)
	resources.Handlers[0].BeforeTimeModifier = "qwerty zxcv"
	svc, _ := newMockedSyncService(t, resources, config.Engine{})

	_, err := svc.RunPass(testContext(), "push-cases", PassOptions{})

	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSyncService_RunPass_UnknownHandler(t *testing.T) {
	svc, _ := newMockedSyncService(t, testResources(testLocation), config.Engine{})

	report, err := svc.RunPass(testContext(), "nope", PassOptions{})

	require.ErrorIs(t, err, ErrHandlerNotFound)
	var passErr *PassError
	require.ErrorAs(t, err, &passErr)
	assert.Equal(t, "nope", passErr.Handler)
	assert.Equal(t, "nope", report.Handler)
}

func TestSyncService_RunPass_InlineHandler(t *testing.T) {
	svc, _ := newMockedSyncService(t, testResources(testLocation), config.Engine{})

	_, err := svc.RunPass(testContext(), "inline-cases", PassOptions{})

	assert.ErrorIs(t, err, ErrUnsupportedStrategy)
}

// ── push ────────────────────────────────────────────────────────────────────

func TestSyncService_RunPass_Push(t *testing.T) {
	// Arrange
	resources := testResources(testLocation)
	svc, m := newMockedSyncService(t, resources, config.Engine{Concurrency: 2})

	obj := caseObject("obj-1", "vrijbrp-verhuizing", fixedNow.Add(-time.Hour))
	obj.Data["documents"] = []any{
		map[string]any{"file": pdfBase64, "titel": "uittreksel"},
		map[string]any{"file": "broken", "titel": "kapot"},
	}

	m.objects.EXPECT().FindObjects(gomock.Any(), gomock.Any()).
		Return(models.SearchResult{Results: []models.Object{obj}, Total: 1}, nil)

	expectDocumentUploads(t, m.caller, nil)
	var pushed []map[string]any
	response := map[string]any{"@id": "/api/requests/42", "status": "received"}
	expectRequestPush(m.caller, response, &pushed).Times(1)

	m.syncs.EXPECT().FindSynchronization(gomock.Any(), "obj-1", "vrijbrp").
		Return(models.Synchronization{}, store.ErrSynchronizationNotFound)

	var saved models.Object
	var record models.Synchronization
	m.objects.EXPECT().SaveObjectWithSynchronization(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.Object, s models.Synchronization) (models.Object, models.Synchronization, error) {
			saved, record = o, s
			return o, s, nil
		})

	// Act
	report, err := svc.RunPass(testContext(), "push-cases", PassOptions{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, report.Discovered)
	require.Len(t, report.Outcomes, 1)

	outcome := report.Outcomes[0]
	assert.Equal(t, models.OutcomeSynced, outcome.Status, outcome.Error)
	assert.Equal(t, "obj-1", outcome.ObjectID)
	assert.Equal(t, "/api/requests/42", outcome.RemoteRef)
	require.Len(t, outcome.Documents, 2)
	assert.Equal(t, "file.pdf", outcome.Documents[0].Filename)
	assert.NotEmpty(t, outcome.Documents[1].Error)

	require.Len(t, pushed, 1)
	assert.Equal(t, "Z-obj-1", pushed[0]["caseNumber"])
	assert.Equal(t, "vrijbrp-verhuizing", pushed[0]["type"])
	assert.Equal(t, []any{"/api/documents/uittreksel"}, pushed[0]["documents"])

	assert.Equal(t, "obj-1", saved.ID)
	assert.Equal(t, "vrijbrp", record.SourceID)
	assert.Equal(t, "obj-1", record.ObjectID)
	assert.Equal(t, "requests", record.Entity)
	require.NotNil(t, record.LastSynced)
	assert.Equal(t, fixedNow, *record.LastSynced)
	assert.Equal(t, fixedNow, *record.LastChecked)
	assert.Equal(t, fixedNow, *record.SourceLastChanged)

	wantHash, err := svc.tracker.Hash(response)
	require.NoError(t, err)
	assert.Equal(t, wantHash, record.Hash)
}

func TestSyncService_RunPass_PushSendsSourceHeaders(t *testing.T) {
	resources := testResources(testLocation)
	svc, m := newMockedSyncService(t, resources, config.Engine{})

	m.objects.EXPECT().FindObjects(gomock.Any(), gomock.Any()).
		Return(models.SearchResult{Results: []models.Object{caseObject("obj-1", "vrijbrp-geboorte", fixedNow)}, Total: 1}, nil)
	m.caller.EXPECT().
		Call(gomock.Any(), resources.Sources[0], "/api/requests", http.MethodPost, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Source, _, _ string, opts adapter.CallOptions) (*adapter.Response, error) {
			assert.Equal(t, "Token secret", opts.Headers["Authorization"])
			assert.Nil(t, opts.Multipart)
			return &adapter.Response{Status: http.StatusCreated}, nil
		})
	m.caller.EXPECT().Decode(gomock.Any(), gomock.Any()).Return(map[string]any{}, nil)
	m.syncs.EXPECT().FindSynchronization(gomock.Any(), "obj-1", "vrijbrp").
		Return(models.Synchronization{ID: "sync-1", SourceID: "vrijbrp", ObjectID: "obj-1"}, nil)
	m.objects.EXPECT().SaveObjectWithSynchronization(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.Object, s models.Synchronization) (models.Object, models.Synchronization, error) {
			assert.Equal(t, "sync-1", s.ID, "existing record must be updated, not duplicated")
			return o, s, nil
		})

	report, err := svc.RunPass(testContext(), "push-cases", PassOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(models.OutcomeSynced))
}

func TestSyncService_RunPass_PushMissingSource(t *testing.T) {
	// Arrange
	resources := testResources(testLocation)
	resources.Handlers[0].Source = "missing"
	svc, m := newMockedSyncService(t, resources, config.Engine{})

	m.objects.EXPECT().FindObjects(gomock.Any(), gomock.Any()).
		Return(models.SearchResult{Results: []models.Object{caseObject("obj-1", "vrijbrp-verhuizing", fixedNow)}, Total: 1}, nil)
	// no remote call and no store write is expected

	// Act
	report, err := svc.RunPass(testContext(), "push-cases", PassOptions{})

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, models.OutcomeFailed, report.Outcomes[0].Status)
	assert.Contains(t, report.Outcomes[0].Error, ErrConfiguration.Error())
	assert.Contains(t, report.Outcomes[0].Error, `source "missing"`)
}

func TestSyncService_Push_MissingResources(t *testing.T) {
	resources := testResources(testLocation)
	svc, _ := newMockedSyncService(t, resources, config.Engine{})

	h := mustHandler(t, resources, "push-cases")
	h.Source, h.Mapping = "missing-source", "missing-mapping"

	outcome, err := svc.push(testContext(), h, caseObject("obj-1", "vrijbrp-verhuizing", fixedNow))

	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), `source "missing-source"`)
	assert.Contains(t, err.Error(), `mapping "missing-mapping"`)
	assert.Equal(t, models.OutcomeFailed, outcome.Status)
}

func TestSyncService_RunPass_PushTypeMismatch(t *testing.T) {
	svc, m := newMockedSyncService(t, testResources(testLocation), config.Engine{})

	m.objects.EXPECT().FindObjects(gomock.Any(), gomock.Any()).
		Return(models.SearchResult{Results: []models.Object{caseObject("obj-1", "B0237", fixedNow)}, Total: 1}, nil)

	report, err := svc.RunPass(testContext(), "push-cases", PassOptions{})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeFailed, report.Outcomes[0].Status)
	assert.Contains(t, report.Outcomes[0].Error, ErrTypeMismatch.Error())
}

func TestSyncService_RunPass_PushFailureIsPerCandidate(t *testing.T) {
	// Arrange
	svc, m := newMockedSyncService(t, testResources(testLocation), config.Engine{Concurrency: 1})

	objs := []models.Object{
		caseObject("obj-1", "vrijbrp-verhuizing", fixedNow),
		caseObject("obj-2", "vrijbrp-verhuizing", fixedNow),
	}
	m.objects.EXPECT().FindObjects(gomock.Any(), gomock.Any()).
		Return(models.SearchResult{Results: objs, Total: 2}, nil)

	remoteErr := &adapter.RemoteCallError{Method: http.MethodPost, URL: testLocation + "/api/requests", Status: 500, Body: "boom"}
	m.caller.EXPECT().
		Call(gomock.Any(), gomock.Any(), "/api/requests", http.MethodPost, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Source, _, _ string, opts adapter.CallOptions) (*adapter.Response, error) {
			if opts.Body.(map[string]any)["caseNumber"] == "Z-obj-1" {
				return nil, remoteErr
			}
			return &adapter.Response{Status: http.StatusCreated, Body: []byte(`{"@id":"/api/requests/2"}`)}, nil
		}).
		Times(2)
	m.caller.EXPECT().Decode(gomock.Any(), gomock.Any()).Return(map[string]any{"@id": "/api/requests/2"}, nil)
	m.syncs.EXPECT().FindSynchronization(gomock.Any(), "obj-2", "vrijbrp").Return(models.Synchronization{}, store.ErrSynchronizationNotFound)
	m.objects.EXPECT().SaveObjectWithSynchronization(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.Object, s models.Synchronization) (models.Object, models.Synchronization, error) {
			assert.Equal(t, "obj-2", o.ID)
			return o, s, nil
		})

	// Act
	report, err := svc.RunPass(testContext(), "push-cases", PassOptions{})

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, "obj-1", report.Outcomes[0].ObjectID)
	assert.Equal(t, models.OutcomeFailed, report.Outcomes[0].Status)
	assert.Contains(t, report.Outcomes[0].Error, "http 500")
	assert.Equal(t, "obj-2", report.Outcomes[1].ObjectID)
	assert.Equal(t, models.OutcomeSynced, report.Outcomes[1].Status)
}

func TestSyncService_Push_FlattensSchemaDefinition(t *testing.T) {
	resources := testResources(testLocation)
	resources.Schemas[0].Definition = map[string]any{
		"$defs":      map[string]any{"id": map[string]any{"type": "string"}},
		"properties": map[string]any{"identificatie": map[string]any{"$ref": "#/$defs/id"}},
	}
	resources.Mappings[0].Mapping["schema"] = "_self.schema.definition.properties"
	svc, m := newMockedSyncService(t, resources, config.Engine{})

	var pushed []map[string]any
	expectRequestPush(m.caller, map[string]any{"@id": "/api/requests/1"}, &pushed)
	m.caller.EXPECT().Decode(gomock.Any(), gomock.Any()).Return(map[string]any{"@id": "/api/requests/1"}, nil)
	m.syncs.EXPECT().FindSynchronization(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.Synchronization{}, store.ErrSynchronizationNotFound)
	m.objects.EXPECT().SaveObjectWithSynchronization(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.Object, s models.Synchronization) (models.Object, models.Synchronization, error) {
			return o, s, nil
		})

	_, err := svc.push(testContext(), mustHandler(t, resources, "push-cases"), caseObject("obj-1", "vrijbrp-verhuizing", fixedNow))

	require.NoError(t, err)
	require.Len(t, pushed, 1)
	assert.Equal(t, map[string]any{"identificatie": map[string]any{"type": "string"}}, pushed[0]["schema"])
}

// ── dispatch ────────────────────────────────────────────────────────────────

func TestSyncService_RunPass_Dispatch(t *testing.T) {
	// Arrange
	resources := testResources(testLocation)
	svc, m := newMockedSyncService(t, resources, config.Engine{Concurrency: 4})

	withDocs := caseObject("obj-1", "B0237", fixedNow.Add(-time.Hour))
	withDocs.Data["embedded"].(map[string]any)["zaakinformatieobjecten"] = []any{map[string]any{"titel": "a"}}
	plain := caseObject("obj-2", "B0360", fixedNow.Add(-time.Hour))

	h := mustHandler(t, resources, "dispatch-cases")
	m.objects.EXPECT().FindObjects(gomock.Any(), DiscoveryFilter(h, fixedNow.Add(-10*time.Minute))).
		Return(models.SearchResult{Results: []models.Object{withDocs, plain}, Total: 2}, nil)

	var mu sync.Mutex
	published := map[string][]string{}
	var documentEvent map[string]any
	record := func(_ context.Context, topic string, payload map[string]any) error {
		mu.Lock()
		defer mu.Unlock()
		published[topic] = append(published[topic], payloadObjectID(payload))
		if topic == "vrijbrp.document.created" {
			documentEvent = payload
		}
		return nil
	}
	m.bus.EXPECT().Publish(gomock.Any(), "vrijbrp.zaak.created", gomock.Any()).DoAndReturn(record).Times(2)
	m.bus.EXPECT().Publish(gomock.Any(), "vrijbrp.document.created", gomock.Any()).DoAndReturn(record).Times(1)

	// Act
	report, err := svc.RunPass(testContext(), "dispatch-cases", PassOptions{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count(models.OutcomePublished))
	assert.ElementsMatch(t, []string{"obj-1", "obj-2"}, published["vrijbrp.zaak.created"])
	assert.Equal(t, []string{"obj-1"}, published["vrijbrp.document.created"])
	assert.Equal(t, []any{map[string]any{"titel": "a"}}, documentEvent["documents"])
}

func TestCaseDocuments(t *testing.T) {
	docs := []any{map[string]any{"titel": "a"}}

	tests := []struct {
		name    string
		payload map[string]any
		field   string
		want    []any
	}{
		{name: "embedded case documents", payload: map[string]any{"embedded": map[string]any{"zaakinformatieobjecten": docs}}, field: "documents", want: docs},
		{name: "top level field", payload: map[string]any{"documents": docs}, field: "documents", want: docs},
		{name: "nested field", payload: map[string]any{"zaak": map[string]any{"bijlagen": docs}}, field: "zaak.bijlagen", want: docs},
		{name: "empty list", payload: map[string]any{"embedded": map[string]any{"zaakinformatieobjecten": []any{}}}, field: "documents"},
		{name: "not a list", payload: map[string]any{"documents": "a"}, field: "documents"},
		{name: "no field", payload: map[string]any{"documents": docs}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, caseDocuments(tt.payload, tt.field))
		})
	}
}

func TestSyncService_RunPass_DispatchPublishError(t *testing.T) {
	svc, m := newMockedSyncService(t, testResources(testLocation), config.Engine{})

	m.objects.EXPECT().FindObjects(gomock.Any(), gomock.Any()).
		Return(models.SearchResult{Results: []models.Object{caseObject("obj-1", "B0237", fixedNow)}, Total: 1}, nil)
	m.bus.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("bus is closed"))

	report, err := svc.RunPass(testContext(), "dispatch-cases", PassOptions{})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeFailed, report.Outcomes[0].Status)
	assert.Equal(t, "bus is closed", report.Outcomes[0].Error)
}

// ── pull ────────────────────────────────────────────────────────────────────

func TestSyncService_RunPass_Pull(t *testing.T) {
	// Arrange
	resources := testResources(testLocation)
	svc, m := newMockedSyncService(t, resources, config.Engine{})

	m.caller.EXPECT().
		Call(gomock.Any(), resources.Sources[0], "/api/requests", http.MethodGet, gomock.Any()).
		Return(&adapter.Response{Status: http.StatusOK}, nil)
	m.caller.EXPECT().Decode(gomock.Any(), gomock.Any()).Return(map[string]any{
		adapter.MemberKey: []any{
			map[string]any{"@id": "/api/requests/1", "caseNumber": "Z-1", "schema": map[string]any{"title": "Verhuizing"}},
			"junk",
			map[string]any{"@id": "/api/requests/2", "caseNumber": "Z-2", "schema": map[string]any{"title": "Geboorte"}},
		},
	}, nil)

	existing := models.Object{ID: "obj-2", SchemaRef: "zaak", Data: map[string]any{"identificatie": "Z-2", "status": "open"}}
	m.objects.EXPECT().FindObjects(gomock.Any(), keyFilter("zaak", "identificatie", "Z-1")).Return(models.SearchResult{}, nil)
	m.objects.EXPECT().FindObjects(gomock.Any(), keyFilter("zaak", "identificatie", "Z-2")).
		Return(models.SearchResult{Results: []models.Object{existing}, Total: 1}, nil)
	m.syncs.EXPECT().FindSynchronization(gomock.Any(), "obj-2", "vrijbrp").
		Return(models.Synchronization{ID: "sync-2", SourceID: "vrijbrp", ObjectID: "obj-2"}, nil)

	var mu sync.Mutex
	saved := map[string]models.Object{}
	records := map[string]models.Synchronization{}
	m.objects.EXPECT().SaveObjectWithSynchronization(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.Object, s models.Synchronization) (models.Object, models.Synchronization, error) {
			mu.Lock()
			defer mu.Unlock()
			key := o.Data["identificatie"].(string)
			saved[key], records[key] = o, s
			return o, s, nil
		}).
		Times(2)

	// Act
	report, err := svc.RunPass(testContext(), "pull-requests", PassOptions{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, report.Discovered)
	assert.Equal(t, 2, report.Count(models.OutcomeSynced))
	assert.Equal(t, "/api/requests/1", report.Outcomes[0].RemoteRef)

	assert.Equal(t, map[string]any{"identificatie": "Z-1", "omschrijving": "Verhuizing"}, saved["Z-1"].Data)
	assert.Equal(t, "zaak", saved["Z-1"].SchemaRef)
	assert.Empty(t, records["Z-1"].ID)
	assert.Equal(t, saved["Z-1"].ID, records["Z-1"].ObjectID)
	assert.Equal(t, "requests", records["Z-1"].Entity)

	assert.Equal(t, "obj-2", saved["Z-2"].ID)
	assert.Equal(t, map[string]any{"identificatie": "Z-2", "omschrijving": "Geboorte", "status": "open"}, saved["Z-2"].Data)
	assert.Equal(t, "sync-2", records["Z-2"].ID)
	assert.Equal(t, fixedNow, *records["Z-2"].LastSynced)
}

func TestSyncService_RunPass_PullMissingSource(t *testing.T) {
	resources := testResources(testLocation)
	resources.Sources = nil
	svc, _ := newMockedSyncService(t, resources, config.Engine{})
	// neither the source nor the store is touched

	report, err := svc.RunPass(testContext(), "pull-requests", PassOptions{})

	require.ErrorIs(t, err, ErrConfiguration)
	var passErr *PassError
	require.ErrorAs(t, err, &passErr)
	assert.Equal(t, "pull-requests", passErr.Handler)
	assert.Empty(t, report.Outcomes)
}

func TestSyncService_RunPass_PullFetchError(t *testing.T) {
	svc, m := newMockedSyncService(t, testResources(testLocation), config.Engine{})

	m.caller.EXPECT().Call(gomock.Any(), gomock.Any(), gomock.Any(), http.MethodGet, gomock.Any()).
		Return(nil, adapter.ErrRemoteCall)

	_, err := svc.RunPass(testContext(), "pull-requests", PassOptions{})

	assert.ErrorIs(t, err, adapter.ErrRemoteCall)
}

func TestSyncService_RunPass_PullMappingErrorIsPerCandidate(t *testing.T) {
	// Arrange
	resources := testResources(testLocation)
	svc, m := newMockedSyncService(t, resources, config.Engine{Concurrency: 1})
	mp := mock.NewMockMapper(gomock.NewController(t))
	svc.mapper = mp

	m.caller.EXPECT().Call(gomock.Any(), gomock.Any(), "/api/requests", http.MethodGet, gomock.Any()).
		Return(&adapter.Response{Status: http.StatusOK}, nil)
	m.caller.EXPECT().Decode(gomock.Any(), gomock.Any()).Return(map[string]any{
		adapter.MemberKey: []any{
			map[string]any{"@id": "/api/requests/1", "caseNumber": "Z-1"},
			map[string]any{"@id": "/api/requests/2", "caseNumber": "Z-2"},
		},
	}, nil)

	mapping, _ := resources.FindMapping("request-to-case")
	mp.EXPECT().Map(mapping, gomock.Any()).
		DoAndReturn(func(_ models.Mapping, input map[string]any) (map[string]any, error) {
			if input["caseNumber"] == "Z-1" {
				return nil, errors.New("template failed")
			}
			return map[string]any{"identificatie": input["caseNumber"]}, nil
		}).
		Times(2)
	m.objects.EXPECT().FindObjects(gomock.Any(), keyFilter("zaak", "identificatie", "Z-2")).Return(models.SearchResult{}, nil)
	m.objects.EXPECT().SaveObjectWithSynchronization(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.Object, s models.Synchronization) (models.Object, models.Synchronization, error) {
			return o, s, nil
		})

	// Act
	report, err := svc.RunPass(testContext(), "pull-requests", PassOptions{})

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, models.OutcomeFailed, report.Outcomes[0].Status)
	assert.Equal(t, "template failed", report.Outcomes[0].Error)
	assert.Equal(t, "/api/requests/1", report.Outcomes[0].RemoteRef)
	assert.Equal(t, models.OutcomeSynced, report.Outcomes[1].Status)
}

func TestSyncService_RunPass_PullConcurrentItemsShareNaturalKey(t *testing.T) {
	// Arrange
	storages := requireSQLiteStorages(t)
	objects := slowObjects{ObjectRepository: storages.ObjectRepository, delay: 20 * time.Millisecond}
	ctrl := gomock.NewController(t)
	caller := mock.NewMockCaller(ctrl)
	svc := newTestSyncService(testResources(testLocation), objects, storages.SynchronizationRepository, caller, mock.NewMockBus(ctrl), config.Engine{Concurrency: 4})

	items := make([]any, 4)
	for i := range items {
		items[i] = map[string]any{"@id": "/api/requests/" + string(rune('1'+i)), "caseNumber": "Z-100"}
	}
	caller.EXPECT().Call(gomock.Any(), gomock.Any(), "/api/requests", http.MethodGet, gomock.Any()).
		Return(&adapter.Response{Status: http.StatusOK}, nil)
	caller.EXPECT().Decode(gomock.Any(), gomock.Any()).Return(map[string]any{adapter.MemberKey: items}, nil)

	// Act
	report, err := svc.RunPass(testContext(), "pull-requests", PassOptions{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, report.Count(models.OutcomeSynced))

	found, err := storages.ObjectRepository.FindObjects(testContext(), keyFilter("zaak", "identificatie", "Z-100"))
	require.NoError(t, err)
	assert.Equal(t, 1, found.Total)

	_, ok, err := NewNaturalKeyResolver(storages.ObjectRepository, logger.Nop()).
		Resolve(testContext(), "zaak", "identificatie", "Z-100")
	require.NoError(t, err)
	assert.True(t, ok)
}

// ── cancellation and progress ───────────────────────────────────────────────

func TestSyncService_RunPass_CancellationSkipsRemaining(t *testing.T) {
	// Arrange
	svc, m := newMockedSyncService(t, testResources(testLocation), config.Engine{Concurrency: 1})
	ctx, cancel := context.WithCancel(testContext())
	defer cancel()

	objs := []models.Object{
		caseObject("obj-1", "vrijbrp-verhuizing", fixedNow),
		caseObject("obj-2", "vrijbrp-verhuizing", fixedNow),
		caseObject("obj-3", "vrijbrp-verhuizing", fixedNow),
	}
	m.objects.EXPECT().FindObjects(gomock.Any(), gomock.Any()).Return(models.SearchResult{Results: objs, Total: 3}, nil)
	m.caller.EXPECT().
		Call(gomock.Any(), gomock.Any(), "/api/requests", http.MethodPost, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ models.Source, _, _ string, _ adapter.CallOptions) (*adapter.Response, error) {
			cancel()
			// the started candidate keeps a live context
			assert.NoError(t, ctx.Err())
			return &adapter.Response{Status: http.StatusCreated}, nil
		}).
		Times(1)
	m.caller.EXPECT().Decode(gomock.Any(), gomock.Any()).Return(map[string]any{"@id": "/api/requests/1"}, nil)
	m.syncs.EXPECT().FindSynchronization(gomock.Any(), "obj-1", "vrijbrp").Return(models.Synchronization{}, store.ErrSynchronizationNotFound)
	m.objects.EXPECT().SaveObjectWithSynchronization(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.Object, s models.Synchronization) (models.Object, models.Synchronization, error) {
			return o, s, nil
		})

	// Act
	report, err := svc.RunPass(ctx, "push-cases", PassOptions{})

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, models.OutcomeSynced, report.Outcomes[0].Status)
	for _, o := range report.Outcomes[1:] {
		assert.Equal(t, models.OutcomeSkipped, o.Status)
		assert.Equal(t, context.Canceled.Error(), o.Error)
	}
	assert.Equal(t, "obj-3", report.Outcomes[2].ObjectID)
}

func TestSyncService_RunPass_Observer(t *testing.T) {
	svc, m := newMockedSyncService(t, testResources(testLocation), config.Engine{Concurrency: 3})

	objs := []models.Object{
		caseObject("obj-1", "B0237", fixedNow),
		caseObject("obj-2", "B0237", fixedNow),
		caseObject("obj-3", "B0360", fixedNow),
	}
	m.objects.EXPECT().FindObjects(gomock.Any(), gomock.Any()).Return(models.SearchResult{Results: objs, Total: 3}, nil)
	m.bus.EXPECT().Publish(gomock.Any(), "vrijbrp.zaak.created", gomock.Any()).Return(nil).Times(3)

	var events []models.ProgressEvent
	var inside atomic.Int32
	observer := func(e models.ProgressEvent) {
		assert.Equal(t, int32(1), inside.Add(1), "observer calls must not overlap")
		events = append(events, e)
		inside.Add(-1)
	}

	report, err := svc.RunPass(testContext(), "dispatch-cases", PassOptions{Observer: observer})
	require.NoError(t, err)

	require.Len(t, events, 5)
	assert.Equal(t, models.ProgressPassStarted, events[0].Kind)
	for _, e := range events[1:4] {
		assert.Equal(t, models.ProgressCandidateDone, e.Kind)
		require.NotNil(t, e.Outcome)
		assert.Equal(t, models.OutcomePublished, e.Outcome.Status)
	}
	last := events[4]
	assert.Equal(t, models.ProgressPassFinished, last.Kind)
	assert.Equal(t, 3, last.Total)
	require.NotNil(t, last.Report)
	assert.Equal(t, report.Outcomes, last.Report.Outcomes)
}

// ── consume ─────────────────────────────────────────────────────────────────

func TestSyncService_Consume(t *testing.T) {
	// Arrange
	svc, m := newMockedSyncService(t, testResources(testLocation), config.Engine{})

	obj := caseObject("obj-1", "B0237", fixedNow)
	m.objects.EXPECT().GetObject(gomock.Any(), "obj-1").Return(obj, nil)
	expectRequestPush(m.caller, nil, nil)
	m.caller.EXPECT().Decode(gomock.Any(), gomock.Any()).Return(map[string]any{"@id": "/api/requests/9"}, nil)
	m.syncs.EXPECT().FindSynchronization(gomock.Any(), "obj-1", "vrijbrp").Return(models.Synchronization{}, store.ErrSynchronizationNotFound)
	m.objects.EXPECT().SaveObjectWithSynchronization(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.Object, s models.Synchronization) (models.Object, models.Synchronization, error) {
			return o, s, nil
		})

	// Act
	outcome, err := svc.Consume(testContext(), "inline-cases", obj.Payload())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeSynced, outcome.Status)
	assert.Equal(t, "/api/requests/9", outcome.RemoteRef)
}

func TestSyncService_Consume_PermanentFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		setup   func(m syncMocks)
		wantErr string
	}{
		{
			name:    "payload without id",
			payload: map[string]any{"identificatie": "Z-1"},
			wantErr: ErrInvalidDataProvided.Error(),
		},
		{
			name:    "object removed meanwhile",
			payload: map[string]any{"_id": "gone"},
			setup: func(m syncMocks) {
				m.objects.EXPECT().GetObject(gomock.Any(), "gone").Return(models.Object{}, store.ErrObjectNotFound)
			},
			wantErr: store.ErrObjectNotFound.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newMockedSyncService(t, testResources(testLocation), config.Engine{})
			if tt.setup != nil {
				tt.setup(m)
			}

			outcome, err := svc.Consume(testContext(), "inline-cases", tt.payload)

			require.NoError(t, err, "permanent failures must not be redelivered")
			assert.Equal(t, models.OutcomeFailed, outcome.Status)
			assert.Contains(t, outcome.Error, tt.wantErr)
		})
	}
}

func TestSyncService_Consume_MissingMappingIsPermanent(t *testing.T) {
	resources := testResources(testLocation)
	resources.Mappings = nil
	svc, m := newMockedSyncService(t, resources, config.Engine{})
	m.objects.EXPECT().GetObject(gomock.Any(), "obj-1").Return(caseObject("obj-1", "B0237", fixedNow), nil)

	outcome, err := svc.Consume(testContext(), "inline-cases", map[string]any{"_self": map[string]any{"id": "obj-1"}})

	require.NoError(t, err)
	assert.Contains(t, outcome.Error, ErrConfiguration.Error())
}

func TestSyncService_Consume_RemoteErrorIsRetried(t *testing.T) {
	svc, m := newMockedSyncService(t, testResources(testLocation), config.Engine{})

	m.objects.EXPECT().GetObject(gomock.Any(), "obj-1").Return(caseObject("obj-1", "B0237", fixedNow), nil)
	m.caller.EXPECT().Call(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &adapter.RemoteCallError{Method: http.MethodPost, URL: testLocation, Status: 503})

	outcome, err := svc.Consume(testContext(), "inline-cases", map[string]any{"_self": map[string]any{"id": "obj-1"}})

	require.ErrorIs(t, err, adapter.ErrRemoteCall)
	assert.Equal(t, models.OutcomeFailed, outcome.Status)
}

func TestSyncService_Consume_WrongStrategy(t *testing.T) {
	svc, _ := newMockedSyncService(t, testResources(testLocation), config.Engine{})

	_, err := svc.Consume(testContext(), "dispatch-cases", map[string]any{"_id": "obj-1"})
	assert.ErrorIs(t, err, ErrUnsupportedStrategy)

	_, err = svc.Consume(testContext(), "nope", map[string]any{"_id": "obj-1"})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestSyncService_Handlers(t *testing.T) {
	resources := testResources(testLocation)
	svc, _ := newMockedSyncService(t, resources, config.Engine{})

	assert.Equal(t, resources.Handlers, svc.Handlers(testContext()))
}

// ── object locks ────────────────────────────────────────────────────────────

func TestObjectLocks(t *testing.T) {
	locks := newObjectLocks()

	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("obj-1")
			defer unlock()

			n := active.Add(1)
			for {
				m := maxActive.Load()
				if n <= m || maxActive.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive.Load())
	assert.Empty(t, locks.locks, "unused locks must be released")
}

func TestObjectLocks_DifferentObjectsDoNotBlock(t *testing.T) {
	locks := newObjectLocks()

	unlockA := locks.lock("obj-1")
	done := make(chan struct{})
	go func() {
		unlock := locks.lock("obj-2")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on obj-2 waited for obj-1")
	}
	unlockA()
}

func TestSyncService_LockDisabled(t *testing.T) {
	svc, _ := newMockedSyncService(t, testResources(testLocation), config.Engine{})
	assert.Nil(t, svc.locks)
	svc.lock("obj-1")()

	locked, _ := newMockedSyncService(t, testResources(testLocation), config.Engine{ObjectLocking: true})
	require.NotNil(t, locked.locks)
}
