package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/service"
	"github.com/MKhiriev/go-case-sync/models"
	"github.com/rs/zerolog"
)

// ---- Stub: SyncService ----

type stubSyncService struct {
	runPass  func(ctx context.Context, name string, opts service.PassOptions) (models.PassReport, error)
	handlers []models.HandlerConfig
}

func (s *stubSyncService) RunPass(ctx context.Context, name string, opts service.PassOptions) (models.PassReport, error) {
	if s.runPass == nil {
		return models.PassReport{Handler: name}, nil
	}
	return s.runPass(ctx, name, opts)
}

func (s *stubSyncService) Consume(_ context.Context, _ string, _ map[string]any) (models.CandidateOutcome, error) {
	return models.CandidateOutcome{}, nil
}

func (s *stubSyncService) Handlers(_ context.Context) []models.HandlerConfig {
	return s.handlers
}

// ---- Stub: ObjectService ----

type stubObjectService struct {
	getObject        func(ctx context.Context, id string) (models.Object, error)
	synchronizations func(ctx context.Context, id string) ([]models.Synchronization, error)
	ingest           func(ctx context.Context, schemaRef string, fields map[string]any) (models.Object, error)
}

func (s *stubObjectService) GetObject(ctx context.Context, id string) (models.Object, error) {
	if s.getObject == nil {
		return models.Object{ID: id}, nil
	}
	return s.getObject(ctx, id)
}

func (s *stubObjectService) Synchronizations(ctx context.Context, id string) ([]models.Synchronization, error) {
	if s.synchronizations == nil {
		return nil, nil
	}
	return s.synchronizations(ctx, id)
}

func (s *stubObjectService) Ingest(ctx context.Context, schemaRef string, fields map[string]any) (models.Object, error) {
	if s.ingest == nil {
		return models.Object{ID: "new", SchemaRef: schemaRef, Data: fields}, nil
	}
	return s.ingest(ctx, schemaRef, fields)
}

// ---- Stub: SchemaService ----

type stubSchemaService struct {
	flatten func(ctx context.Context, fragment map[string]any) (map[string]any, error)
}

func (s *stubSchemaService) Flatten(ctx context.Context, fragment map[string]any) (map[string]any, error) {
	if s.flatten == nil {
		return fragment, nil
	}
	return s.flatten(ctx, fragment)
}

// ---- Stub: AppInfoService ----

type stubAppInfoService struct {
	version string
}

func (s *stubAppInfoService) GetAppVersion(_ context.Context) string {
	return s.version
}

func (s *stubAppInfoService) GetServerName(_ context.Context) string {
	return "casesync/" + s.version
}

// newStubServices returns services backed by stubs with default behaviour.
func newStubServices() *service.Services {
	return &service.Services{
		SyncService:    &stubSyncService{},
		ObjectService:  &stubObjectService{},
		SchemaService:  &stubSchemaService{},
		AppInfoService: &stubAppInfoService{version: "test-version"},
	}
}

func newTestHandler(svcs *service.Services) *Handler {
	return NewHandler(svcs, config.Server{RequestTimeout: time.Minute}, logger.Nop())
}

// serve sends one request through the full router.
func serve(t *testing.T, h *Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.Init().ServeHTTP(rr, req)
	return rr
}

// injectLogger puts a buffer-backed zerolog.Logger into the request context
// the same way withTraceID does.
func injectLogger(r *http.Request, buf *bytes.Buffer) *http.Request {
	l := zerolog.New(buf).With().Timestamp().Logger()
	return r.WithContext(l.WithContext(r.Context()))
}
