package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/service"
	"github.com/MKhiriev/go-case-sync/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svc, config.Server{RequestTimeout: 45 * time.Second}, log)

	require.NotNil(t, h)
	assert.Equal(t, svc, h.services)
	assert.Equal(t, log, h.logger)
	assert.Equal(t, 45*time.Second, h.requestTimeout)
}

func TestNewHandler_IndependentInstances(t *testing.T) {
	h1 := NewHandler(&service.Services{}, config.Server{}, logger.Nop())
	h2 := NewHandler(&service.Services{}, config.Server{}, logger.Nop())

	assert.NotSame(t, h1, h2)
}

// ─────────────────────────────────────────────
// Init: route registration
// ─────────────────────────────────────────────

// expectedRoutes lists every route that Init() must register.
var expectedRoutes = []struct {
	method string
	path   string
}{
	{http.MethodGet, "/api/version"},
	{http.MethodGet, "/api/handlers"},
	{http.MethodPost, "/api/handlers/push-cases/run"},
	{http.MethodGet, "/api/objects/obj-1"},
	{http.MethodGet, "/api/objects/obj-1/synchronizations"},
	{http.MethodPost, "/api/schemas/flatten"},
	{http.MethodPost, "/api/schemas/zaak/objects"},
}

func TestInit_RoutesAreRegistered(t *testing.T) {
	h := newTestHandler(newStubServices())

	for _, rc := range expectedRoutes {
		t.Run(rc.method+" "+rc.path, func(t *testing.T) {
			rr := serve(t, h, rc.method, rc.path, strings.NewReader(`{"identificatie":"Z-1"}`))

			assert.NotEqual(t, http.StatusNotFound, rr.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rr.Code)
		})
	}
}

func TestInit_UnknownPath(t *testing.T) {
	rr := serve(t, newTestHandler(newStubServices()), http.MethodGet, "/api/unknown", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, http.StatusText(http.StatusNotFound), body.Error)
}

func TestInit_WrongMethod(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		wantAllow string
	}{
		{name: "GET on run", method: http.MethodGet, path: "/api/handlers/push-cases/run", wantAllow: "POST"},
		{name: "DELETE on object", method: http.MethodDelete, path: "/api/objects/obj-1", wantAllow: "GET"},
		{name: "PUT on flatten", method: http.MethodPut, path: "/api/schemas/flatten", wantAllow: "POST"},
		{name: "POST on handlers", method: http.MethodPost, path: "/api/handlers", wantAllow: "GET"},
	}

	h := newTestHandler(newStubServices())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, h, tt.method, tt.path, nil)

			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Allow"))
			assert.Contains(t, rr.Body.String(), "is not allowed")
		})
	}
}

func TestInit_SetsTraceID(t *testing.T) {
	rr := serve(t, newTestHandler(newStubServices()), http.MethodGet, "/api/version", nil)

	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
}
