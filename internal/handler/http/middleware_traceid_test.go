package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBufferedHandler returns a Handler whose logger writes into buf.
func newBufferedHandler(buf *bytes.Buffer) *Handler {
	return NewHandler(newStubServices(), config.Server{}, &logger.Logger{Logger: zerolog.New(buf)})
}

func TestWithTraceID(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantReuse bool
	}{
		{name: "header is reused", header: "trace-from-gateway", wantReuse: true},
		{name: "missing header generates uuid"},
		{name: "oversized header is replaced", header: strings.Repeat("x", maxTraceIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf bytes.Buffer
			h := newBufferedHandler(&logBuf)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.FromRequest(r).Info().Msg("inside")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
			if tt.header != "" {
				req.Header.Set(traceIDHeader, tt.header)
			}
			rr := httptest.NewRecorder()
			h.withTraceID(next).ServeHTTP(rr, req)

			got := rr.Header().Get(traceIDHeader)
			if tt.wantReuse {
				assert.Equal(t, tt.header, got)
			} else {
				_, err := uuid.Parse(got)
				require.NoError(t, err, "generated trace id must be a uuid")
			}
			assert.Contains(t, logBuf.String(), `"trace_id":"`+got+`"`)
		})
	}
}

func TestWithTraceID_DoesNotLeakIntoParentLogger(t *testing.T) {
	var logBuf bytes.Buffer
	h := newBufferedHandler(&logBuf)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	h.withTraceID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(httptest.NewRecorder(), req)

	logBuf.Reset()
	h.logger.Info().Msg("after request")
	assert.NotContains(t, logBuf.String(), "trace_id")
}
