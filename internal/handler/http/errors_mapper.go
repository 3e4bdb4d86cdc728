package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-case-sync/internal/adapter"
	"github.com/MKhiriev/go-case-sync/internal/schema"
	"github.com/MKhiriev/go-case-sync/internal/service"
	"github.com/MKhiriev/go-case-sync/internal/store"
)

// errorStatuses is checked in order: a PassError wrapping ErrHandlerNotFound
// must resolve to 404 before any broader match is tried.
var errorStatuses = []struct {
	target error
	status int
}{
	{ErrInvalidLimit, http.StatusBadRequest},
	{ErrInvalidBody, http.StatusBadRequest},
	{ErrIntegrityCheck, http.StatusBadRequest},

	{service.ErrHandlerNotFound, http.StatusNotFound},
	{store.ErrObjectNotFound, http.StatusNotFound},
	{store.ErrSynchronizationNotFound, http.StatusNotFound},

	{service.ErrInvalidDataProvided, http.StatusBadRequest},
	{store.ErrUnsupportedFilter, http.StatusBadRequest},

	{service.ErrAmbiguousKey, http.StatusConflict},
	{store.ErrSynchronizationExists, http.StatusConflict},

	{service.ErrUnsupportedStrategy, http.StatusUnprocessableEntity},
	{service.ErrConfiguration, http.StatusUnprocessableEntity},
	{schema.ErrCyclicReference, http.StatusUnprocessableEntity},
	{schema.ErrSchemaResolution, http.StatusUnprocessableEntity},

	{adapter.ErrRemoteCall, http.StatusBadGateway},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}
