// Package workers provides the background workers of `serve` mode.
// It defines the Worker interface, a Workers aggregate that runs several
// workers until their context ends, and the pass worker that runs one
// synchronization handler on a fixed interval.
package workers

import (
	"context"

	"github.com/MKhiriev/go-case-sync/internal/service"
	"github.com/MKhiriev/go-case-sync/models"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is done.
type Worker interface {
	Run(ctx context.Context)
}

// PassRunner runs one pass of a named handler. service.SyncService
// satisfies it.
type PassRunner interface {
	RunPass(ctx context.Context, handlerName string, opts service.PassOptions) (models.PassReport, error)
}
