package workers

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/models"
)

// ErrInvalidInterval is returned when scheduled handlers are configured with
// a non-positive sync interval.
var ErrInvalidInterval = errors.New("sync interval must be positive")

type Workers struct {
	workers []Worker
}

// NewWorkers creates one pass worker per handler of cfg.Handlers. observer
// may be nil.
func NewWorkers(runner PassRunner, cfg config.Workers, observer models.ProgressObserver, logger *logger.Logger) (*Workers, error) {
	if len(cfg.Handlers) == 0 {
		return &Workers{}, nil
	}
	if cfg.SyncInterval <= 0 {
		return nil, ErrInvalidInterval
	}

	ws := &Workers{workers: make([]Worker, 0, len(cfg.Handlers))}
	for _, name := range cfg.Handlers {
		ws.workers = append(ws.workers, newPassWorker(runner, name, cfg.SyncInterval, observer, logger))
	}
	return ws, nil
}

// Len returns the number of workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker and blocks until all of them have returned.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}
	wg.Wait()
}
