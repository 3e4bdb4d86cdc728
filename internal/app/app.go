package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/bus"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/server"
	"github.com/MKhiriev/go-case-sync/internal/service"
	"github.com/MKhiriev/go-case-sync/internal/workers"
	"golang.org/x/sync/errgroup"
)

// busDrainTimeout bounds the delivery of messages still queued at stop.
const busDrainTimeout = 30 * time.Second

var errMissingComponent = errors.New("app component is missing")

type App struct {
	services *service.Services
	bus      bus.Bus
	server   server.Server
	workers  *workers.Workers

	logger *logger.Logger
}

func NewApp(services *service.Services, b bus.Bus, srv server.Server, ws *workers.Workers, logger *logger.Logger) (*App, error) {
	switch {
	case services == nil || services.SyncService == nil:
		return nil, fmt.Errorf("%w: services", errMissingComponent)
	case b == nil:
		return nil, fmt.Errorf("%w: bus", errMissingComponent)
	case srv == nil:
		return nil, fmt.Errorf("%w: server", errMissingComponent)
	}
	if ws == nil {
		ws = &workers.Workers{}
	}

	return &App{
		services: services,
		bus:      b,
		server:   srv,
		workers:  ws,
		logger:   logger,
	}, nil
}

// Run subscribes the inline handlers, then serves and runs scheduled passes
// until ctx is done or the server fails. Queued bus messages are drained
// before it returns.
func (a *App) Run(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)

	consumers := service.SubscribeConsumers(ctx, a.bus, a.services.SyncService)
	a.logger.Info().
		Int("consumers", consumers).
		Int("scheduled", a.workers.Len()).
		Msg("starting serve mode")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.workers.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return a.server.Run(gctx)
	})
	runErr := g.Wait()

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), busDrainTimeout)
	defer cancel()
	if err := a.bus.Close(drainCtx); err != nil {
		a.logger.Err(err).Str("func", "*App.Run").Msg("bus was not drained")
		if runErr == nil {
			runErr = err
		}
	}

	a.logger.Info().Msg("serve mode stopped")
	return runErr
}
