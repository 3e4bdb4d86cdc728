package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/adapter"
	"github.com/MKhiriev/go-case-sync/internal/bus"
	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/mapper"
	"github.com/MKhiriev/go-case-sync/internal/store"
	"github.com/MKhiriev/go-case-sync/internal/utils"
	"github.com/MKhiriev/go-case-sync/models"
	"golang.org/x/sync/errgroup"
)

// SyncDependencies are the collaborators of the sync service.
type SyncDependencies struct {
	Resources *models.Resources

	Objects          store.ObjectRepository
	Synchronizations store.SynchronizationRepository

	Caller adapter.Caller
	Bus    bus.Bus
	Mapper mapper.Mapper

	Hydrator  Hydrator
	Tracker   SyncTracker
	Documents DocumentSyncer
}

type syncService struct {
	resources *models.Resources

	objects store.ObjectRepository
	syncs   store.SynchronizationRepository
	caller  adapter.Caller
	bus     bus.Bus
	mapper  mapper.Mapper

	hydrator  Hydrator
	tracker   SyncTracker
	documents DocumentSyncer

	concurrency int
	locks       *objectLocks

	ids *utils.UUIDGenerator
	now func() time.Time

	logger *logger.Logger
}

// NewSyncService constructs the orchestrator. cfg.Concurrency is the
// fan-out of handlers without their own limit; cfg.ObjectLocking serializes
// work on the same object across overlapping passes.
func NewSyncService(deps SyncDependencies, cfg config.Engine, logger *logger.Logger) SyncService {
	s := &syncService{
		resources:   deps.Resources,
		objects:     deps.Objects,
		syncs:       deps.Synchronizations,
		caller:      deps.Caller,
		bus:         deps.Bus,
		mapper:      deps.Mapper,
		hydrator:    deps.Hydrator,
		tracker:     deps.Tracker,
		documents:   deps.Documents,
		concurrency: max(cfg.Concurrency, 1),
		ids:         utils.NewUUIDGenerator(),
		now:         time.Now,
		logger:      logger,
	}
	if cfg.ObjectLocking {
		s.locks = newObjectLocks()
	}
	return s
}

func (s *syncService) Handlers(ctx context.Context) []models.HandlerConfig {
	return s.resources.HandlerConfigs()
}

func (s *syncService) handler(name string) (models.HandlerConfig, error) {
	h, ok := s.resources.FindHandler(name)
	if !ok {
		return models.HandlerConfig{}, fmt.Errorf("%w: %q", ErrHandlerNotFound, name)
	}
	return h, nil
}

// RunPass implements SyncService. Every strategy shares the same skeleton:
// collect candidates, fan them out, report.
func (s *syncService) RunPass(ctx context.Context, handlerName string, opts PassOptions) (models.PassReport, error) {
	h, err := s.handler(handlerName)
	if err != nil {
		return models.PassReport{Handler: handlerName}, &PassError{Handler: handlerName, Err: err}
	}

	passID := s.ids.Generate()
	log := logger.FromContext(ctx).With().
		Str("pass_id", passID).
		Str("handler", h.Name).
		Str("strategy", string(h.Strategy)).
		Logger()
	ctx = log.WithContext(utils.WithPassID(ctx, passID))

	report := models.PassReport{
		Handler:   h.Name,
		Strategy:  h.Strategy,
		StartedAt: s.now().UTC(),
	}
	observer := newSerialObserver(opts.Observer)

	var candidates []candidate
	switch h.Strategy {
	case models.StrategyPush, models.StrategyDispatch:
		candidates, err = s.discover(ctx, h, report.StartedAt, opts.Limit)
	case models.StrategyPull:
		candidates, err = s.fetch(ctx, h, opts.Limit)
	default:
		err = fmt.Errorf("%w: %q cannot run a pass", ErrUnsupportedStrategy, h.Strategy)
	}
	if err != nil {
		log.Err(err).Str("func", "syncService.RunPass").Msg("pass aborted")
		report.FinishedAt = s.now().UTC()
		return report, &PassError{Handler: h.Name, Err: err}
	}

	report.Discovered = len(candidates)
	log.Info().Str("func", "syncService.RunPass").Int("candidates", len(candidates)).Msg("pass started")
	observer.notify(models.ProgressEvent{Kind: models.ProgressPassStarted, Handler: h.Name, Total: len(candidates)})

	limit := h.Concurrency
	if limit < 1 {
		limit = s.concurrency
	}
	report.Outcomes = s.fanOut(ctx, limit, candidates, func(ctx context.Context, c candidate) models.CandidateOutcome {
		return s.process(ctx, h, c)
	}, func(o models.CandidateOutcome) {
		observer.notify(models.ProgressEvent{Kind: models.ProgressCandidateDone, Handler: h.Name, Total: len(candidates), Outcome: &o})
	})

	report.FinishedAt = s.now().UTC()
	log.Info().
		Str("func", "syncService.RunPass").
		Int("synced", report.Count(models.OutcomeSynced)).
		Int("published", report.Count(models.OutcomePublished)).
		Int("failed", report.Count(models.OutcomeFailed)).
		Int("skipped", report.Count(models.OutcomeSkipped)).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("pass finished")
	observer.notify(models.ProgressEvent{Kind: models.ProgressPassFinished, Handler: h.Name, Total: len(candidates), Report: &report})

	return report, nil
}

// candidate is one unit of work of a pass: a local object (push, dispatch)
// or a remote item (pull).
type candidate struct {
	object models.Object
	item   map[string]any
	// source, mapping and schema are resolved once per pull pass.
	pull *pullContext
}

func (c candidate) id() string {
	if c.item != nil {
		return remoteRef(c.item)
	}
	return c.object.ID
}

// fanOut runs process for every candidate with at most limit running at
// once. Cancellation is checked before each candidate is started; the
// remaining ones are reported as skipped. Started candidates run to
// completion. Outcomes keep the candidate order.
func (s *syncService) fanOut(ctx context.Context, limit int, candidates []candidate, process func(context.Context, candidate) models.CandidateOutcome, done func(models.CandidateOutcome)) []models.CandidateOutcome {
	outcomes := make([]models.CandidateOutcome, len(candidates))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, c := range candidates {
		// g.Go blocks until a slot is free, so cancellation is checked
		// once the candidate is about to start.
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = models.CandidateOutcome{ObjectID: c.id(), Status: models.OutcomeSkipped, Error: err.Error()}
			} else {
				outcomes[i] = process(context.WithoutCancel(ctx), c)
			}
			done(outcomes[i])
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *syncService) process(ctx context.Context, h models.HandlerConfig, c candidate) models.CandidateOutcome {
	switch h.Strategy {
	case models.StrategyDispatch:
		return s.dispatchObject(ctx, h, c.object)
	case models.StrategyPull:
		return s.pullItem(ctx, h, c.pull, c.item)
	default:
		return s.pushObject(ctx, h, c.object)
	}
}

// Consume implements SyncService for inline and push handlers. Permanent
// failures (configuration, type mismatch, unknown object) are reported
// without an error so the bus does not redeliver them.
func (s *syncService) Consume(ctx context.Context, handlerName string, payload map[string]any) (models.CandidateOutcome, error) {
	h, err := s.handler(handlerName)
	if err != nil {
		return models.CandidateOutcome{Status: models.OutcomeFailed, Error: err.Error()}, err
	}
	if h.Strategy != models.StrategyInline && h.Strategy != models.StrategyPush {
		err = fmt.Errorf("%w: %q cannot consume payloads", ErrUnsupportedStrategy, h.Strategy)
		return models.CandidateOutcome{Status: models.OutcomeFailed, Error: err.Error()}, err
	}

	log := logger.FromContext(ctx).With().Str("handler", h.Name).Logger()
	ctx = log.WithContext(ctx)

	id := payloadObjectID(payload)
	if id == "" {
		err = fmt.Errorf("%w: payload has no _self.id", ErrInvalidDataProvided)
		log.Err(err).Str("func", "syncService.Consume").Msg("payload rejected")
		return models.CandidateOutcome{Status: models.OutcomeFailed, Error: err.Error()}, nil
	}

	obj, err := s.objects.GetObject(ctx, id)
	if err != nil {
		log.Err(err).Str("func", "syncService.Consume").Str("object_id", id).Msg("error loading object")
		outcome := models.CandidateOutcome{ObjectID: id, Status: models.OutcomeFailed, Error: err.Error()}
		if errors.Is(err, store.ErrObjectNotFound) {
			return outcome, nil
		}
		return outcome, err
	}

	outcome, err := s.push(ctx, h, obj)
	if err != nil && isPermanent(err) {
		return outcome, nil
	}
	return outcome, err
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrInvalidDataProvided) ||
		errors.Is(err, ErrAmbiguousKey)
}

func payloadObjectID(payload map[string]any) string {
	self, _ := payload["_self"].(map[string]any)
	id, _ := self["id"].(string)
	if id == "" {
		id, _ = payload["_id"].(string)
	}
	return id
}

// lock serializes work on one object when object locking is enabled.
func (s *syncService) lock(id string) func() {
	if s.locks == nil || id == "" {
		return func() {}
	}
	return s.locks.lock(id)
}

// objectLocks is a set of per-object mutexes released when unused.
type objectLocks struct {
	mu    sync.Mutex
	locks map[string]*objectLock
}

type objectLock struct {
	sync.Mutex
	refs int
}

func newObjectLocks() *objectLocks {
	return &objectLocks{locks: make(map[string]*objectLock)}
}

func (l *objectLocks) lock(id string) func() {
	l.mu.Lock()
	ol, ok := l.locks[id]
	if !ok {
		ol = &objectLock{}
		l.locks[id] = ol
	}
	ol.refs++
	l.mu.Unlock()

	ol.Lock()

	return func() {
		ol.Unlock()

		l.mu.Lock()
		ol.refs--
		if ol.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// serialObserver serializes calls to a ProgressObserver.
type serialObserver struct {
	mu sync.Mutex
	fn models.ProgressObserver
}

func newSerialObserver(fn models.ProgressObserver) *serialObserver {
	return &serialObserver{fn: fn}
}

func (o *serialObserver) notify(event models.ProgressEvent) {
	if o.fn == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fn(event)
}
