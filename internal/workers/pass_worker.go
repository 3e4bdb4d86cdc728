// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/service"
	"github.com/MKhiriev/go-case-sync/models"
)

// passWorker runs one handler immediately and then every interval. Passes
// of the same worker never overlap: a tick arriving during a pass is
// dropped by the ticker.
type passWorker struct {
	runner   PassRunner
	handler  string
	interval time.Duration
	observer models.ProgressObserver

	logger *logger.Logger
}

func newPassWorker(runner PassRunner, handler string, interval time.Duration, observer models.ProgressObserver, logger *logger.Logger) *passWorker {
	return &passWorker{
		runner:   runner,
		handler:  handler,
		interval: interval,
		observer: observer,
		logger:   logger,
	}
}

func (w *passWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// RunPass logs through the context logger
	ctx = w.logger.WithContext(ctx)

	w.logger.Info().Str("handler", w.handler).Dur("interval", w.interval).Msg("scheduled passes started")

	for {
		w.runOnce(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info().Str("handler", w.handler).Msg("scheduled passes stopped")
			return
		case <-ticker.C:
		}
	}
}

func (w *passWorker) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	report, err := w.runner.RunPass(ctx, w.handler, service.PassOptions{Observer: w.observer})
	if err != nil {
		w.logger.Err(err).Str("func", "*passWorker.runOnce").Str("handler", w.handler).Msg("scheduled pass could not run")
		return
	}

	w.logger.Info().
		Str("handler", w.handler).
		Int("discovered", report.Discovered).
		Int("synced", report.Count(models.OutcomeSynced)).
		Int("published", report.Count(models.OutcomePublished)).
		Int("failed", report.Count(models.OutcomeFailed)).
		Int("skipped", report.Count(models.OutcomeSkipped)).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("scheduled pass finished")
}
