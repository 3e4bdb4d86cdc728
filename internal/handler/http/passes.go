package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/service"
	"github.com/MKhiriev/go-case-sync/internal/utils"
	"github.com/MKhiriev/go-case-sync/models"
	"github.com/go-chi/chi/v5"
)

// runPass runs one pass of the handler named in the path and answers with
// its report. Candidate failures are part of a 200 report; only a pass that
// could not run yields an error status.
func (h *Handler) runPass(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	var opts service.PassOptions
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			err = fmt.Errorf("%w: %q", ErrInvalidLimit, raw)
			log.Err(err).Str("func", "*Handler.runPass").Msg("invalid limit")
			utils.WriteError(w, err, statusFromError(err))
			return
		}
		opts.Limit = limit
	}

	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	report, err := h.services.SyncService.RunPass(ctx, name, opts)
	if err != nil {
		log.Err(err).Str("func", "*Handler.runPass").Str("handler", name).Msg("pass could not run")
		utils.WriteError(w, err, statusFromError(err))
		return
	}

	log.Info().Str("func", "*Handler.runPass").
		Str("handler", name).
		Int("discovered", report.Discovered).
		Int("failed", report.Count(models.OutcomeFailed)).
		Msg("pass finished")

	if _, err = utils.WriteJSON(w, report, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.runPass").Msg("error writing pass report")
	}
}

func (h *Handler) listHandlers(w http.ResponseWriter, r *http.Request) {
	handlers := h.services.SyncService.Handlers(r.Context())
	if handlers == nil {
		handlers = []models.HandlerConfig{}
	}

	if _, err := utils.WriteJSON(w, handlers, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.listHandlers").Msg("error writing handlers")
	}
}
