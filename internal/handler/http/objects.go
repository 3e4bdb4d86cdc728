package http

import (
	"net/http"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/utils"
	"github.com/MKhiriev/go-case-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) getObject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	object, err := h.services.ObjectService.GetObject(r.Context(), id)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getObject").Str("object_id", id).Msg("error getting object")
		utils.WriteError(w, err, statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, object, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.getObject").Msg("error writing object")
	}
}

func (h *Handler) listSynchronizations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	syncs, err := h.services.ObjectService.Synchronizations(r.Context(), id)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listSynchronizations").Str("object_id", id).Msg("error listing synchronizations")
		utils.WriteError(w, err, statusFromError(err))
		return
	}
	if syncs == nil {
		syncs = []models.Synchronization{}
	}

	if _, err = utils.WriteJSON(w, syncs, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.listSynchronizations").Msg("error writing synchronizations")
	}
}

// ingestObject hydrates the JSON object of the body as an object of the
// schema named in the path, creating it or merging into the object with the
// same natural key.
func (h *Handler) ingestObject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	schemaRef := chi.URLParam(r, "schema")

	var fields map[string]any
	if err := decodeObject(r, &fields); err != nil {
		log.Err(err).Str("func", "*Handler.ingestObject").Msg("invalid body")
		utils.WriteError(w, err, http.StatusBadRequest)
		return
	}

	object, err := h.services.ObjectService.Ingest(r.Context(), schemaRef, fields)
	if err != nil {
		log.Err(err).Str("func", "*Handler.ingestObject").Str("schema", schemaRef).Msg("error ingesting object")
		utils.WriteError(w, err, statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, object, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.ingestObject").Msg("error writing object")
	}
}
