package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/utils"
)

// flattenSchema answers with the body schema fragment with every local $ref
// inlined.
func (h *Handler) flattenSchema(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var fragment map[string]any
	if err := decodeObject(r, &fragment); err != nil {
		log.Err(err).Str("func", "*Handler.flattenSchema").Msg("invalid body")
		utils.WriteError(w, err, http.StatusBadRequest)
		return
	}

	flattened, err := h.services.SchemaService.Flatten(r.Context(), fragment)
	if err != nil {
		log.Err(err).Str("func", "*Handler.flattenSchema").Msg("error flattening schema")
		utils.WriteError(w, err, statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, flattened, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.flattenSchema").Msg("error writing schema")
	}
}

// decodeObject decodes the request body into v, which must end up a
// non-nil JSON object.
func decodeObject(r *http.Request, v *map[string]any) error {
	if err := utils.DecodeJSON(r.Body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if *v == nil {
		return ErrInvalidBody
	}
	return nil
}
