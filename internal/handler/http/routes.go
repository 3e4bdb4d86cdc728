package http

import (
	"net/http"

	"github.com/MKhiriev/go-case-sync/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, withLogging, withGZip)

	router.Get("/api/version", h.getServerVersion)

	// handlers and passes
	router.Get("/api/handlers", h.listHandlers)
	router.Post("/api/handlers/{name}/run", h.runPass)

	// local objects
	router.Get("/api/objects/{id}", h.getObject)
	router.Get("/api/objects/{id}/synchronizations", h.listSynchronizations)

	// schemas; bodies may carry a digest header
	router.Group(func(r chi.Router) {
		r.Use(withBodyDigest)
		r.Post("/api/schemas/flatten", h.flattenSchema)
		r.Post("/api/schemas/{schema}/objects", h.ingestObject)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, nil, http.StatusNotFound)
	})
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
