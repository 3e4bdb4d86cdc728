package http

import (
	"net/http"
)

// getServerVersion writes the application version as plain text and names
// the server in the Server header.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	info := h.services.AppInfoService

	w.Header().Set("Server", info.GetServerName(r.Context()))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(info.GetAppVersion(r.Context()))); err != nil {
		h.logger.Err(err).Str("func", "*Handler.getServerVersion").Msg("error writing version")
	}
}
