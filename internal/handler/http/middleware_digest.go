package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/utils"
)

// digestHeader carries the hex sha384 digest of the raw request body.
const digestHeader = "X-Content-SHA384"

// withBodyDigest checks the request body against the digest announced in
// digestHeader. Requests without the header pass unchecked.
func withBodyDigest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		announced := strings.ToLower(strings.TrimSpace(r.Header.Get(digestHeader)))
		if announced == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "withBodyDigest").Msg("failed to read request body")
			utils.WriteError(w, ErrInvalidBody, http.StatusBadRequest)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		computed := utils.HashHex(body)
		if computed != announced {
			log.Error().Str("func", "withBodyDigest").
				Str("announced", announced).
				Str("computed", computed).
				Msg("body digests are not equal")
			utils.WriteError(w, ErrIntegrityCheck, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
