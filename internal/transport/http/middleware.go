package httptransport

import (
	"log/slog"
	"net/http"

	"scoreapi/internal/method"
	"scoreapi/pkg/requestcontext"
)

// recoverer converts a handler panic into the JSON 500 envelope. Stack traces
// stay in the log; the caller only ever sees well-formed JSON.
func recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "handler panic",
						"request_id", requestcontext.RequestID(r.Context()),
						"path", r.URL.Path,
						"panic", rec,
					)
					writeEnvelope(w, method.StatusInternalError, nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
