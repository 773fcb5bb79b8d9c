package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scoreapi/internal/method"
	"scoreapi/pkg/platform/middleware/requestmeta"
)

// NewRouter wires the public endpoints. Unknown paths answer with the JSON
// 404 envelope instead of chi's plain-text default so every response the
// service emits is well-formed JSON.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestmeta.RequestID)
	r.Use(requestmeta.RequestTime)
	r.Use(recoverer(h.logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, method.StatusNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{
			Error: http.StatusText(http.StatusMethodNotAllowed),
			Code:  http.StatusMethodNotAllowed,
		})
	})

	r.Get("/healthz", h.HandleHealth)
	h.Register(r)
	return r
}
