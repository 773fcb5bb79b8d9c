// Package httptransport is the thin HTTP layer: it decodes request bodies,
// hands them to the dispatcher, and encodes the response envelope. Business
// logic stays behind the dispatcher so transport concerns remain isolated.
package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"scoreapi/internal/method"
	"scoreapi/internal/platform/metrics"
	"scoreapi/pkg/requestcontext"
)

// Dispatcher is the slice of the method layer the handler needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, body map[string]any, mctx *method.Context) (any, int)
}

// Handler serves the method endpoint.
type Handler struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	m          *metrics.Metrics
}

// New constructs the handler. The metrics may be nil.
func New(dispatcher Dispatcher, logger *slog.Logger, m *metrics.Metrics) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{dispatcher: dispatcher, logger: logger, m: m}
}

// Register mounts the method endpoint. Both the bare and the trailing-slash
// forms are accepted, matching the historical clients.
func (h *Handler) Register(r chi.Router) {
	r.Post("/method", h.HandleMethod)
	r.Post("/method/", h.HandleMethod)
}

// HandleMethod handles POST /method/ requests.
func (h *Handler) HandleMethod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	mctx := &method.Context{RequestID: requestcontext.RequestID(ctx)}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeEnvelope(w, method.StatusBadRequest, nil)
		return
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		h.logger.InfoContext(ctx, "malformed request body", "request_id", mctx.RequestID, "error", err)
		writeEnvelope(w, method.StatusBadRequest, nil)
		return
	}

	resp, code := h.dispatcher.Dispatch(ctx, body, mctx)

	h.logger.InfoContext(ctx, "request dispatched",
		"request_id", mctx.RequestID,
		"path", r.URL.Path,
		"code", code,
		"has", mctx.Has,
		"nclients", mctx.NClients,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if h.m != nil {
		h.m.ObserveRequest(methodName(body), code, time.Since(start))
	}

	writeEnvelope(w, code, resp)
}

// HandleHealth handles GET /healthz liveness probes.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// methodName returns the metric label for a request body. Only the known
// method names pass through so client-supplied strings cannot grow the label
// cardinality unbounded.
func methodName(body map[string]any) string {
	switch name, _ := body["method"].(string); name {
	case method.MethodOnlineScore, method.MethodClientsInterests:
		return name
	}
	return "unknown"
}
