// Package method implements the request envelope, its authentication, and the
// dispatch of validated calls to the business collaborators.
package method

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"scoreapi/internal/platform/metrics"
	"scoreapi/internal/scoring"
	"scoreapi/pkg/requestcontext"
)

// Response codes. They double as HTTP statuses at the transport layer.
const (
	StatusOK             = 200
	StatusBadRequest     = 400
	StatusForbidden      = 403
	StatusNotFound       = 404
	StatusInvalidRequest = 422
	StatusInternalError  = 500
)

// StatusText maps error codes to their canonical response messages. A code
// absent from the map is a success.
var StatusText = map[int]string{
	StatusBadRequest:     "Bad Request",
	StatusForbidden:      "Forbidden",
	StatusNotFound:       "Not Found",
	StatusInvalidRequest: "Invalid Request",
	StatusInternalError:  "Internal Server Error",
}

// AdminScore is returned for the admin identity without consulting the store.
const AdminScore = 42

// Context accumulates observable side effects of one dispatched request,
// mirrored into the access log.
type Context struct {
	RequestID string
	Has       []string // argument keys supplied to online_score
	NClients  int      // number of client ids in clients_interests
}

// Dispatcher authenticates envelopes and multiplexes them onto the business
// methods. The store client is injected once at construction and handed to
// every collaborator call.
type Dispatcher struct {
	store  scoring.Store
	salts  Salts
	logger *slog.Logger
	m      *metrics.Metrics
}

// NewDispatcher wires the dispatcher. The metrics may be nil.
func NewDispatcher(store scoring.Store, salts Salts, logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{store: store, salts: salts, logger: logger, m: m}
}

// Dispatch runs one decoded request body through validation, authentication
// and method multiplexing, and returns the result with a response code.
// Every failure inside this pipeline is absorbed into a code; nothing
// propagates to the transport layer as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, body map[string]any, mctx *Context) (any, int) {
	if len(body) == 0 {
		return nil, StatusInvalidRequest
	}
	now := requestcontext.Now(ctx)

	req, err := ParseMethodRequest(body, now)
	if err != nil {
		d.logger.InfoContext(ctx, "envelope rejected", "request_id", mctx.RequestID, "error", err)
		return nil, StatusInvalidRequest
	}

	if !CheckAuth(req, now, d.salts) {
		if d.m != nil {
			d.m.IncrementAuthFailures()
		}
		d.logger.InfoContext(ctx, "authentication failed", "request_id", mctx.RequestID, "login", req.Login)
		return nil, StatusForbidden
	}

	if len(req.Arguments) == 0 {
		d.logger.InfoContext(ctx, "empty arguments", "request_id", mctx.RequestID, "method", req.Method)
		return nil, StatusInvalidRequest
	}

	switch req.Method {
	case MethodOnlineScore:
		return d.onlineScore(ctx, req, mctx, now)
	case MethodClientsInterests:
		return d.clientsInterests(ctx, req, mctx, now)
	default:
		d.logger.InfoContext(ctx, "unknown method", "request_id", mctx.RequestID, "method", req.Method)
		return nil, StatusInvalidRequest
	}
}

func (d *Dispatcher) onlineScore(ctx context.Context, req *MethodRequest, mctx *Context, now time.Time) (any, int) {
	r, err := ParseOnlineScoreRequest(req.Arguments, now)
	if err != nil {
		d.logger.InfoContext(ctx, "score arguments rejected", "request_id", mctx.RequestID, "error", err)
		return nil, StatusInvalidRequest
	}
	mctx.Has = sortedKeys(req.Arguments)

	if req.IsAdmin() {
		return map[string]float64{"score": AdminScore}, StatusOK
	}

	score := scoring.Score(ctx, d.store, scoring.Params{
		Phone:       r.Phone,
		Email:       r.Email,
		Birthday:    r.Birthday,
		HasBirthday: r.HasBirthday,
		Gender:      r.Gender,
		HasGender:   r.HasGender,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
	})
	return map[string]float64{"score": score}, StatusOK
}

func (d *Dispatcher) clientsInterests(ctx context.Context, req *MethodRequest, mctx *Context, now time.Time) (any, int) {
	r, err := ParseClientsInterestsRequest(req.Arguments, now)
	if err != nil {
		d.logger.InfoContext(ctx, "interest arguments rejected", "request_id", mctx.RequestID, "error", err)
		return nil, StatusInvalidRequest
	}
	mctx.NClients = len(r.ClientIDs)

	interests := make(map[string][]string, len(r.ClientIDs))
	for _, id := range r.ClientIDs {
		tags, err := scoring.Interests(ctx, d.store, formatClientID(id))
		if err != nil {
			d.logger.ErrorContext(ctx, "interest lookup failed",
				"request_id", mctx.RequestID, "client_id", id, "error", err)
			return nil, StatusInvalidRequest
		}
		interests[formatClientID(id)] = tags
	}
	return interests, StatusOK
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatClientID(id float64) string {
	return strconv.FormatFloat(id, 'f', -1, 64)
}
