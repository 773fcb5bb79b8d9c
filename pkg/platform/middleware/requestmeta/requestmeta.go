// Package requestmeta provides middleware that stamps each request with an
// identifier and a request-scoped time. Both are stored via pkg/requestcontext
// so handlers and services stay free of HTTP concerns.
package requestmeta

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"scoreapi/pkg/requestcontext"
)

// HeaderRequestID is the inbound and outbound request id header.
const HeaderRequestID = "X-Request-Id"

// RequestID takes the request id from the inbound header, or generates a
// fresh one, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestTime captures the current time at the start of the request so every
// time-sensitive check within it sees the same instant.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
