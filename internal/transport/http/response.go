package httptransport

import (
	"encoding/json"
	"net/http"

	"scoreapi/internal/method"
)

// envelope is the wire shape of every response. Exactly one of Response and
// Error is set, and Code always matches the HTTP status.
type envelope struct {
	Response any    `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
	Code     int    `json:"code"`
}

// writeEnvelope writes the response envelope for a dispatch result. Error
// codes carry their canonical message; anything else carries the result.
func writeEnvelope(w http.ResponseWriter, code int, result any) {
	if text, isError := method.StatusText[code]; isError {
		writeJSON(w, code, envelope{Error: text, Code: code})
		return
	}
	writeJSON(w, code, envelope{Response: result, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
