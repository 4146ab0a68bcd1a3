package httpapi

import (
	"encoding/json"
	"net/http"
)

// APIError is the error envelope every endpoint answers with: a stable
// machine-readable code, a human-readable message, and the request id so a
// caller can quote the failing request back.
type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

// WriteJSON writes v with the given status. The encode error is dropped;
// once the status line is out there is nothing useful left to tell the
// client.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError answers with the APIError envelope, stamping in the request
// id carried on the request context.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}
