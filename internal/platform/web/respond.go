package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes carried in the error body so clients can map failures back
// to typed errors without parsing messages.
const (
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeInvalidState = "invalid_state"
	CodeBadRequest   = "bad_request"
	CodeUnauthorized = "unauthorized"
	CodeInternal     = "internal"
)

type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorBody{Error: message, Code: code})
}
