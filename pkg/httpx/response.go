// Package httpx holds the shared HTTP plumbing: JSON responses, the error
// envelope, middleware chaining, bearer auth, and rate limiting.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the uniform error envelope every endpoint returns. Clients
// key off code and status; fieldErrors is present only for validation
// failures.
type ErrorBody struct {
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It sets Content-Type and no-store cache headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the uniform error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorBody{Code: code, Message: message})
}

// WriteValidationError writes a 422 envelope carrying per-field messages.
func WriteValidationError(w http.ResponseWriter, message string, fieldErrors map[string]string) {
	WriteJSON(w, http.StatusUnprocessableEntity, ErrorBody{
		Code:        "validation_failed",
		Message:     message,
		FieldErrors: fieldErrors,
	})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for token-bearing responses.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
