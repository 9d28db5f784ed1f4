package learnsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed API call. Every error returned by the SDK's
// HTTP layer carries exactly one kind so callers can branch without string
// matching.
type ErrorKind string

const (
	// KindNetworkUnavailable covers transport failures: no connectivity,
	// DNS errors, timeouts, connection resets.
	KindNetworkUnavailable ErrorKind = "network_unavailable"

	// KindUnauthorized covers bad credentials and expired or invalid tokens.
	KindUnauthorized ErrorKind = "unauthorized"

	// KindForbidden means the caller is authenticated but not allowed.
	KindForbidden ErrorKind = "forbidden"

	// KindNotFound means the requested resource does not exist.
	KindNotFound ErrorKind = "not_found"

	// KindValidationFailed carries per-field messages for a rejected payload.
	KindValidationFailed ErrorKind = "validation_failed"

	// KindServerError covers 5xx responses.
	KindServerError ErrorKind = "server_error"

	// KindUnknown is the fallback for responses the SDK cannot classify,
	// including malformed success bodies.
	KindUnknown ErrorKind = "unknown"
)

// APIError is the single normalized error shape surfaced by the SDK. All
// transport and application failures are folded into it at the gateway
// boundary; feature code never sees raw HTTP responses.
type APIError struct {
	Kind        ErrorKind
	Message     string
	FieldErrors map[string]string // populated for KindValidationFailed
	StatusCode  int               // 0 for transport failures
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// AsAPIError unwraps err into an *APIError if one is present.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

// errorBody is the backend's uniform error document. Older endpoints return a
// bare {"error": "..."} instead; both shapes are accepted.
type errorBody struct {
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`

	// Legacy shape
	Error string `json:"error"`
}

// networkError wraps a transport-level failure.
func networkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetworkUnavailable,
		Message: err.Error(),
	}
}

// kindForStatus maps an HTTP status to an error kind. Validation takes
// precedence when the body carried field errors.
func kindForStatus(status int, hasFieldErrors bool) ErrorKind {
	switch {
	case hasFieldErrors:
		return KindValidationFailed
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidationFailed
	case status >= 500:
		return KindServerError
	default:
		return KindUnknown
	}
}

// normalizeErrorResponse turns a non-2xx response body into an *APIError.
func normalizeErrorResponse(status int, body []byte) *APIError {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		message := parsed.Message
		if message == "" {
			message = parsed.Error
		}
		if message != "" || parsed.Code != "" {
			return &APIError{
				Kind:        kindForStatus(status, len(parsed.FieldErrors) > 0),
				Message:     message,
				FieldErrors: parsed.FieldErrors,
				StatusCode:  status,
			}
		}
	}

	// Undecodable body: classify by status alone.
	return &APIError{
		Kind:       kindForStatus(status, false),
		Message:    fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)),
		StatusCode: status,
	}
}
