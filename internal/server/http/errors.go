package http

import (
	"errors"
	"net/http"

	"github.com/edumentor/learnconnect/internal/server/service"
	"github.com/edumentor/learnconnect/internal/server/store"
	"github.com/edumentor/learnconnect/pkg/httpx"
	"github.com/edumentor/learnconnect/pkg/slogx"
)

// writeServiceError maps service-layer failures onto the wire's uniform
// error document.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "resource not found")

	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "you are not a participant of this session")

	case errors.Is(err, service.ErrNotTutor):
		httpx.WriteValidationError(w, "invalid booking",
			map[string]string{"tutorId": "must reference a tutor account"})

	case errors.Is(err, service.ErrUnknownSkill):
		httpx.WriteValidationError(w, "invalid booking",
			map[string]string{"skillId": "unknown skill"})

	case errors.Is(err, service.ErrInvalidSchedule):
		httpx.WriteValidationError(w, "invalid booking",
			map[string]string{"startsAt": "session must be in the future with a 15-240 minute duration"})

	case errors.Is(err, service.ErrInvalidTransition):
		httpx.WriteValidationError(w, "only booked sessions can be cancelled", nil)

	case errors.Is(err, service.ErrNotCompleted):
		httpx.WriteValidationError(w, "only completed sessions can be reviewed", nil)

	case errors.Is(err, service.ErrAlreadyReviewed):
		httpx.WriteValidationError(w, "session already reviewed", nil)

	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal server error")
	}
}
