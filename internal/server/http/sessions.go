package http

import (
	"net/http"
	"time"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/service"
	"github.com/edumentor/learnconnect/pkg/httpx"
)

type SessionsHandler struct {
	Bookings *service.BookingService
}

func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	filter := domain.BookingFilter{Status: r.URL.Query().Get("status")}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.WriteValidationError(w, "invalid filter",
				map[string]string{"from": "must be an RFC3339 timestamp"})
			return
		}
		filter.From = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.WriteValidationError(w, "invalid filter",
				map[string]string{"to": "must be an RFC3339 timestamp"})
			return
		}
		filter.To = t
	}

	views, err := h.Bookings.List(r.Context(), userID, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"sessions": toSessions(views)})
}

type bookSessionRequest struct {
	TutorID         string    `json:"tutorId" validate:"required"`
	SkillID         string    `json:"skillId" validate:"required"`
	StartsAt        time.Time `json:"startsAt" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"required,gte=15,lte=240"`
}

func (h *SessionsHandler) HandleBook(w http.ResponseWriter, r *http.Request) {
	var req bookSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := httpx.UserIDFromCtx(r.Context())
	view, err := h.Bookings.Book(r.Context(), userID, req.TutorID, req.SkillID, req.StartsAt, req.DurationMinutes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSession(*view))
}

func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	view, err := h.Bookings.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSession(*view))
}

func (h *SessionsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	if _, err := h.Bookings.Cancel(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionsHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	msgs, err := h.Bookings.ListMessages(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]messagePayload, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessage(m))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"messages": out})
}

type sendMessageRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

func (h *SessionsHandler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := httpx.UserIDFromCtx(r.Context())
	msg, err := h.Bookings.PostMessage(r.Context(), userID, r.PathValue("id"), req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toMessage(*msg))
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

type reviewPayload struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

func (h *SessionsHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := httpx.UserIDFromCtx(r.Context())
	review, err := h.Bookings.Review(r.Context(), userID, r.PathValue("id"), req.Rating, req.Comment)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, reviewPayload{
		ID:        review.ID,
		SessionID: review.BookingID,
		Rating:    review.Rating,
		Comment:   review.Comment,
	})
}
