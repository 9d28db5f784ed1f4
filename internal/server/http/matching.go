package http

import (
	"net/http"
	"strconv"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/service"
	"github.com/edumentor/learnconnect/pkg/httpx"
)

type MatchingHandler struct {
	Matching *service.MatchingService
}

func (h *MatchingHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.TutorFilter{Skill: q.Get("skill")}

	if raw := q.Get("minRating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 5 {
			httpx.WriteValidationError(w, "invalid filter",
				map[string]string{"minRating": "must be a number between 0 and 5"})
			return
		}
		filter.MinRating = v
	}
	if raw := q.Get("maxRate"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			httpx.WriteValidationError(w, "invalid filter",
				map[string]string{"maxRate": "must be a non-negative number"})
			return
		}
		filter.MaxRate = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 100 {
			httpx.WriteValidationError(w, "invalid filter",
				map[string]string{"limit": "must be an integer between 1 and 100"})
			return
		}
		filter.Limit = v
	}

	listings, err := h.Matching.Search(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]tutorMatchPayload, 0, len(listings))
	for _, l := range listings {
		out = append(out, toTutorMatch(l))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"tutors": out})
}
