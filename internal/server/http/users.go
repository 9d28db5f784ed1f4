package http

import (
	"net/http"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/service"
	"github.com/edumentor/learnconnect/pkg/httpx"
)

type MeHandler struct {
	Users *service.UserService
}

func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toProfile(*user))
}

type profilePatchRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Bio        *string  `json:"bio" validate:"omitempty,max=2000"`
	HourlyRate *float64 `json:"hourlyRate" validate:"omitempty,gte=0,lte=1000"`
	Timezone   *string  `json:"timezone" validate:"omitempty,max=64"`
}

func (h *MeHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var req profilePatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := httpx.UserIDFromCtx(r.Context())
	patch := domain.ProfilePatch{
		Name:       req.Name,
		Bio:        req.Bio,
		HourlyRate: req.HourlyRate,
		Timezone:   req.Timezone,
	}

	user, err := h.Users.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProfile(*user))
}
