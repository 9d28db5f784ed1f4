package http

import (
	"net/http"

	"github.com/edumentor/learnconnect/internal/server/service"
	"github.com/edumentor/learnconnect/pkg/httpx"
)

type SkillsHandler struct {
	Skills *service.SkillService
}

func (h *SkillsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	skills, err := h.Skills.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"skills": toSkills(skills)})
}

func (h *SkillsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	skills, err := h.Skills.ListMine(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"skills": toSkills(skills)})
}

type addSkillRequest struct {
	SkillID string `json:"skillId" validate:"required"`
}

func (h *SkillsHandler) HandleAddMine(w http.ResponseWriter, r *http.Request) {
	var req addSkillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := httpx.UserIDFromCtx(r.Context())
	if _, err := h.Skills.AddMine(r.Context(), userID, req.SkillID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
