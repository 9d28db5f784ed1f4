package http

import (
	"errors"
	"net/http"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/service"
	"github.com/edumentor/learnconnect/pkg/httpx"
	"github.com/edumentor/learnconnect/pkg/slogx"
)

type AuthHandler struct {
	Auth  *service.AuthService
	Users *service.UserService
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authPayload{User: toProfile(res.User), Tokens: res.Tokens})
}

type registerRequest struct {
	Name       string  `json:"name" validate:"required,max=100"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8,max=128"`
	Role       string  `json:"role" validate:"required,oneof=learner tutor"`
	Bio        string  `json:"bio" validate:"omitempty,max=2000"`
	HourlyRate float64 `json:"hourlyRate" validate:"omitempty,gte=0,lte=1000"`
	Timezone   string  `json:"timezone" validate:"omitempty,max=64"`
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Auth.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			httpx.WriteValidationError(w, "registration failed",
				map[string]string{"email": "already registered"})
			return
		}
		writeServiceError(w, r, err)
		return
	}

	// Optional profile fields ride along on registration.
	user := res.User
	if req.Bio != "" || req.HourlyRate > 0 || req.Timezone != "" {
		patch := domain.ProfilePatch{}
		if req.Bio != "" {
			patch.Bio = &req.Bio
		}
		if req.HourlyRate > 0 {
			patch.HourlyRate = &req.HourlyRate
		}
		if req.Timezone != "" {
			patch.Timezone = &req.Timezone
		}
		updated, err := h.Users.UpdateProfile(r.Context(), user.ID, patch)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		user = *updated
	}

	httpx.WriteJSON(w, http.StatusCreated, authPayload{User: toProfile(user), Tokens: res.Tokens})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pair, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.RefreshToken != "" {
		if err := h.Auth.Logout(r.Context(), req.RefreshToken); err != nil {
			slogx.FromContext(r.Context()).Warn("logout revocation failed", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
