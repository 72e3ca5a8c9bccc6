package handlers

import (
	"net/http"

	"github.com/jobzee/jobzee/auth"
	"github.com/jobzee/jobzee/internal/models"
	"github.com/jobzee/jobzee/internal/services"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.svc.Register(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusCreated, "registered", resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.svc.Login(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "logged_in", resp)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.svc.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "token_refreshed", resp)
}

// ForgotPassword always answers 200 so the response does not reveal
// whether the address has an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "password_reset_sent", nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "password_reset", nil)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	user, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "", user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	var req models.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := h.svc.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "profile_updated", user)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	var req models.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.ChangePassword(r.Context(), userID, req); err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "password_changed", nil)
}

// Logout revokes the bearer token. The body may carry the refresh token to
// revoke it as well.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, found := auth.ClaimsFromContext(r.Context())
	if !found {
		failCode(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req models.RefreshTokenRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	if err := h.svc.Logout(r.Context(), claims, req.RefreshToken); err != nil {
		fail(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, "logged_out", nil)
}
