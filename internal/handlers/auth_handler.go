package handlers

import (
	"encoding/json"
	"net/http"

	"electric-backend/internal/middleware"
	"electric-backend/internal/models"
	"electric-backend/internal/services"
	"electric-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Register creates an admin account. Gated by the shared secret code.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.Register(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, "Admin registered", map[string]interface{}{
		"token": resp.Token,
		"user":  resp.User,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if result.Requires2FA {
		utils.Success(w, http.StatusOK, "2FA code required", map[string]interface{}{
			"requires2fa": true,
			"tempToken":   result.TempToken,
		})
		return
	}

	utils.Success(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token": result.Token,
		"user":  result.User,
	})
}

// Me returns the authenticated caller's record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	user, err := h.Service.GetMe(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "", map[string]interface{}{"user": user})
}

// Verify confirms the presented token still maps to an active account.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	user, err := h.Service.GetMe(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "", map[string]interface{}{
		"valid": true,
		"user":  user,
	})
}

// UpdateProfile patches the caller's own contact fields.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.Service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Profile updated", map[string]interface{}{"user": user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Password changed", nil)
}
