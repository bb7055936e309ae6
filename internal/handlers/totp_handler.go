package handlers

import (
	"encoding/json"
	"net/http"

	"electric-backend/internal/middleware"
	"electric-backend/internal/services"
	"electric-backend/pkg/utils"
)

type TOTPHandler struct {
	Service *services.TOTPService
}

func NewTOTPHandler(s *services.TOTPService) *TOTPHandler {
	return &TOTPHandler{Service: s}
}

// Setup generates a fresh TOTP secret and QR code for the calling admin.
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	resp, err := h.Service.GenerateSetup(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "", map[string]interface{}{"setup": resp})
}

type totpCodeRequest struct {
	Code string `json:"code"`
}

func (h *TOTPHandler) Enable(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req totpCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.VerifyAndEnable(r.Context(), userID, req.Code); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "2FA enabled", nil)
}

func (h *TOTPHandler) Disable(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req totpCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Disable(r.Context(), userID, req.Code); err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "2FA disabled", nil)
}

type totpLoginRequest struct {
	TempToken string `json:"tempToken"`
	Code      string `json:"code"`
}

// VerifyLogin completes the second step of an admin login.
func (h *TOTPHandler) VerifyLogin(w http.ResponseWriter, r *http.Request) {
	var req totpLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.CompleteLogin(r.Context(), req.TempToken, req.Code)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token": resp.Token,
		"user":  resp.User,
	})
}
