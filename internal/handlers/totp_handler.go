package handlers

import (
	"net/http"

	"sadhna-backend/internal/middleware"
	"sadhna-backend/internal/models"
	"sadhna-backend/internal/services"
	"sadhna-backend/pkg/utils"
)

type TOTPHandler struct {
	TOTPService *services.TOTPService
	UserService *services.UserService
}

func NewTOTPHandler(totpService *services.TOTPService, userService *services.UserService) *TOTPHandler {
	return &TOTPHandler{
		TOTPService: totpService,
		UserService: userService,
	}
}

// SetupTOTP starts enrolment and returns the secret and QR code
func (h *TOTPHandler) SetupTOTP(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUser(r.Context(), callerFrom(r).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if user.TOTPEnabled {
		utils.Error(w, http.StatusBadRequest, "2FA is already enabled")
		return
	}

	response, err := h.TOTPService.Setup(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, response)
}

// EnableTOTP confirms a code against the pending secret
func (h *TOTPHandler) EnableTOTP(w http.ResponseWriter, r *http.Request) {
	code, ok := readCode(w, r)
	if !ok {
		return
	}

	if err := h.TOTPService.Enable(r.Context(), callerFrom(r).UserID, code, middleware.ClientIP(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.Message(w, http.StatusOK, "2FA enabled")
}

func (h *TOTPHandler) DisableTOTP(w http.ResponseWriter, r *http.Request) {
	code, ok := readCode(w, r)
	if !ok {
		return
	}

	if err := h.TOTPService.Disable(r.Context(), callerFrom(r).UserID, code, middleware.ClientIP(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.Message(w, http.StatusOK, "2FA disabled")
}

func readCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req models.TOTPCodeRequest
	if !decodeJSON(w, r, &req) {
		return "", false
	}
	if req.Code == "" {
		utils.Error(w, http.StatusBadRequest, "Verification code is required")
		return "", false
	}
	return req.Code, true
}
