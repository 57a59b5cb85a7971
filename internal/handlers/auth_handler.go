package handlers

import (
	"net/http"

	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/middleware"
	"sadhna-backend/internal/models"
	"sadhna-backend/internal/services"
	"sadhna-backend/pkg/utils"
)

type AuthHandler struct {
	UserService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{UserService: userService}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.UserService.Login(r.Context(), &req, middleware.ClientIP(r))
	if err != nil {
		logger.FromContext(r.Context()).Warnf("[Auth] login failed for %q: %v", req.Username, err)
		writeServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Infof("[Auth] %s logged in as %s", resp.Username, resp.Role)
	utils.JSON(w, http.StatusOK, resp)
}

// Register creates a login for another person. Admin only.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.UserService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUser(r.Context(), callerFrom(r).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
