package handlers

import (
	"net/http"

	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/models"
	"sadhna-backend/internal/services"
	"sadhna-backend/pkg/utils"
)

type LeaveHandler struct {
	Service *services.LeaveService
}

func NewLeaveHandler(s *services.LeaveService) *LeaveHandler {
	return &LeaveHandler{Service: s}
}

func (h *LeaveHandler) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	var req models.ApplyLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	leave, err := h.Service.Apply(r.Context(), callerFrom(r), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Leave applied successfully",
		"leaveId": leave.ID,
	})
}

func (h *LeaveHandler) MyLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Service.ListMine(r.Context(), callerFrom(r).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, leaves)
}

func (h *LeaveHandler) AllLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Service.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, leaves)
}

// UpdateLeaveStatus serves both PUT /leaves/{id}/status and the older
// PATCH /leaves/admin/{id}.
func (h *LeaveHandler) UpdateLeaveStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	leave, err := h.Service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Infof("[Leaves] %s set leave %d to %s", callerFrom(r).Username, id, leave.Status)
	utils.JSON(w, http.StatusOK, leave)
}
