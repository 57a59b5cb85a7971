package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"sadhna-backend/internal/models"
	"sadhna-backend/internal/services"
	"sadhna-backend/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AttendanceHandler struct {
	Service *services.AttendanceService
}

func NewAttendanceHandler(s *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{Service: s}
}

func (h *AttendanceHandler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *AttendanceHandler) AddAttendance(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.Service.Add(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, record)
}

// MyAttendance lists the caller's own records
func (h *AttendanceHandler) MyAttendance(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)
	records, err := h.Service.ListMine(r.Context(), caller.UserID, caller.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *AttendanceHandler) EmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	records, err := h.Service.ListByEmployee(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, records)
}

// ExportAttendance streams the month's workbook as an attachment
func (h *AttendanceHandler) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	month, year, ok := monthYear(w, r)
	if !ok {
		return
	}

	data, err := h.Service.ExportMonth(r.Context(), month, year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%d-%02d.xlsx"`, year, month))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
