package handlers

import (
	"net/http"

	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/models"
	"sadhna-backend/internal/services"
	"sadhna-backend/pkg/utils"
)

type EmployeeHandler struct {
	Service *services.EmployeeService
}

func NewEmployeeHandler(s *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{Service: s}
}

func (h *EmployeeHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, employees)
}

// Profile returns the caller's own employee record with this month's figures
func (h *EmployeeHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Service.Profile(r.Context(), callerFrom(r).UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, profile)
}

func (h *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	employee, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	employee, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Infof("[Employees] created %d (%s)", employee.ID, employee.Name)
	utils.JSON(w, http.StatusCreated, employee)
}

func (h *EmployeeHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	employee, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.Message(w, http.StatusOK, "Employee deleted")
}
