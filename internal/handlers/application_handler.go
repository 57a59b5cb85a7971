package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/models"
	"sadhna-backend/internal/services"
	"sadhna-backend/pkg/utils"
)

type ApplicationHandler struct {
	Service *services.ApplicationService
}

func NewApplicationHandler(s *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Service: s}
}

// Register accepts the public worker registration form with its documents
func (h *ApplicationHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, len(models.DocumentTypes)) {
		return
	}
	uploads, done, err := formUploads(r.MultipartForm)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer done()

	form := &models.RegistrationForm{
		FullName:         formValue(r, "fullName"),
		Surname:          formValue(r, "surname"),
		Email:            formValue(r, "email"),
		Phone:            formValue(r, "phone"),
		DateOfBirth:      formValue(r, "dateOfBirth"),
		Gender:           formValue(r, "gender"),
		Address:          formValue(r, "address"),
		City:             formValue(r, "city"),
		State:            formValue(r, "state"),
		Pincode:          formValue(r, "pincode"),
		EmergencyContact: formValue(r, "emergencyContact"),
		Position:         formValue(r, "position"),
		Experience:       formValue(r, "experience"),
		Username:         formValue(r, "username"),
		Password:         r.FormValue("password"),
		ExpectedSalary:   formValue(r, "expectedSalary"),
		AdditionalInfo:   formValue(r, "additionalInfo"),
	}

	app, err := h.Service.Register(r.Context(), form, uploads)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Infof("[Applications] registration %d from %s for %s", app.ID, app.Username, app.Position)
	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"message":       "Registration successful! Your application is under review. We will contact you soon.",
		"applicationId": app.ID,
	})
}

// Apply is the short application form with an optional resume
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, 1) {
		return
	}
	uploads, done, err := formUploads(r.MultipartForm)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer done()

	form := &models.QuickApplyForm{
		Name:       formValue(r, "name"),
		Email:      formValue(r, "email"),
		Phone:      formValue(r, "phone"),
		Position:   formValue(r, "position"),
		Experience: formValue(r, "experience"),
		Message:    formValue(r, "message"),
	}

	app, err := h.Service.Apply(r.Context(), form, uploads)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"message":       "Application submitted successfully",
		"applicationId": app.ID,
	})
}

func (h *ApplicationHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, apps)
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.ApplicationStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	app, err := h.Service.UpdateStatus(r.Context(), id, req.Status, callerFrom(r), req.ReviewComments)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Application status updated successfully",
		"application": app,
	})
}

// Hire creates the login and employee record for an applicant
func (h *ApplicationHandler) Hire(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.HireRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	caller := callerFrom(r)
	resp, err := h.Service.Hire(r.Context(), id, &req, caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Infof("[Applications] %s hired application %d as %s", caller.Username, id, resp.EmployeeInfo.Role)
	utils.JSON(w, http.StatusCreated, resp)
}

func (h *ApplicationHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, models.DocResume)
}

func (h *ApplicationHandler) Document(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, mux.Vars(r)["type"])
}

func (h *ApplicationHandler) serveDocument(w http.ResponseWriter, r *http.Request, docType string) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	body, contentType, filename, inline, err := h.Service.Document(r.Context(), id, docType)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer body.Close()

	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		logger.FromContext(r.Context()).Warnf("[Applications] streaming %s of %d: %v", docType, id, err)
	}
}
