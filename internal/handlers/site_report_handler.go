package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sadhna-backend/internal/models"
	"sadhna-backend/internal/services"
	"sadhna-backend/pkg/utils"
)

const photoField = "photos"

type SiteReportHandler struct {
	Service *services.SiteReportService
}

func NewSiteReportHandler(s *services.SiteReportService) *SiteReportHandler {
	return &SiteReportHandler{Service: s}
}

func (h *SiteReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, reports)
}

func (h *SiteReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	report, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

func (h *SiteReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, models.MaxSitePhotos) {
		return
	}
	in, ok := reportForm(w, r)
	if !ok {
		return
	}
	photos, done, ok := photoUploads(w, r)
	if !ok {
		return
	}
	defer done()

	report, err := h.Service.Create(r.Context(), callerFrom(r), in, photos)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, report)
}

// UpdateReport applies changed fields, drops the photos listed in the
// removedPhotos JSON array and appends new uploads.
func (h *SiteReportHandler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !parseMultipart(w, r, models.MaxSitePhotos) {
		return
	}
	in, ok := reportForm(w, r)
	if !ok {
		return
	}

	var removed []int
	if raw := formValue(r, "removedPhotos"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &removed); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid removedPhotos value")
			return
		}
	}

	photos, done, ok := photoUploads(w, r)
	if !ok {
		return
	}
	defer done()

	report, err := h.Service.Update(r.Context(), callerFrom(r), id, in, removed, photos)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

func (h *SiteReportHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), callerFrom(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.Message(w, http.StatusOK, "Report deleted successfully")
}

func (h *SiteReportHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.Service.AddComment(r.Context(), callerFrom(r), id, req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, comment)
}

// reportForm reads only the fields present in the form so updates stay partial.
func reportForm(w http.ResponseWriter, r *http.Request) (*models.SiteReportInput, bool) {
	values := r.MultipartForm.Value
	field := func(name string) *string {
		if _, ok := values[name]; !ok {
			return nil
		}
		v := formValue(r, name)
		return &v
	}

	in := &models.SiteReportInput{
		Title:       field("title"),
		Description: field("description"),
		Location:    field("location"),
		Status:      field("status"),
	}
	if p := field("progress"); p != nil && *p != "" {
		progress, err := strconv.Atoi(*p)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Progress must be between 0 and 100")
			return nil, false
		}
		in.Progress = &progress
	}
	return in, true
}

// photoUploads takes the photos field; any other file field is rejected.
// Optional captions are matched to photos by position.
func photoUploads(w http.ResponseWriter, r *http.Request) ([]services.Upload, func(), bool) {
	uploads, done, err := formUploads(r.MultipartForm)
	if err != nil {
		writeServiceError(w, r, err)
		return nil, nil, false
	}
	captions := r.MultipartForm.Value["captions"]
	for i := range uploads {
		if uploads[i].Field != photoField {
			done()
			utils.Error(w, http.StatusBadRequest, "Invalid file field. Please check the file upload fields.")
			return nil, nil, false
		}
		if i < len(captions) {
			uploads[i].Caption = captions[i]
		}
	}
	return uploads, done, true
}
