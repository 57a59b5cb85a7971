package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"sadhna-backend/internal/services"
	"sadhna-backend/pkg/utils"
)

// memory kept for form parsing; larger parts spill to temp files
const multipartMemory = 8 << 20

// parseMultipart caps the body at maxFiles uploads of the maximum size plus
// room for text fields.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxFiles int) bool {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxFiles)*services.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			utils.Error(w, http.StatusBadRequest, services.ErrFileTooLarge.Message)
			return false
		}
		utils.Error(w, http.StatusBadRequest, "Invalid form data")
		return false
	}
	return true
}

func formValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// formUploads opens every file part in field order. The returned closer must
// be called once the uploads have been consumed.
func formUploads(form *multipart.Form) ([]services.Upload, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	if form == nil {
		return nil, closeAll, nil
	}

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var uploads []services.Upload
	for _, field := range fields {
		for _, fh := range form.File[field] {
			f, err := fh.Open()
			if err != nil {
				closeAll()
				return nil, func() {}, err
			}
			opened = append(opened, f)
			uploads = append(uploads, services.Upload{
				Field:    field,
				Filename: fh.Filename,
				Size:     fh.Size,
				Body:     f,
			})
		}
	}
	return uploads, closeAll, nil
}
