package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/storage"
	"sadhna-backend/pkg/utils"
)

// UploadHandler streams stored objects under /uploads/{key}.
type UploadHandler struct {
	Files storage.Driver
}

func NewUploadHandler(files storage.Driver) *UploadHandler {
	return &UploadHandler{Files: files}
}

func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if err := storage.ValidateKey(key); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid file path")
		return
	}

	body, contentType, err := h.Files.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "File not found")
			return
		}
		logger.FromContext(r.Context()).Errorf("[Uploads] open %s: %v", key, err)
		utils.Error(w, http.StatusInternalServerError, utils.GenericErrorMessage)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		logger.FromContext(r.Context()).Warnf("[Uploads] streaming %s: %v", key, err)
	}
}
