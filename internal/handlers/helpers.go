package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/middleware"
	"sadhna-backend/internal/services"
	"sadhna-backend/pkg/utils"
)

// writeServiceError maps a service error to its status. Unknown errors are
// logged and reported with the generic message only.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrDataIntegrity):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		utils.Error(w, status, utils.GenericErrorMessage)
		return
	}

	msg := err.Error()
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		msg = svcErr.Message
	}
	utils.Error(w, status, msg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pathID parses a numeric route variable, writing 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		utils.Error(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}

// queryInt returns 0 when the parameter is absent.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return v, true
}

func callerFrom(r *http.Request) services.Caller {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	name, _ := middleware.GetUsernameFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())
	return services.Caller{UserID: id, Username: name, Role: role}
}
