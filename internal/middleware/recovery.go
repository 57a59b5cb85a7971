package middleware

import (
	"net/http"
	"runtime/debug"

	"sadhna-backend/internal/logger"
	"sadhna-backend/pkg/utils"
)

func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.FromContext(r.Context()).Errorf("PANIC RECOVERED: %v\n%s", err, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, utils.GenericErrorMessage)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
