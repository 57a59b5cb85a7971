package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/handlers"

	"sadhna-backend/internal/logger"
)

// AccessLog writes one line per request through logrus. Health probes and
// metric scrapes are skipped.
func AccessLog(next http.Handler) http.Handler {
	logged := handlers.CustomLoggingHandler(logger.Default().Writer(), next, writeAccessLine)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		logged.ServeHTTP(w, r)
	})
}

func writeAccessLine(w io.Writer, p handlers.LogFormatterParams) {
	fmt.Fprintf(w, "%s %s %s %d %dB %s\n",
		ClientIP(p.Request),
		p.Request.Method,
		sanitizeURL(p.URL),
		p.StatusCode,
		p.Size,
		time.Since(p.TimeStamp).Round(time.Millisecond),
	)
}

func shouldSkipLogging(path string) bool {
	for _, skip := range []string{"/health", "/metrics", "/favicon.ico"} {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}
	return false
}

// sanitizeURL masks the token query parameter used by downloads and /ws.
func sanitizeURL(u url.URL) string {
	q := u.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
		u.RawQuery = q.Encode()
	}
	s := u.RequestURI()
	if len(s) > 500 {
		s = s[:500]
	}
	return s
}

// ClientIP returns the caller address, honouring proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
