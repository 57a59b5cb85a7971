package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"sadhna-backend/internal/config"
)

func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.Server.CorsAllowedOrigins
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: cfg.Server.CorsAllowedMethods,
		AllowedHeaders: cfg.Server.CorsAllowedHeaders,
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		// credentials cannot be combined with a wildcard origin
		AllowCredentials: !(len(origins) == 1 && origins[0] == "*"),
		MaxAge:           300,
	})

	return c.Handler
}
