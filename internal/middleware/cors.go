package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS builds the browser cross-origin policy for the school's frontend.
// With no configured origins the API stays open, which is what the public
// video catalog and gallery need; the admin panel sets explicit origins in
// production. Content-Length is exposed so the gallery can show upload and
// photo sizes, X-Request-ID so the frontend can quote it in bug reports.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	policy := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:           3600,
		AllowCredentials: false,
	})

	return policy.Handler
}
