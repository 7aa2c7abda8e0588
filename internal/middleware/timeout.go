package middleware

import (
	"net/http"
	"time"
)

// Timeout caps how long an API request may run. The body matches the envelope
// writeError produces so clients parse timeouts like any other API error.
// Photo and thumbnail streaming routes are mounted outside this middleware;
// only the JSON API goes through it.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	message := `{"success":false,"error":{"code":"REQUEST_TIMEOUT","message":"request timed out"}}`

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
