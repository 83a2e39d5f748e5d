package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	h "conferencecentral/internal/delivery/http/helpers"
)

// RateLimit limits each client IP to requests per window. A non-positive limit disables it.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeTooManyRequests, "rate limit exceeded")
		}),
	)
}
