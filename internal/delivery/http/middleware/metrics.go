package middleware

import (
	"net/http"
	"strconv"
	"time"

	"conferencecentral/internal/metrics"
)

// Metrics records request count and latency per route pattern. It must wrap the ServeMux
// directly so the matched pattern is visible after the call.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(wrapped.status), time.Since(start))
	})
}
