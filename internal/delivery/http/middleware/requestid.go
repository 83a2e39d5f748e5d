package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"conferencecentral/internal/logging"
)

const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds caller supplied ids before they reach logs.
const maxRequestIDLen = 128

// RequestID propagates the caller's X-Request-ID or assigns a new one, echoes it on the
// response and stores it in the request context for logging.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}
