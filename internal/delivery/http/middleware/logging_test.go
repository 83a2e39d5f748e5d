package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/logging"
)

// capturingHandler records the last log record for assertions.
type capturingHandler struct {
	record    slog.Record
	requestID string
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.record = r.Clone()
	h.requestID = logging.RequestIDFromContext(ctx)
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

func TestLoggingMiddleware(t *testing.T) {
	var cap capturingHandler
	logger := slog.New(&cap)

	tests := []struct {
		name          string
		handlerStatus int
		path          string
		method        string
		wantLevel     slog.Level
	}{
		{"ok status", http.StatusOK, "/conferences/attending", http.MethodGet, slog.LevelInfo},
		{"created", http.StatusCreated, "/conferences", http.MethodPost, slog.LevelInfo},
		{"conflict", http.StatusConflict, "/conferences/c1/registration", http.MethodPost, slog.LevelWarn},
		{"server error", http.StatusInternalServerError, "/conferences", http.MethodPost, slog.LevelError},
		{"health probe", http.StatusOK, "/healthz", http.MethodGet, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
				_, _ = w.Write([]byte("ok"))
			})
			handler := LoggingMiddleware(logger, next)
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, nil)
			req.RemoteAddr = "10.1.2.3:5555"
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, "request", cap.record.Message)
			assert.Equal(t, tt.wantLevel, cap.record.Level)
			attrs := make(map[string]slog.Value)
			cap.record.Attrs(func(a slog.Attr) bool {
				attrs[a.Key] = a.Value
				return true
			})
			require.Contains(t, attrs, "method")
			require.Contains(t, attrs, "path")
			require.Contains(t, attrs, "status")
			require.Contains(t, attrs, "duration_ms")
			require.Equal(t, tt.method, attrs["method"].String())
			require.Equal(t, tt.path, attrs["path"].String())
			require.Equal(t, int64(tt.handlerStatus), attrs["status"].Int64())
			require.Equal(t, int64(2), attrs["bytes"].Int64())
			require.Equal(t, "10.1.2.3:5555", attrs["remote"].String())
			require.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
			require.Equal(t, tt.handlerStatus, rr.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	var cap capturingHandler
	logger := slog.New(&cap)
	handler := RequestID(LoggingMiddleware(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://test/profile", nil))
		id := rr.Header().Get(RequestIDHeader)
		require.Len(t, id, 36)
		assert.Equal(t, id, cap.requestID)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/profile", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, "req-42", rr.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-42", cap.requestID)
	})
}
