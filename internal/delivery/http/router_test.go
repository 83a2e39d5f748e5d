package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/repository/memory"
	"conferencecentral/internal/services"
)

const testSecret = "router-test-secret"

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type discardQueue struct{}

func (discardQueue) Enqueue(ctx context.Context, name string, payload any) error { return nil }

func newTestServer(t *testing.T, health HealthFunc) *httptest.Server {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	c := cache.NewMemoryCache(time.Minute)
	q := discardQueue{}
	timeout := 5 * time.Second

	announcements := services.NewAnnouncementService(repos.Conferences, c, timeout)
	ctrls := Controllers{
		Conferences: controllers.NewConferenceController(testLogger,
			services.NewConferenceService(repos.Conferences, repos.Profiles, store, q, testLogger, timeout)),
		Registrations: controllers.NewRegistrationController(testLogger,
			services.NewRegistrationService(store, repos.Profiles, repos.Conferences, q, testLogger, timeout)),
		Profiles: controllers.NewProfileController(testLogger, services.NewProfileService(repos.Profiles, store, timeout)),
		Speakers: controllers.NewSpeakerController(testLogger, services.NewSpeakerService(repos.Speakers, timeout)),
		Sessions: controllers.NewSessionController(testLogger,
			services.NewSessionService(repos.Conferences, repos.Speakers, repos.Sessions, q, testLogger, timeout)),
		Wishlist: controllers.NewWishlistController(testLogger,
			services.NewWishlistService(store, repos.Profiles, repos.Sessions, timeout)),
		Announcements: controllers.NewAnnouncementController(testLogger, announcements,
			services.NewFeaturedSpeakerService(repos.Sessions, repos.Speakers, c, testLogger, timeout)),
	}
	mux := NewRouter(ctrls, auth.NewJWTVerifier(testSecret), health, testLogger)
	srv := httptest.NewServer(Handler(mux, MiddlewareConfig{CORSAllowedOrigins: []string{"*"}}, testLogger))
	t.Cleanup(srv.Close)
	return srv
}

func token(t *testing.T, subject, email string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// call sends a request and decodes the envelope, unmarshalling data into out when set.
func call(t *testing.T, srv *httptest.Server, method, path, bearer, body string, out any) (int, helpers.APIResponse) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewBufferString(body))
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if out != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return resp.StatusCode, envelope
}

func TestRouter_RequiresAuth(t *testing.T) {
	srv := newTestServer(t, nil)

	status, envelope := call(t, srv, http.MethodGet, "/profile", "", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)

	status, _ = call(t, srv, http.MethodGet, "/profile", "not-a-jwt", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_ConferenceLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	organizer := token(t, "org-1", "org@x.io")
	attendee := token(t, "att-1", "att@x.io")

	var conf domain.Conference
	status, _ := call(t, srv, http.MethodPost, "/conferences", organizer,
		`{"name":"GopherCon","city":"Berlin","start_date":"2026-06-01","max_attendees":2}`, &conf)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, conf.ID)
	assert.Equal(t, 2, conf.SeatsAvailable)
	assert.Equal(t, 6, conf.Month)

	var created []domain.Conference
	status, _ = call(t, srv, http.MethodGet, "/conferences/created", organizer, "", &created)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, created, 1)

	var registered bool
	status, _ = call(t, srv, http.MethodPost, "/conferences/"+conf.ID+"/registration", attendee, "", &registered)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, registered)

	status, envelope := call(t, srv, http.MethodPost, "/conferences/"+conf.ID+"/registration", attendee, "", nil)
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, helpers.ErrCodeConflict, envelope.Error.Code)

	var attending []domain.Conference
	status, _ = call(t, srv, http.MethodGet, "/conferences/attending", attendee, "", &attending)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, attending, 1)
	assert.Equal(t, 1, attending[0].SeatsAvailable)

	status, envelope = call(t, srv, http.MethodPut, "/conferences/"+conf.ID, attendee, `{"city":"Paris"}`, nil)
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, helpers.ErrCodeForbidden, envelope.Error.Code)

	var got domain.Conference
	status, _ = call(t, srv, http.MethodGet, "/conferences/"+conf.ID, attendee, "", &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Berlin", got.City)

	var cancelled bool
	status, _ = call(t, srv, http.MethodDelete, "/conferences/"+conf.ID+"/registration", attendee, "", &cancelled)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, cancelled)
}

func TestRouter_QueryRejectsTwoInequalityFields(t *testing.T) {
	srv := newTestServer(t, nil)
	caller := token(t, "u-1", "u@x.io")

	status, envelope := call(t, srv, http.MethodPost, "/conferences/query", caller,
		`{"filters":[{"field":"MONTH","operator":"GT","value":"3"},{"field":"MAX_ATTENDEES","operator":"LT","value":"10"}]}`, nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, helpers.ErrCodeMultipleInequalityFields, envelope.Error.Code)
}

func TestRouter_UnknownConference(t *testing.T) {
	srv := newTestServer(t, nil)
	status, envelope := call(t, srv, http.MethodGet, "/conferences/missing", token(t, "u-1", "u@x.io"), "", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, helpers.ErrCodeNotFound, envelope.Error.Code)
}

func TestRouter_Healthz(t *testing.T) {
	srv := newTestServer(t, nil)
	status, envelope := call(t, srv, http.MethodGet, "/healthz", "", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", envelope.Data)

	down := newTestServer(t, func(ctx context.Context) error { return errors.New("connection refused") })
	status, envelope = call(t, down, http.MethodGet, "/healthz", "", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.NotNil(t, envelope.Error)
	assert.NotContains(t, envelope.Error.Message, "connection refused")
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	call(t, srv, http.MethodGet, "/healthz", "", "", nil)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `route="GET /healthz"`)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
