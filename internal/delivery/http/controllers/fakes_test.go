package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testIdentity = &domain.Identity{UserID: "user-123", Email: "ada@x.io", Nickname: "ada"}

// decodeEnvelope decodes the response envelope and, when out is non-nil, its data.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, out any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if out != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return envelope
}

type fakeConferenceService struct {
	err          error
	conf         *domain.Conference
	confs        []*domain.Conference
	lastIdentity *domain.Identity
	lastID       string
	lastForm     domain.ConferenceForm
	lastFilters  []domain.FilterSpec
}

func (f *fakeConferenceService) Create(ctx context.Context, identity *domain.Identity, form domain.ConferenceForm) (*domain.Conference, error) {
	f.lastIdentity, f.lastForm = identity, form
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Conference{ID: "conf-1", Name: form.Name, OrganizerID: identity.UserID}, nil
}

func (f *fakeConferenceService) Update(ctx context.Context, identity *domain.Identity, conferenceID string, form domain.ConferenceForm) (*domain.Conference, error) {
	f.lastIdentity, f.lastID, f.lastForm = identity, conferenceID, form
	if f.err != nil {
		return nil, f.err
	}
	return f.conf, nil
}

func (f *fakeConferenceService) Get(ctx context.Context, conferenceID string) (*domain.Conference, error) {
	f.lastID = conferenceID
	if f.err != nil {
		return nil, f.err
	}
	return f.conf, nil
}

func (f *fakeConferenceService) ListCreatedBy(ctx context.Context, identity *domain.Identity) ([]*domain.Conference, error) {
	f.lastIdentity = identity
	return f.confs, f.err
}

func (f *fakeConferenceService) Query(ctx context.Context, filters []domain.FilterSpec) ([]*domain.Conference, error) {
	f.lastFilters = filters
	if f.err != nil {
		return nil, f.err
	}
	return f.confs, nil
}

type fakeRegistrationService struct {
	result bool
	err    error
	confs  []*domain.Conference
	lastID string
}

func (f *fakeRegistrationService) Register(ctx context.Context, identity *domain.Identity, conferenceID string) (bool, error) {
	f.lastID = conferenceID
	return f.result, f.err
}

func (f *fakeRegistrationService) Cancel(ctx context.Context, identity *domain.Identity, conferenceID string) (bool, error) {
	f.lastID = conferenceID
	return f.result, f.err
}

func (f *fakeRegistrationService) ListAttending(ctx context.Context, identity *domain.Identity) ([]*domain.Conference, error) {
	return f.confs, f.err
}

type fakeProfileService struct {
	err        error
	lastUpdate domain.ProfileUpdate
}

func (f *fakeProfileService) GetOrCreate(ctx context.Context, identity *domain.Identity) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return domain.NewProfile(identity), nil
}

func (f *fakeProfileService) Save(ctx context.Context, identity *domain.Identity, update domain.ProfileUpdate) (*domain.Profile, error) {
	f.lastUpdate = update
	if f.err != nil {
		return nil, f.err
	}
	p := domain.NewProfile(identity)
	if update.DisplayName != "" {
		p.DisplayName = update.DisplayName
	}
	if update.TeeShirtSize != "" {
		p.TeeShirtSize = update.TeeShirtSize
	}
	return p, nil
}

type fakeSpeakerService struct {
	err         error
	speakers    []*domain.Speaker
	lastSpeaker *domain.Speaker
	lastFilters []domain.FilterSpec
}

func (f *fakeSpeakerService) Create(ctx context.Context, speaker *domain.Speaker) (*domain.Speaker, error) {
	f.lastSpeaker = speaker
	if f.err != nil {
		return nil, f.err
	}
	return domain.NewSpeaker(speaker.Email, speaker.Name, speaker.Company, speaker.Sex, speaker.Field), nil
}

func (f *fakeSpeakerService) Query(ctx context.Context, filters []domain.FilterSpec) ([]*domain.Speaker, error) {
	f.lastFilters = filters
	return f.speakers, f.err
}

type fakeSessionService struct {
	err            error
	sessions       []*domain.Session
	lastConference string
	lastType       string
	lastSpeaker    string
	lastForm       domain.SessionForm
	lastList       []string
	calls          []string
}

func (f *fakeSessionService) Create(ctx context.Context, identity *domain.Identity, conferenceID string, form domain.SessionForm) (*domain.Session, error) {
	f.calls = append(f.calls, "Create")
	f.lastConference, f.lastForm = conferenceID, form
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Session{ID: "sess-1", ConferenceID: conferenceID, Name: form.Name, SpeakerEmail: form.Speaker}, nil
}

func (f *fakeSessionService) ListForConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	f.calls = append(f.calls, "ListForConference")
	f.lastConference = conferenceID
	return f.sessions, f.err
}

func (f *fakeSessionService) ListForConferenceByType(ctx context.Context, conferenceID, sessionType string) ([]*domain.Session, error) {
	f.calls = append(f.calls, "ListForConferenceByType")
	f.lastConference, f.lastType = conferenceID, sessionType
	return f.sessions, f.err
}

func (f *fakeSessionService) ListBySpeaker(ctx context.Context, speakerEmail string) ([]*domain.Session, error) {
	f.calls = append(f.calls, "ListBySpeaker")
	f.lastSpeaker = speakerEmail
	return f.sessions, f.err
}

func (f *fakeSessionService) ListByHighlights(ctx context.Context, highlights []string) ([]*domain.Session, error) {
	f.calls = append(f.calls, "ListByHighlights")
	f.lastList = highlights
	return f.sessions, f.err
}

func (f *fakeSessionService) ListBySpeakerFields(ctx context.Context, fields []string) ([]*domain.Session, error) {
	f.calls = append(f.calls, "ListBySpeakerFields")
	f.lastList = fields
	return f.sessions, f.err
}

func (f *fakeSessionService) ListNonWorkshopEvening(ctx context.Context) ([]*domain.Session, error) {
	f.calls = append(f.calls, "ListNonWorkshopEvening")
	return f.sessions, f.err
}

type fakeWishlistService struct {
	result   bool
	err      error
	sessions []*domain.Session
	lastID   string
}

func (f *fakeWishlistService) Add(ctx context.Context, identity *domain.Identity, sessionID string) (bool, error) {
	f.lastID = sessionID
	return f.result, f.err
}

func (f *fakeWishlistService) Remove(ctx context.Context, identity *domain.Identity, sessionID string) (bool, error) {
	f.lastID = sessionID
	return f.result, f.err
}

func (f *fakeWishlistService) List(ctx context.Context, identity *domain.Identity) ([]*domain.Session, error) {
	return f.sessions, f.err
}

type fakeSlot struct {
	value string
}

func (f *fakeSlot) Rebuild(ctx context.Context) error { return nil }

func (f *fakeSlot) Get(ctx context.Context) string { return f.value }

type fakeFeaturedSlot struct {
	value string
}

func (f *fakeFeaturedSlot) Rebuild(ctx context.Context, speakerEmail, conferenceID string) error {
	return nil
}

func (f *fakeFeaturedSlot) Get(ctx context.Context) string { return f.value }
