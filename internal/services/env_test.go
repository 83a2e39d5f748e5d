package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/repository/memory"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testTimeout = 5 * time.Second

type enqueuedTask struct {
	name    string
	payload any
}

// fakeQueue records enqueued tasks instead of delivering them.
type fakeQueue struct {
	mu    sync.Mutex
	tasks []enqueuedTask
	err   error
}

func (q *fakeQueue) Enqueue(ctx context.Context, name string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, enqueuedTask{name: name, payload: payload})
	return nil
}

func (q *fakeQueue) named(name string) []enqueuedTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []enqueuedTask
	for _, t := range q.tasks {
		if t.name == name {
			out = append(out, t)
		}
	}
	return out
}

// testEnv wires every service to one in-memory store.
type testEnv struct {
	store         *memory.Store
	repos         domain.Repositories
	queue         *fakeQueue
	cache         domain.Cache
	profiles      domain.ProfileService
	conferences   domain.ConferenceService
	registrations domain.RegistrationService
	speakers      domain.SpeakerService
	sessions      domain.SessionService
	wishlist      domain.WishlistService
	announcements domain.AnnouncementService
	featured      domain.FeaturedSpeakerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	q := &fakeQueue{}
	c := cache.NewMemoryCache(time.Minute)
	return &testEnv{
		store:         store,
		repos:         repos,
		queue:         q,
		cache:         c,
		profiles:      NewProfileService(repos.Profiles, store, testTimeout),
		conferences:   NewConferenceService(repos.Conferences, repos.Profiles, store, q, testLogger, testTimeout),
		registrations: NewRegistrationService(store, repos.Profiles, repos.Conferences, q, testLogger, testTimeout),
		speakers:      NewSpeakerService(repos.Speakers, testTimeout),
		sessions:      NewSessionService(repos.Conferences, repos.Speakers, repos.Sessions, q, testLogger, testTimeout),
		wishlist:      NewWishlistService(store, repos.Profiles, repos.Sessions, testTimeout),
		announcements: NewAnnouncementService(repos.Conferences, c, testTimeout),
		featured:      NewFeaturedSpeakerService(repos.Sessions, repos.Speakers, c, testLogger, testTimeout),
	}
}

func identity(id string) *domain.Identity {
	return &domain.Identity{UserID: id, Email: id + "@example.com", Nickname: id}
}

func intPtr(v int) *int { return &v }

// createConference creates a conference owned by owner with the given seat count.
func (e *testEnv) createConference(t *testing.T, owner *domain.Identity, name string, seats int) *domain.Conference {
	t.Helper()
	conf, err := e.conferences.Create(context.Background(), owner, domain.ConferenceForm{
		Name:         name,
		StartDate:    "2026-06-01",
		MaxAttendees: intPtr(seats),
	})
	require.NoError(t, err)
	return conf
}

func (e *testEnv) seats(t *testing.T, conferenceID string) int {
	t.Helper()
	conf, err := e.repos.Conferences.GetByID(context.Background(), conferenceID)
	require.NoError(t, err)
	return conf.SeatsAvailable
}
