package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func addSession(t *testing.T, env *testEnv, owner *domain.Identity, confID, name, speaker string) {
	t.Helper()
	_, err := env.sessions.Create(context.Background(), owner, confID, domain.SessionForm{Name: name, Speaker: speaker})
	require.NoError(t, err)
}

func TestFeaturedSpeakerService_SingleSessionIsNoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := identity("owner")
	conf := env.createConference(t, owner, "GopherCon", 10)
	seedSpeaker(t, env, "ada@x.io", "Ada")
	addSession(t, env, owner, conf.ID, "Intro", "ada@x.io")

	require.NoError(t, env.featured.Rebuild(ctx, "ada@x.io", conf.ID))
	assert.Equal(t, "", env.featured.Get(ctx))
}

func TestFeaturedSpeakerService_JoinsSessionNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := identity("owner")
	conf := env.createConference(t, owner, "GopherCon", 10)
	seedSpeaker(t, env, "ada@x.io", "Ada")
	addSession(t, env, owner, conf.ID, "Intro", "ada@x.io")
	addSession(t, env, owner, conf.ID, "Advanced", "ada@x.io")

	require.NoError(t, env.featured.Rebuild(ctx, "ada@x.io", conf.ID))
	assert.Equal(t, "Featured Speakers:| Ada's sessions: Advanced,Intro", env.featured.Get(ctx))

	addSession(t, env, owner, conf.ID, "Deep Dive", "ada@x.io")
	require.NoError(t, env.featured.Rebuild(ctx, "ada@x.io", conf.ID))
	assert.Equal(t, "Featured Speakers:| Ada's sessions: Advanced,Deep Dive,Intro", env.featured.Get(ctx))
}

func TestFeaturedSpeakerService_SimilarNamesKeepSeparateSegments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := identity("owner")
	conf := env.createConference(t, owner, "GopherCon", 10)
	seedSpeaker(t, env, "ann@x.io", "Ann")
	seedSpeaker(t, env, "anna@x.io", "Anna")
	for _, name := range []string{"A1", "A2"} {
		addSession(t, env, owner, conf.ID, name, "ann@x.io")
	}
	for _, name := range []string{"B1", "B2"} {
		addSession(t, env, owner, conf.ID, name, "anna@x.io")
	}

	require.NoError(t, env.featured.Rebuild(ctx, "anna@x.io", conf.ID))
	require.NoError(t, env.featured.Rebuild(ctx, "ann@x.io", conf.ID))
	assert.Equal(t, "Featured Speakers:| Anna's sessions: B1,B2| Ann's sessions: A1,A2", env.featured.Get(ctx))

	addSession(t, env, owner, conf.ID, "A3", "ann@x.io")
	require.NoError(t, env.featured.Rebuild(ctx, "ann@x.io", conf.ID))
	assert.Equal(t, "Featured Speakers:| Anna's sessions: B1,B2| Ann's sessions: A1,A2,A3", env.featured.Get(ctx))
}

func TestFeaturedSpeakerService_UnreadableIndexStartsOver(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := identity("owner")
	conf := env.createConference(t, owner, "GopherCon", 10)
	seedSpeaker(t, env, "ada@x.io", "Ada")
	addSession(t, env, owner, conf.ID, "One", "ada@x.io")
	addSession(t, env, owner, conf.ID, "Two", "ada@x.io")
	env.cache.Set(domain.CacheKeyFeaturedSpeakerSegments, "{not json")

	require.NoError(t, env.featured.Rebuild(ctx, "ada@x.io", conf.ID))
	assert.Equal(t, "Featured Speakers:| Ada's sessions: One,Two", env.featured.Get(ctx))
}

func TestFeaturedSpeakerService_UnknownSpeaker(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	conf := env.createConference(t, identity("owner"), "GopherCon", 10)
	for _, name := range []string{"X", "Y"} {
		require.NoError(t, env.repos.Sessions.Create(ctx, &domain.Session{
			ConferenceID: conf.ID, Name: name, SpeakerEmail: "ghost@x.io",
			TypeOfSession: domain.SessionTypeNotSpecified, Highlights: []string{},
		}))
	}

	err := env.featured.Rebuild(ctx, "ghost@x.io", conf.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeaturedSpeakerService_ConcurrentRebuildsKeepEverySegment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := identity("owner")
	conf := env.createConference(t, owner, "GopherCon", 10)

	const speakers = 20
	emails := make([]string, speakers)
	for i := range emails {
		emails[i] = fmt.Sprintf("speaker%02d@x.io", i)
		seedSpeaker(t, env, emails[i], fmt.Sprintf("Speaker %02d", i))
		addSession(t, env, owner, conf.ID, fmt.Sprintf("Talk %02d-a", i), emails[i])
		addSession(t, env, owner, conf.ID, fmt.Sprintf("Talk %02d-b", i), emails[i])
	}

	var wg sync.WaitGroup
	errs := make(chan error, speakers)
	for _, email := range emails {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			errs <- env.featured.Rebuild(ctx, email, conf.ID)
		}(email)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	text := env.featured.Get(ctx)
	assert.Equal(t, speakers, strings.Count(text, "'s sessions: "))
	for i := range emails {
		assert.Contains(t, text, fmt.Sprintf("Speaker %02d's sessions: Talk %02d-a,Talk %02d-b", i, i, i))
	}
}
