package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

func TestWishlistService_Sequence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, alice := identity("owner"), identity("alice")
	conf := env.createConference(t, owner, "GopherCon", 10)
	seedSpeaker(t, env, "ada@x.io", "Ada")
	sess, err := env.sessions.Create(ctx, owner, conf.ID, domain.SessionForm{Name: "Intro", Speaker: "ada@x.io"})
	require.NoError(t, err)

	_, err = env.wishlist.Add(ctx, alice, sess.ID)
	require.ErrorIs(t, err, domain.ErrRegistrationRequired)

	_, err = env.registrations.Register(ctx, alice, conf.ID)
	require.NoError(t, err)

	ok, err := env.wishlist.Add(ctx, alice, sess.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = env.wishlist.Add(ctx, alice, sess.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyInWishlist)

	list, err := env.wishlist.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sess.ID, list[0].ID)

	removed, err := env.wishlist.Remove(ctx, alice, sess.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = env.wishlist.Remove(ctx, alice, sess.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	list, err = env.wishlist.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWishlistService_UnknownSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.wishlist.Add(ctx, identity("alice"), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.wishlist.Add(ctx, nil, "missing")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestWishlistService_ListSkipsMissingSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, alice := identity("owner"), identity("alice")
	conf := env.createConference(t, owner, "GopherCon", 10)
	seedSpeaker(t, env, "ada@x.io", "Ada")
	intro, err := env.sessions.Create(ctx, owner, conf.ID, domain.SessionForm{Name: "Intro", Speaker: "ada@x.io"})
	require.NoError(t, err)
	advanced, err := env.sessions.Create(ctx, owner, conf.ID, domain.SessionForm{Name: "Advanced", Speaker: "ada@x.io"})
	require.NoError(t, err)

	_, err = env.registrations.Register(ctx, alice, conf.ID)
	require.NoError(t, err)

	err = env.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		profile, err := repos.Profiles.GetForUpdate(ctx, alice.UserID)
		if err != nil {
			return err
		}
		profile.SessionKeysWishlist = []string{"gone", intro.ID, "also-gone", advanced.ID}
		return repos.Profiles.Update(ctx, profile)
	})
	require.NoError(t, err)

	list, err := env.wishlist.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, intro.ID, list[0].ID)
	assert.Equal(t, advanced.ID, list[1].ID)
}
