package memory

import (
	"context"
	"errors"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedConferences(t *testing.T, repos domain.Repositories, confs ...*domain.Conference) {
	t.Helper()
	for _, c := range confs {
		require.NoError(t, repos.Conferences.Create(context.Background(), c))
	}
}

func TestStore_WithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := New()
	repos := store.Repositories()
	c := &domain.Conference{Name: "GopherCon", OrganizerID: "u1", MaxAttendees: 10, SeatsAvailable: 10}
	seedConferences(t, repos, c)

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context, tx domain.Repositories) error {
		conf, err := tx.Conferences.GetForUpdate(ctx, c.ID)
		require.NoError(t, err)
		conf.SeatsAvailable = 0
		require.NoError(t, tx.Conferences.Update(ctx, conf))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repos.Conferences.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.SeatsAvailable)
}

func TestStore_WithinTx_Commits(t *testing.T) {
	ctx := context.Background()
	store := New()
	repos := store.Repositories()

	err := store.WithinTx(ctx, func(ctx context.Context, tx domain.Repositories) error {
		return tx.Profiles.Create(ctx, &domain.Profile{ID: "u1", DisplayName: "Ada"})
	})
	require.NoError(t, err)

	p, err := repos.Profiles.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.DisplayName)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	require.NoError(t, repos.Profiles.Create(ctx, &domain.Profile{ID: "u1", ConferenceKeysToAttend: []string{"c1"}}))

	p, err := repos.Profiles.GetByID(ctx, "u1")
	require.NoError(t, err)
	p.ConferenceKeysToAttend[0] = "mutated"

	again, err := repos.Profiles.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, again.ConferenceKeysToAttend)
}

func TestConferenceRepository_Query(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	seedConferences(t, repos,
		&domain.Conference{Name: "B", City: "Paris", Month: 6, Topics: []string{"Go"}},
		&domain.Conference{Name: "A", City: "Paris", Month: 9, Topics: []string{"Rust"}},
		&domain.Conference{Name: "C", City: "Paris", Month: 3, Topics: []string{"Go", "Web"}},
		&domain.Conference{Name: "D", City: "Oslo", Month: 7, Topics: []string{"Go"}},
	)

	tests := []struct {
		name    string
		filters []domain.FilterSpec
		want    []string
	}{
		{
			name: "no filters orders by name",
			want: []string{"A", "B", "C", "D"},
		},
		{
			name:    "equality on city",
			filters: []domain.FilterSpec{{Field: "CITY", Operator: "EQ", Value: "Paris"}},
			want:    []string{"A", "B", "C"},
		},
		{
			name: "inequality sorts by month first",
			filters: []domain.FilterSpec{
				{Field: "CITY", Operator: "EQ", Value: "Paris"},
				{Field: "MONTH", Operator: "GT", Value: "4"},
			},
			want: []string{"B", "A"},
		},
		{
			name:    "topic contains",
			filters: []domain.FilterSpec{{Field: "TOPIC", Operator: "EQ", Value: "Go"}},
			want:    []string{"B", "C", "D"},
		},
		{
			name: "month range",
			filters: []domain.FilterSpec{
				{Field: "MONTH", Operator: "GTEQ", Value: "3"},
				{Field: "MONTH", Operator: "LT", Value: "7"},
			},
			want: []string{"C", "B"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := domain.CompileFilters(domain.EntityConference, tt.filters)
			require.NoError(t, err)
			got, err := repos.Conferences.Query(ctx, plan)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, c := range got {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestConferenceRepository_ListByOrganizerByteOrder(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	seedConferences(t, repos,
		&domain.Conference{Name: "alpha", OrganizerID: "u1"},
		&domain.Conference{Name: "Zeta", OrganizerID: "u1"},
		&domain.Conference{Name: "Beta", OrganizerID: "u1"},
	)

	got, err := repos.Conferences.ListByOrganizer(ctx, "u1")
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	// Upper case sorts before lower case, matching COLLATE "C" in postgres.
	assert.Equal(t, []string{"Beta", "Zeta", "alpha"}, names)
}

func TestConferenceRepository_ListNearlySoldOutNames(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	seedConferences(t, repos,
		&domain.Conference{Name: "zero", MaxAttendees: 10, SeatsAvailable: 0},
		&domain.Conference{Name: "three", MaxAttendees: 10, SeatsAvailable: 3},
		&domain.Conference{Name: "six", MaxAttendees: 10, SeatsAvailable: 6},
		&domain.Conference{Name: "five", MaxAttendees: 10, SeatsAvailable: 5},
	)
	names, err := repos.Conferences.ListNearlySoldOutNames(ctx, domain.NearlySoldOutSeats)
	require.NoError(t, err)
	assert.Equal(t, []string{"five", "three"}, names)
}

func TestSessionRepository_Lists(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	conf := &domain.Conference{Name: "GopherCon"}
	seedConferences(t, repos, conf)

	at := func(h int) *domain.ClockTime {
		ct := domain.ClockTime(h * 60)
		return &ct
	}
	sessions := []*domain.Session{
		{ConferenceID: conf.ID, Name: "Intro", SpeakerEmail: "a@x.io", TypeOfSession: domain.SessionTypeLecture, StartTime: at(9), Highlights: []string{"basics"}},
		{ConferenceID: conf.ID, Name: "Hands on", SpeakerEmail: "a@x.io", TypeOfSession: domain.SessionTypeWorkshop, StartTime: at(10)},
		{ConferenceID: conf.ID, Name: "Late", SpeakerEmail: "b@x.io", TypeOfSession: domain.SessionTypeKeynote, StartTime: at(20)},
		{ConferenceID: conf.ID, Name: "Unscheduled", SpeakerEmail: "b@x.io", TypeOfSession: domain.SessionTypePanel},
	}
	for _, s := range sessions {
		require.NoError(t, repos.Sessions.Create(ctx, s))
	}

	got, err := repos.Sessions.ListStartingBefore(ctx, domain.EveningStart, domain.SessionTypeWorkshop)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Intro", got[0].Name)

	got, err = repos.Sessions.ListByConferenceAndSpeaker(ctx, conf.ID, "a@x.io")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Hands on", got[0].Name)
	assert.Equal(t, "Intro", got[1].Name)

	got, err = repos.Sessions.ListByHighlights(ctx, []string{"basics", "advanced"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = repos.Sessions.ListByIDs(ctx, []string{sessions[2].ID, "missing", sessions[0].ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Late", got[0].Name)
	assert.Equal(t, "Intro", got[1].Name)

	err = repos.Sessions.Create(ctx, &domain.Session{ConferenceID: "nope", Name: "orphan"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSpeakerRepository(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	require.NoError(t, repos.Speakers.Create(ctx, domain.NewSpeaker("a@x.io", "Ada", "Acme", "", []string{"Go"})))
	require.NoError(t, repos.Speakers.Create(ctx, domain.NewSpeaker("b@x.io", "Bob", "", "", []string{"Rust", "Go"})))
	require.ErrorIs(t, repos.Speakers.Create(ctx, domain.NewSpeaker("a@x.io", "Other", "", "", nil)), domain.ErrSpeakerExists)

	plan, err := domain.CompileFilters(domain.EntitySpeaker, []domain.FilterSpec{{Field: "COMPANY", Operator: "EQ", Value: "Acme"}})
	require.NoError(t, err)
	got, err := repos.Speakers.Query(ctx, plan)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ada", got[0].Name)

	got, err = repos.Speakers.ListByFields(ctx, []string{"Rust"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b@x.io", got[0].Email)
}
