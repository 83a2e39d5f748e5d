package postgres

import (
	"context"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionRowColumns = []string{"id", "conference_id", "name", "highlights", "speaker_email", "duration", "type_of_session", "date", "start_minute"}

func TestSessionRepository_Create(t *testing.T) {
	ctx := context.Background()
	start := domain.ClockTime(9*60 + 30)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO sessions \(conference_id, name, highlights, speaker_email`).
					WithArgs("conf-1", "Intro", pq.Array([]string{"basics"}), "a@x.io", 45, "LECTURE", nil, int64(570)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sess-1"))
			},
			wantID: "sess-1",
		},
		{
			name: "unknown speaker or conference",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO sessions`).WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: domain.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			s := &domain.Session{
				ConferenceID: "conf-1", Name: "Intro", Highlights: []string{"basics"}, SpeakerEmail: "a@x.io",
				Duration: 45, TypeOfSession: domain.SessionTypeLecture, StartTime: &start,
			}
			err = NewSessionRepository(db).Create(ctx, s)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, s.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_ListStartingBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE start_minute IS NOT NULL AND start_minute < \$1 AND type_of_session <> \$2`).
		WithArgs(1140, "WORKSHOP").
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).
			AddRow("s1", "conf-1", "Intro", "{basics}", "a@x.io", 45, "LECTURE", nil, 540))

	got, err := NewSessionRepository(db).ListStartingBefore(context.Background(), domain.EveningStart, domain.SessionTypeWorkshop)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].StartTime)
	assert.Equal(t, "09:00", got[0].StartTime.String())
	assert.Equal(t, domain.SessionTypeLecture, got[0].TypeOfSession)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByHighlights(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE highlights && \$1`).
		WithArgs(pq.Array([]string{"go", "cloud"})).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).
			AddRow("s1", "conf-1", "Intro", "{go}", "a@x.io", 45, "LECTURE", nil, nil))

	got, err := NewSessionRepository(db).ListByHighlights(context.Background(), []string{"go", "cloud"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].StartTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByConferenceAndSpeaker(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE conference_id = \$1 AND speaker_email = \$2 ORDER BY name COLLATE "C", id COLLATE "C"`).
		WithArgs("conf-1", "a@x.io").
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).
			AddRow("s2", "conf-1", "Advanced", "{}", "a@x.io", 60, "WORKSHOP", nil, nil).
			AddRow("s1", "conf-1", "Intro", "{}", "a@x.io", 45, "LECTURE", nil, nil))

	got, err := NewSessionRepository(db).ListByConferenceAndSpeaker(context.Background(), "conf-1", "a@x.io")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Advanced", got[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
