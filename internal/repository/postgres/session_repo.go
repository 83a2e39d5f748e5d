package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const sessionColumns = `id, conference_id, name, highlights, speaker_email, duration, type_of_session, date, start_minute`

type sessionRepository struct {
	DB dbtx
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{
		DB: db,
	}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (conference_id, name, highlights, speaker_email, duration, type_of_session, date, start_minute)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var start sql.NullInt64
	if s.StartTime != nil {
		start = sql.NullInt64{Int64: int64(*s.StartTime), Valid: true}
	}
	err := r.DB.QueryRowContext(ctx, query, s.ConferenceID, s.Name, stringArray(s.Highlights), s.SpeakerEmail,
		s.Duration, string(s.TypeOfSession), s.Date, start).Scan(&s.ID)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	s, err := scanSession(r.DB.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	sessions, err := r.list(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return orderByIDs(sessions, ids, func(s *domain.Session) string { return s.ID }), nil
}

func (r *sessionRepository) ListByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE conference_id = $1 ORDER BY `+nameOrder, conferenceID)
}

func (r *sessionRepository) ListByConferenceAndType(ctx context.Context, conferenceID string, sessionType domain.SessionType) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE conference_id = $1 AND type_of_session = $2 ORDER BY ` + nameOrder
	return r.list(ctx, query, conferenceID, string(sessionType))
}

func (r *sessionRepository) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerEmail string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE conference_id = $1 AND speaker_email = $2 ORDER BY ` + nameOrder
	return r.list(ctx, query, conferenceID, speakerEmail)
}

func (r *sessionRepository) ListBySpeaker(ctx context.Context, speakerEmail string) ([]*domain.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE speaker_email = $1 ORDER BY `+nameOrder, speakerEmail)
}

func (r *sessionRepository) ListByHighlights(ctx context.Context, highlights []string) ([]*domain.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE highlights && $1 ORDER BY `+nameOrder, stringArray(highlights))
}

func (r *sessionRepository) ListBySpeakers(ctx context.Context, speakerEmails []string) ([]*domain.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE speaker_email = ANY($1) ORDER BY `+nameOrder, stringArray(speakerEmails))
}

func (r *sessionRepository) ListStartingBefore(ctx context.Context, t domain.ClockTime, excluded domain.SessionType) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + ` FROM sessions
		WHERE start_minute IS NOT NULL AND start_minute < $1 AND type_of_session <> $2
		ORDER BY ` + nameOrder
	return r.list(ctx, query, int(t), string(excluded))
}

func (r *sessionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanSession(row rowScanner) (*domain.Session, error) {
	s := &domain.Session{}
	var (
		sessionType string
		dateNull    sql.NullTime
		startNull   sql.NullInt64
	)
	if err := row.Scan(&s.ID, &s.ConferenceID, &s.Name, pq.Array(&s.Highlights), &s.SpeakerEmail,
		&s.Duration, &sessionType, &dateNull, &startNull); err != nil {
		return nil, err
	}
	s.TypeOfSession = domain.SessionType(sessionType)
	s.Date = nullTimePtr(dateNull)
	if startNull.Valid {
		ct := domain.ClockTime(startNull.Int64)
		s.StartTime = &ct
	}
	if s.Highlights == nil {
		s.Highlights = []string{}
	}
	return s, nil
}
