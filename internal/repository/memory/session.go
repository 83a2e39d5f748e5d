package memory

import (
	"context"
	"slices"

	"conferencecentral/internal/domain"
)

type sessionRepository struct {
	base
}

func (r *sessionRepository) Create(_ context.Context, s *domain.Session) error {
	return r.write(func(st *state) error {
		if _, ok := st.conferences[s.ConferenceID]; !ok {
			return domain.ErrNotFound
		}
		s.ID = r.store.newID()
		st.sessions[s.ID] = s.Clone()
		return nil
	})
}

func (r *sessionRepository) GetByID(_ context.Context, id string) (*domain.Session, error) {
	var out *domain.Session
	err := r.read(func(st *state) error {
		s, ok := st.sessions[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = s.Clone()
		return nil
	})
	return out, err
}

func (r *sessionRepository) ListByIDs(_ context.Context, ids []string) ([]*domain.Session, error) {
	var out []*domain.Session
	err := r.read(func(st *state) error {
		out = collectByIDs(st.sessions, ids, (*domain.Session).Clone)
		return nil
	})
	return out, err
}

func (r *sessionRepository) ListByConference(_ context.Context, conferenceID string) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool { return s.ConferenceID == conferenceID })
}

func (r *sessionRepository) ListByConferenceAndType(_ context.Context, conferenceID string, sessionType domain.SessionType) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool {
		return s.ConferenceID == conferenceID && s.TypeOfSession == sessionType
	})
}

func (r *sessionRepository) ListByConferenceAndSpeaker(_ context.Context, conferenceID, speakerEmail string) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool {
		return s.ConferenceID == conferenceID && s.SpeakerEmail == speakerEmail
	})
}

func (r *sessionRepository) ListBySpeaker(_ context.Context, speakerEmail string) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool { return s.SpeakerEmail == speakerEmail })
}

func (r *sessionRepository) ListByHighlights(_ context.Context, highlights []string) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool { return intersects(s.Highlights, highlights) })
}

func (r *sessionRepository) ListBySpeakers(_ context.Context, speakerEmails []string) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool { return slices.Contains(speakerEmails, s.SpeakerEmail) })
}

func (r *sessionRepository) ListStartingBefore(_ context.Context, t domain.ClockTime, excluded domain.SessionType) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool {
		return s.StartTime != nil && *s.StartTime < t && s.TypeOfSession != excluded
	})
}

func (r *sessionRepository) list(match func(*domain.Session) bool) ([]*domain.Session, error) {
	out := make([]*domain.Session, 0)
	err := r.read(func(st *state) error {
		for _, s := range st.sessions {
			if match(s) {
				out = append(out, s.Clone())
			}
		}
		return nil
	})
	slices.SortFunc(out, byNameThenID(
		func(s *domain.Session) string { return s.Name },
		func(s *domain.Session) string { return s.ID },
	))
	return out, err
}
