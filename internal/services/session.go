package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type sessionService struct {
	conferenceRepo domain.ConferenceRepository
	speakerRepo    domain.SpeakerRepository
	sessionRepo    domain.SessionRepository
	queue          domain.TaskQueue
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewSessionService(
	conferenceRepo domain.ConferenceRepository,
	speakerRepo domain.SpeakerRepository,
	sessionRepo domain.SessionRepository,
	queue domain.TaskQueue,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SessionService {
	return &sessionService{
		conferenceRepo: conferenceRepo,
		speakerRepo:    speakerRepo,
		sessionRepo:    sessionRepo,
		queue:          queue,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *sessionService) Create(ctx context.Context, identity *domain.Identity, conferenceID string, form domain.SessionForm) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	conf, err := s.getConference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	if conf.OrganizerID != identity.UserID {
		return nil, fmt.Errorf("%w: only the owner can add sessions to the conference", domain.ErrForbidden)
	}
	if strings.TrimSpace(form.Name) == "" {
		return nil, fmt.Errorf("%w: session 'name' field required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(form.Speaker) == "" {
		return nil, fmt.Errorf("%w: session 'speaker' field required", domain.ErrInvalidArgument)
	}
	if _, err := s.getSpeaker(ctx, form.Speaker); err != nil {
		return nil, err
	}

	session, err := sessionFromCreate(conf, form)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	enqueue(ctx, s.queue, s.logger, domain.TaskSetFeaturedSpeaker, &domain.SetFeaturedSpeakerTask{
		SpeakerEmail: session.SpeakerEmail,
		ConferenceID: session.ConferenceID,
	})
	return session, nil
}

// sessionFromCreate maps a create form onto a new session with defaults applied.
func sessionFromCreate(conf *domain.Conference, form domain.SessionForm) (*domain.Session, error) {
	if form.Duration < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", domain.ErrInvalidArgument)
	}
	session := &domain.Session{
		ConferenceID:  conf.ID,
		Name:          form.Name,
		Highlights:    slices.Clone(domain.DefaultSessionHighlights),
		SpeakerEmail:  strings.TrimSpace(form.Speaker),
		Duration:      form.Duration,
		TypeOfSession: domain.SessionTypeNotSpecified,
	}
	if len(form.Highlights) > 0 {
		session.Highlights = slices.Clone(form.Highlights)
	}
	if form.TypeOfSession != "" {
		t, err := parseSessionType(form.TypeOfSession)
		if err != nil {
			return nil, err
		}
		session.TypeOfSession = t
	}
	if form.Date != "" {
		d, err := parseDate("date", form.Date)
		if err != nil {
			return nil, err
		}
		session.Date = d
	} else if conf.StartDate != nil {
		d := *conf.StartDate
		session.Date = &d
	}
	if form.StartTime != "" {
		t, err := domain.ParseClockTime(form.StartTime)
		if err != nil {
			return nil, err
		}
		session.StartTime = &t
	}
	return session, nil
}

func parseSessionType(s string) (domain.SessionType, error) {
	t := domain.SessionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown session type %q", domain.ErrInvalidArgument, s)
	}
	return t, nil
}

func (s *sessionService) ListForConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConference(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListForConferenceByType(ctx context.Context, conferenceID, sessionType string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t, err := parseSessionType(sessionType)
	if err != nil {
		return nil, err
	}
	if _, err := s.getConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceAndType(ctx, conferenceID, t)
	if err != nil {
		return nil, fmt.Errorf("list sessions by type: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListBySpeaker(ctx context.Context, speakerEmail string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getSpeaker(ctx, speakerEmail); err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListBySpeaker(ctx, speakerEmail)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speaker: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListByHighlights(ctx context.Context, highlights []string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(highlights) == 0 {
		return []*domain.Session{}, nil
	}
	sessions, err := s.sessionRepo.ListByHighlights(ctx, highlights)
	if err != nil {
		return nil, fmt.Errorf("list sessions by highlights: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListBySpeakerFields(ctx context.Context, fields []string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(fields) == 0 {
		return []*domain.Session{}, nil
	}
	speakers, err := s.speakerRepo.ListByFields(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("list speakers by field: %w", err)
	}
	if len(speakers) == 0 {
		return []*domain.Session{}, nil
	}
	emails := make([]string, 0, len(speakers))
	for _, sp := range speakers {
		emails = append(emails, sp.Email)
	}
	sessions, err := s.sessionRepo.ListBySpeakers(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speakers: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListNonWorkshopEvening(ctx context.Context) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sessions, err := s.sessionRepo.ListStartingBefore(ctx, domain.EveningStart, domain.SessionTypeWorkshop)
	if err != nil {
		return nil, fmt.Errorf("list sessions before evening: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) getConference(ctx context.Context, conferenceID string) (*domain.Conference, error) {
	conf, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return conf, nil
}

func (s *sessionService) getSpeaker(ctx context.Context, email string) (*domain.Speaker, error) {
	speaker, err := s.speakerRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no speaker found with email %s", domain.ErrNotFound, email)
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	return speaker, nil
}
