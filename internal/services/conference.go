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

const dateLayout = "2006-01-02"

type conferenceService struct {
	conferenceRepo domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
	transactor     domain.Transactor
	queue          domain.TaskQueue
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewConferenceService(
	conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	transactor domain.Transactor,
	queue domain.TaskQueue,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ConferenceService {
	return &conferenceService{
		conferenceRepo: conferenceRepo,
		profileRepo:    profileRepo,
		transactor:     transactor,
		queue:          queue,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *conferenceService) Create(ctx context.Context, identity *domain.Identity, form domain.ConferenceForm) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	conf, err := conferenceFromCreate(identity.UserID, form)
	if err != nil {
		return nil, err
	}
	organizer, err := ensureProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}
	if err := s.conferenceRepo.Create(ctx, conf); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}
	conf.OrganizerDisplayName = organizer.DisplayName

	data := &domain.ConferenceCreatedEmailData{
		Email:          organizer.MainEmail,
		OrganizerName:  organizer.DisplayName,
		ConferenceID:   conf.ID,
		ConferenceName: conf.Name,
		City:           conf.City,
		Topics:         slices.Clone(conf.Topics),
	}
	if conf.StartDate != nil {
		data.StartDate = conf.StartDate.Format(dateLayout)
	}
	enqueue(ctx, s.queue, s.logger, domain.TaskSendConfirmationEmail, data)
	return conf, nil
}

func (s *conferenceService) Update(ctx context.Context, identity *domain.Identity, conferenceID string, form domain.ConferenceForm) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	var updated *domain.Conference
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		conf, err := repos.Conferences.GetForUpdate(ctx, conferenceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get conference: %w", err)
		}
		if conf.OrganizerID != identity.UserID {
			return fmt.Errorf("%w: only the owner can update the conference", domain.ErrForbidden)
		}
		if err := applyConferenceUpdate(conf, form); err != nil {
			return err
		}
		if err := repos.Conferences.Update(ctx, conf); err != nil {
			return fmt.Errorf("update conference: %w", err)
		}
		updated = conf
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := attachOrganizerNames(ctx, s.profileRepo, []*domain.Conference{updated}); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *conferenceService) Get(ctx context.Context, conferenceID string) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conf, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if err := attachOrganizerNames(ctx, s.profileRepo, []*domain.Conference{conf}); err != nil {
		return nil, err
	}
	return conf, nil
}

func (s *conferenceService) ListCreatedBy(ctx context.Context, identity *domain.Identity) ([]*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	confs, err := s.conferenceRepo.ListByOrganizer(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("list conferences by organizer: %w", err)
	}
	if err := attachOrganizerNames(ctx, s.profileRepo, confs); err != nil {
		return nil, err
	}
	return confs, nil
}

func (s *conferenceService) Query(ctx context.Context, filters []domain.FilterSpec) ([]*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	plan, err := domain.CompileFilters(domain.EntityConference, filters)
	if err != nil {
		return nil, err
	}
	confs, err := s.conferenceRepo.Query(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	if err := attachOrganizerNames(ctx, s.profileRepo, confs); err != nil {
		return nil, err
	}
	return confs, nil
}

// conferenceFromCreate maps a create form onto a new conference with defaults applied.
func conferenceFromCreate(organizerID string, form domain.ConferenceForm) (*domain.Conference, error) {
	if strings.TrimSpace(form.Name) == "" {
		return nil, fmt.Errorf("%w: conference 'name' field required", domain.ErrInvalidArgument)
	}
	conf := domain.NewConference(organizerID, form.Name)
	conf.Description = form.Description
	if len(form.Topics) > 0 {
		conf.Topics = slices.Clone(form.Topics)
	}
	if form.City != "" {
		conf.City = form.City
	}
	start, err := parseDate("start_date", form.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", form.EndDate)
	if err != nil {
		return nil, err
	}
	conf.StartDate = start
	conf.EndDate = end
	if start != nil {
		conf.Month = int(start.Month())
	}
	if form.MaxAttendees != nil {
		if *form.MaxAttendees < 0 {
			return nil, fmt.Errorf("%w: max_attendees must not be negative", domain.ErrInvalidArgument)
		}
		conf.MaxAttendees = *form.MaxAttendees
	}
	conf.SeatsAvailable = conf.MaxAttendees
	return conf, nil
}

// conferenceUpdateFields copies each non-empty form field onto the conference.
var conferenceUpdateFields = []struct {
	name  string
	apply func(c *domain.Conference, f domain.ConferenceForm) error
}{
	{"name", func(c *domain.Conference, f domain.ConferenceForm) error {
		if f.Name != "" {
			c.Name = f.Name
		}
		return nil
	}},
	{"description", func(c *domain.Conference, f domain.ConferenceForm) error {
		if f.Description != "" {
			c.Description = f.Description
		}
		return nil
	}},
	{"topics", func(c *domain.Conference, f domain.ConferenceForm) error {
		if len(f.Topics) > 0 {
			c.Topics = slices.Clone(f.Topics)
		}
		return nil
	}},
	{"city", func(c *domain.Conference, f domain.ConferenceForm) error {
		if f.City != "" {
			c.City = f.City
		}
		return nil
	}},
	{"start_date", func(c *domain.Conference, f domain.ConferenceForm) error {
		start, err := parseDate("start_date", f.StartDate)
		if err != nil || start == nil {
			return err
		}
		c.StartDate = start
		c.Month = int(start.Month())
		return nil
	}},
	{"end_date", func(c *domain.Conference, f domain.ConferenceForm) error {
		end, err := parseDate("end_date", f.EndDate)
		if err != nil || end == nil {
			return err
		}
		c.EndDate = end
		return nil
	}},
	{"max_attendees", func(c *domain.Conference, f domain.ConferenceForm) error {
		if f.MaxAttendees == nil {
			return nil
		}
		seats := *f.MaxAttendees - c.Registered()
		if seats < 0 {
			return fmt.Errorf("%w: max_attendees %d is below the %d seats already taken",
				domain.ErrInvalidArgument, *f.MaxAttendees, c.Registered())
		}
		c.MaxAttendees = *f.MaxAttendees
		c.SeatsAvailable = seats
		return nil
	}},
}

func applyConferenceUpdate(conf *domain.Conference, form domain.ConferenceForm) error {
	for _, field := range conferenceUpdateFields {
		if err := field.apply(conf, form); err != nil {
			return err
		}
	}
	return nil
}

// parseDate parses the leading YYYY-MM-DD of s. Empty input yields nil.
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q must be YYYY-MM-DD", domain.ErrInvalidArgument, field, s)
	}
	return &t, nil
}
