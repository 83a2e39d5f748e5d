package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
)

type registrationService struct {
	transactor     domain.Transactor
	profileRepo    domain.ProfileRepository
	conferenceRepo domain.ConferenceRepository
	queue          domain.TaskQueue
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewRegistrationService returns the seat ledger. Register and Cancel lock the caller's profile and
// the conference, in that order, and persist both or neither.
func NewRegistrationService(
	transactor domain.Transactor,
	profileRepo domain.ProfileRepository,
	conferenceRepo domain.ConferenceRepository,
	queue domain.TaskQueue,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		transactor:     transactor,
		profileRepo:    profileRepo,
		conferenceRepo: conferenceRepo,
		queue:          queue,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *registrationService) Register(ctx context.Context, identity *domain.Identity, conferenceID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	err := s.mutate(ctx, identity, conferenceID, func(profile *domain.Profile, conf *domain.Conference) (bool, error) {
		if profile.IsAttending(conferenceID) {
			return false, domain.ErrAlreadyRegistered
		}
		if conf.SeatsAvailable <= 0 {
			return false, domain.ErrSoldOut
		}
		profile.ConferenceKeysToAttend = append(profile.ConferenceKeysToAttend, conferenceID)
		conf.SeatsAvailable--
		return true, nil
	})
	metrics.RecordRegistration("register", err)
	if err != nil {
		return false, err
	}
	enqueue(ctx, s.queue, s.logger, domain.TaskRefreshAnnouncement, &domain.RefreshAnnouncementTask{ConferenceID: conferenceID})
	return true, nil
}

func (s *registrationService) Cancel(ctx context.Context, identity *domain.Identity, conferenceID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var changed bool
	err := s.mutate(ctx, identity, conferenceID, func(profile *domain.Profile, conf *domain.Conference) (bool, error) {
		idx := slices.Index(profile.ConferenceKeysToAttend, conferenceID)
		if idx < 0 {
			return false, nil
		}
		if conf.SeatsAvailable+1 > conf.MaxAttendees {
			return false, fmt.Errorf("%w: conference %s would exceed %d seats", domain.ErrConflict, conferenceID, conf.MaxAttendees)
		}
		profile.ConferenceKeysToAttend = slices.Delete(profile.ConferenceKeysToAttend, idx, idx+1)
		conf.SeatsAvailable++
		changed = true
		return true, nil
	})
	metrics.RecordRegistration("cancel", err)
	if err != nil {
		return false, err
	}
	if changed {
		enqueue(ctx, s.queue, s.logger, domain.TaskRefreshAnnouncement, &domain.RefreshAnnouncementTask{ConferenceID: conferenceID})
	}
	return changed, nil
}

// mutate runs apply against the locked profile and conference and writes both back when apply
// reports a change.
func (s *registrationService) mutate(
	ctx context.Context,
	identity *domain.Identity,
	conferenceID string,
	apply func(profile *domain.Profile, conf *domain.Conference) (bool, error),
) error {
	if identity == nil {
		return domain.ErrUnauthorized
	}
	if _, err := ensureProfile(ctx, s.profileRepo, identity); err != nil {
		return err
	}
	return s.transactor.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		profile, err := lockProfile(ctx, repos.Profiles, identity)
		if err != nil {
			return err
		}
		conf, err := repos.Conferences.GetForUpdate(ctx, conferenceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, conferenceID)
			}
			return fmt.Errorf("get conference: %w", err)
		}
		changed, err := apply(profile, conf)
		if err != nil || !changed {
			return err
		}
		if err := repos.Conferences.Update(ctx, conf); err != nil {
			return fmt.Errorf("update conference: %w", err)
		}
		if err := repos.Profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
}

func (s *registrationService) ListAttending(ctx context.Context, identity *domain.Identity) ([]*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	profile, err := ensureProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}
	confs, err := s.conferenceRepo.ListByIDs(ctx, profile.ConferenceKeysToAttend)
	if err != nil {
		return nil, fmt.Errorf("list attending conferences: %w", err)
	}
	if err := attachOrganizerNames(ctx, s.profileRepo, confs); err != nil {
		return nil, err
	}
	return confs, nil
}
