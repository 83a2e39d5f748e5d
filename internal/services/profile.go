package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
)

type profileService struct {
	profileRepo    domain.ProfileRepository
	transactor     domain.Transactor
	contextTimeout time.Duration
}

// NewProfileService returns a ProfileService. Saves run in a transaction with the profile locked.
func NewProfileService(profileRepo domain.ProfileRepository, transactor domain.Transactor, timeout time.Duration) domain.ProfileService {
	return &profileService{
		profileRepo:    profileRepo,
		transactor:     transactor,
		contextTimeout: timeout,
	}
}

func (s *profileService) GetOrCreate(ctx context.Context, identity *domain.Identity) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	return ensureProfile(ctx, s.profileRepo, identity)
}

func (s *profileService) Save(ctx context.Context, identity *domain.Identity, update domain.ProfileUpdate) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	if update.TeeShirtSize != "" && !update.TeeShirtSize.Valid() {
		return nil, fmt.Errorf("%w: unknown tee shirt size %q", domain.ErrInvalidArgument, update.TeeShirtSize)
	}
	if _, err := ensureProfile(ctx, s.profileRepo, identity); err != nil {
		return nil, err
	}

	var saved *domain.Profile
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		profile, err := lockProfile(ctx, repos.Profiles, identity)
		if err != nil {
			return err
		}
		if update.DisplayName != "" {
			profile.DisplayName = update.DisplayName
		}
		if update.TeeShirtSize != "" {
			profile.TeeShirtSize = update.TeeShirtSize
		}
		if err := repos.Profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		saved = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ensureProfile returns the caller's profile, creating it on first use. A concurrent first use
// surfaces as a create conflict, after which the winner's row is read back.
func ensureProfile(ctx context.Context, profiles domain.ProfileRepository, identity *domain.Identity) (*domain.Profile, error) {
	profile, err := profiles.GetByID(ctx, identity.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	profile = domain.NewProfile(identity)
	if err := profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			profile, err = profiles.GetByID(ctx, identity.UserID)
			if err != nil {
				return nil, fmt.Errorf("get profile: %w", err)
			}
			return profile, nil
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// lockProfile reads the caller's profile for update inside a transaction.
func lockProfile(ctx context.Context, profiles domain.ProfileRepository, identity *domain.Identity) (*domain.Profile, error) {
	profile, err := profiles.GetForUpdate(ctx, identity.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lock profile: %w", err)
	}
	profile = domain.NewProfile(identity)
	if err := profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// attachOrganizerNames fills OrganizerDisplayName from the organizers' profiles.
func attachOrganizerNames(ctx context.Context, profiles domain.ProfileRepository, confs []*domain.Conference) error {
	if len(confs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(confs))
	ids := make([]string, 0, len(confs))
	for _, c := range confs {
		if _, ok := seen[c.OrganizerID]; ok {
			continue
		}
		seen[c.OrganizerID] = struct{}{}
		ids = append(ids, c.OrganizerID)
	}
	organizers, err := profiles.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list organizer profiles: %w", err)
	}
	names := make(map[string]string, len(organizers))
	for _, p := range organizers {
		names[p.ID] = p.DisplayName
	}
	for _, c := range confs {
		c.OrganizerDisplayName = names[c.OrganizerID]
	}
	return nil
}

// enqueue hands a task to the queue. Failures are logged; the caller's write has already committed.
func enqueue(ctx context.Context, queue domain.TaskQueue, logger *slog.Logger, name string, payload any) {
	if err := queue.Enqueue(ctx, name, payload); err != nil {
		logger.ErrorContext(ctx, "enqueue task failed", "task", name, "err", err)
	}
}
