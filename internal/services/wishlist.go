package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"conferencecentral/internal/domain"
)

type wishlistService struct {
	transactor     domain.Transactor
	profileRepo    domain.ProfileRepository
	sessionRepo    domain.SessionRepository
	contextTimeout time.Duration
}

func NewWishlistService(
	transactor domain.Transactor,
	profileRepo domain.ProfileRepository,
	sessionRepo domain.SessionRepository,
	timeout time.Duration,
) domain.WishlistService {
	return &wishlistService{
		transactor:     transactor,
		profileRepo:    profileRepo,
		sessionRepo:    sessionRepo,
		contextTimeout: timeout,
	}
}

// Add puts sessionID on the caller's wishlist. The caller must be registered for the
// session's conference.
func (s *wishlistService) Add(ctx context.Context, identity *domain.Identity, sessionID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity == nil {
		return false, domain.ErrUnauthorized
	}
	if _, err := ensureProfile(ctx, s.profileRepo, identity); err != nil {
		return false, err
	}
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		session, err := repos.Sessions.GetByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: no session found with key %s", domain.ErrNotFound, sessionID)
			}
			return fmt.Errorf("get session: %w", err)
		}
		profile, err := lockProfile(ctx, repos.Profiles, identity)
		if err != nil {
			return err
		}
		if !profile.IsAttending(session.ConferenceID) {
			return fmt.Errorf("%w: register for conference %s first", domain.ErrRegistrationRequired, session.ConferenceID)
		}
		if profile.HasWishlisted(sessionID) {
			return domain.ErrAlreadyInWishlist
		}
		profile.SessionKeysWishlist = append(profile.SessionKeysWishlist, sessionID)
		if err := repos.Profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove drops sessionID from the wishlist and reports whether it was there.
func (s *wishlistService) Remove(ctx context.Context, identity *domain.Identity, sessionID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity == nil {
		return false, domain.ErrUnauthorized
	}
	if _, err := ensureProfile(ctx, s.profileRepo, identity); err != nil {
		return false, err
	}
	var removed bool
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		profile, err := lockProfile(ctx, repos.Profiles, identity)
		if err != nil {
			return err
		}
		idx := slices.Index(profile.SessionKeysWishlist, sessionID)
		if idx < 0 {
			return nil
		}
		profile.SessionKeysWishlist = slices.Delete(profile.SessionKeysWishlist, idx, idx+1)
		if err := repos.Profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// List returns the wishlisted sessions in wishlist order. Sessions that no longer exist are skipped.
func (s *wishlistService) List(ctx context.Context, identity *domain.Identity) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	profile, err := ensureProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByIDs(ctx, profile.SessionKeysWishlist)
	if err != nil {
		return nil, fmt.Errorf("list wishlist sessions: %w", err)
	}
	return sessions, nil
}
