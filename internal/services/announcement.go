package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
)

const announcementPrefix = "Last chance to attend! The following conferences are nearly sold out: "

type announcementService struct {
	mu             sync.Mutex
	conferenceRepo domain.ConferenceRepository
	cache          domain.Cache
	contextTimeout time.Duration
}

func NewAnnouncementService(conferenceRepo domain.ConferenceRepository, cache domain.Cache, timeout time.Duration) domain.AnnouncementService {
	return &announcementService{
		conferenceRepo: conferenceRepo,
		cache:          cache,
		contextTimeout: timeout,
	}
}

// Rebuild recomputes the nearly sold out announcement, or clears it when nothing qualifies.
func (s *announcementService) Rebuild(ctx context.Context) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	defer func() { metrics.RecordCacheRebuild(domain.CacheKeyAnnouncement, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.conferenceRepo.ListNearlySoldOutNames(ctx, domain.NearlySoldOutSeats)
	if err != nil {
		return fmt.Errorf("list nearly sold out conferences: %w", err)
	}
	if len(names) == 0 {
		s.cache.Delete(domain.CacheKeyAnnouncement)
		return nil
	}
	s.cache.Set(domain.CacheKeyAnnouncement, announcementPrefix+strings.Join(names, ", "))
	return nil
}

func (s *announcementService) Get(_ context.Context) string {
	v, _ := s.cache.Get(domain.CacheKeyAnnouncement)
	return v
}
