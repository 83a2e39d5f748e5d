package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
)

const featuredSpeakerHeader = "Featured Speakers:"

// featuredSegment is one speaker's entry in the segment index.
type featuredSegment struct {
	Email string `json:"email"`
	Text  string `json:"text"`
}

type featuredSpeakerService struct {
	mu             sync.Mutex
	sessionRepo    domain.SessionRepository
	speakerRepo    domain.SpeakerRepository
	cache          domain.Cache
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewFeaturedSpeakerService(
	sessionRepo domain.SessionRepository,
	speakerRepo domain.SpeakerRepository,
	cache domain.Cache,
	logger *slog.Logger,
	timeout time.Duration,
) domain.FeaturedSpeakerService {
	return &featuredSpeakerService{
		sessionRepo:    sessionRepo,
		speakerRepo:    speakerRepo,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Rebuild refreshes the segment for speakerEmail at conferenceID. A speaker with fewer than two
// sessions at the conference leaves the announcement untouched.
func (s *featuredSpeakerService) Rebuild(ctx context.Context, speakerEmail, conferenceID string) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	defer func() { metrics.RecordCacheRebuild(domain.CacheKeyFeaturedSpeaker, err) }()

	sessions, err := s.sessionRepo.ListByConferenceAndSpeaker(ctx, conferenceID, speakerEmail)
	if err != nil {
		return fmt.Errorf("list speaker sessions: %w", err)
	}
	if len(sessions) <= 1 {
		return nil
	}
	speaker, err := s.speakerRepo.GetByEmail(ctx, speakerEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: no speaker found with email %s", domain.ErrNotFound, speakerEmail)
		}
		return fmt.Errorf("get speaker: %w", err)
	}
	names := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		names = append(names, sess.Name)
	}
	segment := featuredSegment{
		Email: speakerEmail,
		Text:  fmt.Sprintf("%s's sessions: %s", speaker.Name, strings.Join(names, ",")),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.loadSegments(ctx)
	replaced := false
	for i := range index {
		if index[i].Email == segment.Email {
			index[i] = segment
			replaced = true
			break
		}
	}
	if !replaced {
		index = append(index, segment)
	}

	raw, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("encode featured speaker segments: %w", err)
	}
	s.cache.Set(domain.CacheKeyFeaturedSpeakerSegments, string(raw))
	s.cache.Set(domain.CacheKeyFeaturedSpeaker, renderFeatured(index))
	return nil
}

// loadSegments reads the segment index. A missing or unreadable index starts a new one.
func (s *featuredSpeakerService) loadSegments(ctx context.Context) []featuredSegment {
	raw, ok := s.cache.Get(domain.CacheKeyFeaturedSpeakerSegments)
	if !ok || raw == "" {
		return nil
	}
	var index []featuredSegment
	if err := json.Unmarshal([]byte(raw), &index); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable featured speaker index", "err", err)
		return nil
	}
	return index
}

func renderFeatured(index []featuredSegment) string {
	var b strings.Builder
	b.WriteString(featuredSpeakerHeader)
	for _, seg := range index {
		b.WriteString("| ")
		b.WriteString(seg.Text)
	}
	return b.String()
}

func (s *featuredSpeakerService) Get(_ context.Context) string {
	v, _ := s.cache.Get(domain.CacheKeyFeaturedSpeaker)
	return v
}
