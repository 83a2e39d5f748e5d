package domain

import "context"

// Cache slot names.
const (
	CacheKeyAnnouncement            = "RECENT_ANNOUNCEMENTS"
	CacheKeyFeaturedSpeaker         = "FEATUREDSPEAKER"
	CacheKeyFeaturedSpeakerSegments = "FEATUREDSPEAKER_SEGMENTS"
)

// Cache is a shared store of named string slots. Get may report absent at any time.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// AnnouncementService builds and serves the nearly sold out announcement.
type AnnouncementService interface {
	Rebuild(ctx context.Context) error
	Get(ctx context.Context) string
}

// FeaturedSpeakerService builds and serves the featured speaker announcement.
type FeaturedSpeakerService interface {
	Rebuild(ctx context.Context, speakerEmail, conferenceID string) error
	Get(ctx context.Context) string
}
