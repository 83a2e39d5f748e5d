package domain

import "context"

// Task names accepted by the work queue.
const (
	TaskSendConfirmationEmail = "send_confirmation_email"
	TaskSetFeaturedSpeaker    = "set_featured_speaker"
	TaskRefreshAnnouncement   = "refresh_announcement"
)

// TaskQueue accepts background work. Enqueue returns once the task is accepted;
// delivery is asynchronous and at least once.
type TaskQueue interface {
	Enqueue(ctx context.Context, name string, payload any) error
}

// SetFeaturedSpeakerTask is the payload of TaskSetFeaturedSpeaker.
type SetFeaturedSpeakerTask struct {
	SpeakerEmail string `json:"speaker_email"`
	ConferenceID string `json:"conference_id"`
}

// RefreshAnnouncementTask is the payload of TaskRefreshAnnouncement.
type RefreshAnnouncementTask struct {
	ConferenceID string `json:"conference_id"`
}
