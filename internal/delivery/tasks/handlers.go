package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"conferencecentral/internal/adapters/queue"
	"conferencecentral/internal/domain"
)

// Registrar is the part of the work queue consumers attach to.
type Registrar interface {
	Handle(topic string, handler queue.HandlerFunc)
}

// Handlers turns queued tasks into service calls.
type Handlers struct {
	EmailService           domain.EmailService
	FeaturedSpeakerService domain.FeaturedSpeakerService
	AnnouncementService    domain.AnnouncementService
}

// Register attaches one consumer per task topic.
func (h *Handlers) Register(r Registrar) {
	r.Handle(domain.TaskSendConfirmationEmail, h.SendConfirmationEmail)
	r.Handle(domain.TaskSetFeaturedSpeaker, h.SetFeaturedSpeaker)
	r.Handle(domain.TaskRefreshAnnouncement, h.RefreshAnnouncement)
}

func (h *Handlers) SendConfirmationEmail(ctx context.Context, payload []byte) error {
	var data domain.ConferenceCreatedEmailData
	if err := json.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("decode %s payload: %w", domain.TaskSendConfirmationEmail, err)
	}
	return h.EmailService.SendConferenceCreated(ctx, &data)
}

func (h *Handlers) SetFeaturedSpeaker(ctx context.Context, payload []byte) error {
	var task domain.SetFeaturedSpeakerTask
	if err := json.Unmarshal(payload, &task); err != nil {
		return fmt.Errorf("decode %s payload: %w", domain.TaskSetFeaturedSpeaker, err)
	}
	if task.SpeakerEmail == "" || task.ConferenceID == "" {
		return fmt.Errorf("%w: %s needs speaker_email and conference_id", domain.ErrInvalidArgument, domain.TaskSetFeaturedSpeaker)
	}
	return h.FeaturedSpeakerService.Rebuild(ctx, task.SpeakerEmail, task.ConferenceID)
}

// RefreshAnnouncement rebuilds the whole announcement; the conference id is informational.
func (h *Handlers) RefreshAnnouncement(ctx context.Context, _ []byte) error {
	return h.AnnouncementService.Rebuild(ctx)
}
