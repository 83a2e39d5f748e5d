package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
)

const conferenceCreatedTemplate = "conference_created"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendConferenceCreated confirms a new conference to its organizer using the "conference_created" template.
func (s *emailService) SendConferenceCreated(ctx context.Context, data *domain.ConferenceCreatedEmailData) (err error) {
	defer func() { metrics.RecordEmail(conferenceCreatedTemplate, err) }()

	if data == nil {
		return fmt.Errorf("conference created data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("%w: organizer has no email address", domain.ErrInvalidArgument)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(conferenceCreatedTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", conferenceCreatedTemplate, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send conference created email: %w", err)
	}
	s.logger.InfoContext(ctx, "conference created email sent", "to", data.Email, "conference_id", data.ConferenceID)
	return nil
}
