package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ConferenceCreatedEmailData is the payload of TaskSendConfirmationEmail and the template data
// of the confirmation email.
type ConferenceCreatedEmailData struct {
	Email          string   `json:"email"`
	OrganizerName  string   `json:"organizer_name"`
	ConferenceID   string   `json:"conference_id"`
	ConferenceName string   `json:"conference_name"`
	City           string   `json:"city"`
	StartDate      string   `json:"start_date"`
	Topics         []string `json:"topics"`
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendConferenceCreated(ctx context.Context, data *ConferenceCreatedEmailData) error
}
