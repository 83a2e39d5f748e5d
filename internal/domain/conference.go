package domain

import (
	"context"
	"slices"
	"time"
)

// Default values applied to conference fields that are absent on create.
var (
	DefaultConferenceCity   = "Default City"
	DefaultConferenceTopics = []string{"Default", "Topic"}
)

// NearlySoldOutSeats is the upper bound (inclusive) on remaining seats for the announcement.
const NearlySoldOutSeats = 5

// Conference is an event owned by an organizer profile.
// swagger:model Conference
type Conference struct {
	ID                   string     `json:"id"`
	OrganizerID          string     `json:"organizer_user_id"`
	OrganizerDisplayName string     `json:"organizer_display_name"`
	Name                 string     `json:"name"`
	Description          string     `json:"description"`
	Topics               []string   `json:"topics"`
	City                 string     `json:"city"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	Month                int        `json:"month"`
	MaxAttendees         int        `json:"max_attendees"`
	SeatsAvailable       int        `json:"seats_available"`
}

// NewConference returns a Conference for the given organizer with create defaults applied.
// ID is set by the repository on create.
func NewConference(organizerID, name string) *Conference {
	return &Conference{
		OrganizerID: organizerID,
		Name:        name,
		Topics:      slices.Clone(DefaultConferenceTopics),
		City:        DefaultConferenceCity,
	}
}

// Clone returns a deep copy.
func (c *Conference) Clone() *Conference {
	out := *c
	out.Topics = slices.Clone(c.Topics)
	if c.StartDate != nil {
		d := *c.StartDate
		out.StartDate = &d
	}
	if c.EndDate != nil {
		d := *c.EndDate
		out.EndDate = &d
	}
	return &out
}

// Registered returns how many seats are taken.
func (c *Conference) Registered() int {
	return c.MaxAttendees - c.SeatsAvailable
}

// ConferenceForm is the caller supplied conference data. Dates use the 2006-01-02 layout.
// On update, zero values mean "leave unchanged".
type ConferenceForm struct {
	Name         string
	Description  string
	Topics       []string
	City         string
	StartDate    string
	EndDate      string
	MaxAttendees *int
}

// ConferenceRepository defines the interface for conference storage.
type ConferenceRepository interface {
	Create(ctx context.Context, conference *Conference) error
	GetByID(ctx context.Context, id string) (*Conference, error)
	// GetForUpdate reads the conference and locks it until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Conference, error)
	Update(ctx context.Context, conference *Conference) error
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Conference, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Conference, error)
	Query(ctx context.Context, plan *QueryPlan) ([]*Conference, error)
	// ListNearlySoldOutNames returns names of conferences with 0 < seats_available <= maxSeats, by name.
	ListNearlySoldOutNames(ctx context.Context, maxSeats int) ([]string, error)
}

// ConferenceService defines the business logic for conferences.
type ConferenceService interface {
	Create(ctx context.Context, identity *Identity, form ConferenceForm) (*Conference, error)
	Update(ctx context.Context, identity *Identity, conferenceID string, form ConferenceForm) (*Conference, error)
	Get(ctx context.Context, conferenceID string) (*Conference, error)
	ListCreatedBy(ctx context.Context, identity *Identity) ([]*Conference, error)
	Query(ctx context.Context, filters []FilterSpec) ([]*Conference, error)
}

// RegistrationService enforces seat accounting for conference registration.
type RegistrationService interface {
	Register(ctx context.Context, identity *Identity, conferenceID string) (bool, error)
	Cancel(ctx context.Context, identity *Identity, conferenceID string) (bool, error)
	ListAttending(ctx context.Context, identity *Identity) ([]*Conference, error)
}
