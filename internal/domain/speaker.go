package domain

import (
	"context"
	"slices"
)

// Default values applied to speaker fields that are absent on create.
var (
	DefaultSpeakerCompany = "NOT_SPECIFIED"
	DefaultSpeakerSex     = "Male"
	DefaultSpeakerField   = []string{"NOT_SPECIFIED"}
)

// Speaker is reference data keyed by email.
// swagger:model Speaker
type Speaker struct {
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Company string   `json:"company"`
	Sex     string   `json:"sex"`
	Field   []string `json:"field"`
}

// NewSpeaker returns a Speaker with defaults applied to empty optional fields.
func NewSpeaker(email, name, company, sex string, field []string) *Speaker {
	s := &Speaker{
		Email:   email,
		Name:    name,
		Company: company,
		Sex:     sex,
		Field:   slices.Clone(field),
	}
	if s.Company == "" {
		s.Company = DefaultSpeakerCompany
	}
	if s.Sex == "" {
		s.Sex = DefaultSpeakerSex
	}
	if len(s.Field) == 0 {
		s.Field = slices.Clone(DefaultSpeakerField)
	}
	return s
}

// Clone returns a deep copy.
func (s *Speaker) Clone() *Speaker {
	out := *s
	out.Field = slices.Clone(s.Field)
	return &out
}

// SpeakerRepository defines the interface for speaker storage.
type SpeakerRepository interface {
	// Create returns ErrSpeakerExists when the email is taken.
	Create(ctx context.Context, speaker *Speaker) error
	GetByEmail(ctx context.Context, email string) (*Speaker, error)
	Query(ctx context.Context, plan *QueryPlan) ([]*Speaker, error)
	// ListByFields returns speakers whose field list intersects fields, by name.
	ListByFields(ctx context.Context, fields []string) ([]*Speaker, error)
}

// SpeakerService defines the business logic for speakers.
type SpeakerService interface {
	Create(ctx context.Context, speaker *Speaker) (*Speaker, error)
	Query(ctx context.Context, filters []FilterSpec) ([]*Speaker, error)
}
