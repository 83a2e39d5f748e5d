package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// SessionType enumerates the kinds of session.
type SessionType string

const (
	SessionTypeNotSpecified SessionType = "NOT_SPECIFIED"
	SessionTypeLecture      SessionType = "LECTURE"
	SessionTypeKeynote      SessionType = "KEYNOTE"
	SessionTypeWorkshop     SessionType = "WORKSHOP"
	SessionTypePanel        SessionType = "PANEL"
)

var sessionTypes = []SessionType{
	SessionTypeNotSpecified, SessionTypeLecture, SessionTypeKeynote, SessionTypeWorkshop, SessionTypePanel,
}

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	return slices.Contains(sessionTypes, t)
}

// DefaultSessionHighlights is applied when a session is created without highlights.
var DefaultSessionHighlights = []string{"NOT_SPECIFIED"}

// EveningStart is the cutoff used by the non-workshop evening query.
const EveningStart ClockTime = 19 * 60

// ClockTime is a time of day with minute resolution, stored as minutes after midnight.
type ClockTime int

// ParseClockTime parses the leading "15:04" portion of s.
func ParseClockTime(s string) (ClockTime, error) {
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: start time %q must be HH:MM", ErrInvalidArgument, s)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Session is a talk scheduled under a conference.
// swagger:model Session
type Session struct {
	ID            string      `json:"id"`
	ConferenceID  string      `json:"conference_id"`
	Name          string      `json:"name"`
	Highlights    []string    `json:"highlights"`
	SpeakerEmail  string      `json:"speaker"`
	Duration      int         `json:"duration"`
	TypeOfSession SessionType `json:"type_of_session"`
	Date          *time.Time  `json:"date"`
	StartTime     *ClockTime  `json:"start_time"`
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	out := *s
	out.Highlights = slices.Clone(s.Highlights)
	if s.Date != nil {
		d := *s.Date
		out.Date = &d
	}
	if s.StartTime != nil {
		t := *s.StartTime
		out.StartTime = &t
	}
	return &out
}

// SessionForm is the caller supplied session data. Date uses 2006-01-02, start time 15:04.
type SessionForm struct {
	Name          string
	Highlights    []string
	Speaker       string
	Duration      int
	TypeOfSession string
	Date          string
	StartTime     string
}

// SessionRepository defines the interface for session storage. Lists are ordered by name, then id.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Session, error)
	ListByConference(ctx context.Context, conferenceID string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID string, sessionType SessionType) ([]*Session, error)
	ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerEmail string) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speakerEmail string) ([]*Session, error)
	ListByHighlights(ctx context.Context, highlights []string) ([]*Session, error)
	ListBySpeakers(ctx context.Context, speakerEmails []string) ([]*Session, error)
	// ListStartingBefore returns sessions with a non-null start time before t whose type is not excluded.
	ListStartingBefore(ctx context.Context, t ClockTime, excluded SessionType) ([]*Session, error)
}

// SessionService defines the business logic for sessions.
type SessionService interface {
	Create(ctx context.Context, identity *Identity, conferenceID string, form SessionForm) (*Session, error)
	ListForConference(ctx context.Context, conferenceID string) ([]*Session, error)
	ListForConferenceByType(ctx context.Context, conferenceID, sessionType string) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speakerEmail string) ([]*Session, error)
	ListByHighlights(ctx context.Context, highlights []string) ([]*Session, error)
	ListBySpeakerFields(ctx context.Context, fields []string) ([]*Session, error)
	ListNonWorkshopEvening(ctx context.Context) ([]*Session, error)
}

// WishlistService manages the per-profile session wishlist.
type WishlistService interface {
	Add(ctx context.Context, identity *Identity, sessionID string) (bool, error)
	Remove(ctx context.Context, identity *Identity, sessionID string) (bool, error)
	List(ctx context.Context, identity *Identity) ([]*Session, error)
}
