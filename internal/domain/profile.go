package domain

import (
	"context"
	"slices"
)

// TeeShirtSize is a profile's shirt size preference.
type TeeShirtSize string

const (
	TeeShirtNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	TeeShirtXSM          TeeShirtSize = "XS_M"
	TeeShirtXSW          TeeShirtSize = "XS_W"
	TeeShirtSM           TeeShirtSize = "S_M"
	TeeShirtSW           TeeShirtSize = "S_W"
	TeeShirtMM           TeeShirtSize = "M_M"
	TeeShirtMW           TeeShirtSize = "M_W"
	TeeShirtLM           TeeShirtSize = "L_M"
	TeeShirtLW           TeeShirtSize = "L_W"
	TeeShirtXLM          TeeShirtSize = "XL_M"
	TeeShirtXLW          TeeShirtSize = "XL_W"
	TeeShirtXXLM         TeeShirtSize = "XXL_M"
	TeeShirtXXLW         TeeShirtSize = "XXL_W"
	TeeShirtXXXLM        TeeShirtSize = "XXXL_M"
	TeeShirtXXXLW        TeeShirtSize = "XXXL_W"
)

var teeShirtSizes = []TeeShirtSize{
	TeeShirtNotSpecified,
	TeeShirtXSM, TeeShirtXSW, TeeShirtSM, TeeShirtSW, TeeShirtMM, TeeShirtMW,
	TeeShirtLM, TeeShirtLW, TeeShirtXLM, TeeShirtXLW, TeeShirtXXLM, TeeShirtXXLW,
	TeeShirtXXXLM, TeeShirtXXXLW,
}

// Valid reports whether s is one of the known sizes.
func (s TeeShirtSize) Valid() bool {
	return slices.Contains(teeShirtSizes, s)
}

// Profile is the per-user record holding registrations and the session wishlist.
// swagger:model Profile
type Profile struct {
	ID                     string       `json:"id"`
	DisplayName            string       `json:"display_name"`
	MainEmail              string       `json:"main_email"`
	TeeShirtSize           TeeShirtSize `json:"tee_shirt_size"`
	ConferenceKeysToAttend []string     `json:"conference_keys_to_attend"`
	SessionKeysWishlist    []string     `json:"session_keys_wishlist"`
}

// NewProfile returns the lazily created profile for an identity.
func NewProfile(identity *Identity) *Profile {
	return &Profile{
		ID:                     identity.UserID,
		DisplayName:            identity.Nickname,
		MainEmail:              identity.Email,
		TeeShirtSize:           TeeShirtNotSpecified,
		ConferenceKeysToAttend: []string{},
		SessionKeysWishlist:    []string{},
	}
}

// IsAttending reports whether conferenceID is in the attending list.
func (p *Profile) IsAttending(conferenceID string) bool {
	return slices.Contains(p.ConferenceKeysToAttend, conferenceID)
}

// HasWishlisted reports whether sessionID is in the wishlist.
func (p *Profile) HasWishlisted(sessionID string) bool {
	return slices.Contains(p.SessionKeysWishlist, sessionID)
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := *p
	c.ConferenceKeysToAttend = slices.Clone(p.ConferenceKeysToAttend)
	c.SessionKeysWishlist = slices.Clone(p.SessionKeysWishlist)
	return &c
}

// ProfileRepository defines the interface for profile storage.
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	// GetForUpdate reads the profile and locks it until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Profile, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

// ProfileUpdate holds the user editable profile fields. Empty values are left unchanged.
type ProfileUpdate struct {
	DisplayName  string
	TeeShirtSize TeeShirtSize
}

// ProfileService defines the business logic for profiles.
type ProfileService interface {
	GetOrCreate(ctx context.Context, identity *Identity) (*Profile, error)
	Save(ctx context.Context, identity *Identity, update ProfileUpdate) (*Profile, error)
}
