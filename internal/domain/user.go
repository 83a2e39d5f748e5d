package domain

// Identity is the authenticated caller as resolved by the identity provider.
// UserID is opaque and stable; it doubles as the caller's profile ID.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// TokenVerifier verifies a bearer token and returns the caller identity.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}
