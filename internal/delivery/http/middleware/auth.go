package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type identityKey struct{}

// SetIdentity returns a context carrying the caller identity.
func SetIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the authenticated caller, if present.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*domain.Identity)
	return id, ok && id != nil
}

// bearerToken extracts the token from an Authorization header. The scheme is matched
// case-insensitively. On failure the second result is the client-facing reason.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing authorization header"
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", "invalid authorization format"
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", "missing token"
	}
	return token, ""
}

// RequireAuth returns a wrapper that verifies the Bearer token and stores the caller identity
// in the request context. Rejected requests get a 401 and next is not called.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	unauthorized := func(w http.ResponseWriter, message string) {
		w.Header().Set("WWW-Authenticate", `Bearer realm="conferencecentral"`)
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, message)
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, reason := bearerToken(r.Header.Get("Authorization"))
			if reason != "" {
				unauthorized(w, reason)
				return
			}
			identity, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "err", err)
				unauthorized(w, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetIdentity(r.Context(), identity)))
		}
	}
}
