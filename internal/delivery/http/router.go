package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "conferencecentral/docs"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// Controllers groups the endpoint handlers mounted by NewRouter.
type Controllers struct {
	Conferences   *controllers.ConferenceController
	Registrations *controllers.RegistrationController
	Profiles      *controllers.ProfileController
	Speakers      *controllers.SpeakerController
	Sessions      *controllers.SessionController
	Wishlist      *controllers.WishlistController
	Announcements *controllers.AnnouncementController
}

// HealthFunc reports whether the backing store is reachable. Nil means always healthy.
type HealthFunc func(ctx context.Context) error

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, health HealthFunc, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Conferences
	mux.HandleFunc("POST /conferences", auth(c.Conferences.CreateConference))
	mux.HandleFunc("GET /conferences/created", auth(c.Conferences.ListCreated))
	mux.HandleFunc("POST /conferences/query", auth(c.Conferences.QueryConferences))
	mux.HandleFunc("GET /conferences/{conferenceID}", auth(c.Conferences.GetConference))
	mux.HandleFunc("PUT /conferences/{conferenceID}", auth(c.Conferences.UpdateConference))

	// Registration
	mux.HandleFunc("POST /conferences/{conferenceID}/registration", auth(c.Registrations.Register))
	mux.HandleFunc("DELETE /conferences/{conferenceID}/registration", auth(c.Registrations.Unregister))
	mux.HandleFunc("GET /conferences/attending", auth(c.Registrations.ListAttending))

	// Profile
	mux.HandleFunc("GET /profile", auth(c.Profiles.GetProfile))
	mux.HandleFunc("POST /profile", auth(c.Profiles.SaveProfile))

	// Speakers and sessions
	mux.HandleFunc("POST /speakers", auth(c.Speakers.CreateSpeaker))
	mux.HandleFunc("POST /speakers/query", auth(c.Speakers.QuerySpeakers))
	mux.HandleFunc("GET /speakers/{email}/sessions", auth(c.Sessions.ListBySpeaker))
	mux.HandleFunc("POST /conferences/{conferenceID}/sessions", auth(c.Sessions.CreateSession))
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions", auth(c.Sessions.ListForConference))
	mux.HandleFunc("GET /conferences/{conferenceID}/sessions/type/{type}", auth(c.Sessions.ListForConferenceByType))
	mux.HandleFunc("POST /sessions/highlights", auth(c.Sessions.ListByHighlights))
	mux.HandleFunc("POST /sessions/speaker-fields", auth(c.Sessions.ListBySpeakerFields))
	mux.HandleFunc("GET /sessions/non-workshop-evening", auth(c.Sessions.ListNonWorkshopEvening))

	// Wishlist
	mux.HandleFunc("POST /wishlist/{sessionID}", auth(c.Wishlist.AddToWishlist))
	mux.HandleFunc("DELETE /wishlist/{sessionID}", auth(c.Wishlist.RemoveFromWishlist))
	mux.HandleFunc("GET /wishlist", auth(c.Wishlist.ListWishlist))

	// Announcements
	mux.HandleFunc("GET /announcement", auth(c.Announcements.GetAnnouncement))
	mux.HandleFunc("GET /featured-speaker", auth(c.Announcements.GetFeaturedSpeaker))

	// Ops
	mux.HandleFunc("GET /healthz", healthz(health, logger))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

func healthz(health HealthFunc, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := health(ctx); err != nil {
				logger.WarnContext(r.Context(), "health check failed", "err", err)
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "store unavailable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, "ok")
	}
}

// MiddlewareConfig configures the outer middleware chain.
type MiddlewareConfig struct {
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
}

// Handler wraps the router in the middleware chain. Metrics sits directly on the mux so
// it can read the matched route pattern.
func Handler(mux *http.ServeMux, cfg MiddlewareConfig, logger *slog.Logger) http.Handler {
	var h http.Handler = middleware.Metrics(mux)
	h = middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow)(h)
	h = middleware.LoggingMiddleware(logger, h)
	h = middleware.RequestID(h)
	return middleware.CORS(cfg.CORSAllowedOrigins, h)
}
