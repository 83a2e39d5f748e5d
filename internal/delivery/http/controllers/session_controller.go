package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// SessionRequest is the request body for POST /conferences/{conferenceID}/sessions.
// date uses YYYY-MM-DD and defaults to the conference start date; start_time uses HH:MM.
type SessionRequest struct {
	Name          string   `json:"name"`
	Highlights    []string `json:"highlights"`
	Speaker       string   `json:"speaker"`
	Duration      int      `json:"duration" validate:"min=0"`
	TypeOfSession string   `json:"type_of_session"`
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
}

// Validate implements Validator.
func (s SessionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(s.Speaker) == "" {
		errs = append(errs, "speaker is required")
	}
	return errs
}

// HighlightsRequest is the request body for POST /sessions/highlights.
type HighlightsRequest struct {
	Highlights []string `json:"highlights"`
}

// SpeakerFieldsRequest is the request body for POST /sessions/speaker-fields.
type SpeakerFieldsRequest struct {
	Fields []string `json:"fields"`
}

type SessionController struct {
	Logger  *slog.Logger
	Service domain.SessionService
}

func NewSessionController(logger *slog.Logger, svc domain.SessionService) *SessionController {
	return &SessionController{Logger: logger, Service: svc}
}

// CreateSession godoc
// @Summary Create a session
// @Description Adds a session to a conference. Only the organizer may add sessions, and the speaker must exist. A featured speaker refresh is queued.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Param session body SessionRequest true "Session data"
// @Success 201 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID}/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	conferenceID, ok := pathValue(w, r, "conferenceID")
	if !ok {
		return
	}
	var req SessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	id, ok := identity(w, r)
	if !ok {
		return
	}
	session, err := c.Service.Create(r.Context(), id, conferenceID, domain.SessionForm{
		Name:          req.Name,
		Highlights:    req.Highlights,
		Speaker:       req.Speaker,
		Duration:      req.Duration,
		TypeOfSession: req.TypeOfSession,
		Date:          req.Date,
		StartTime:     req.StartTime,
	})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, session)
}

// ListForConference godoc
// @Summary List a conference's sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID}/sessions [get]
func (c *SessionController) ListForConference(w http.ResponseWriter, r *http.Request) {
	conferenceID, ok := pathValue(w, r, "conferenceID")
	if !ok {
		return
	}
	sessions, err := c.Service.ListForConference(r.Context(), conferenceID)
	c.writeSessions(w, r, sessions, err)
}

// ListForConferenceByType godoc
// @Summary List a conference's sessions of one type
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Param type path string true "Session type (LECTURE, KEYNOTE, WORKSHOP, PANEL, NOT_SPECIFIED)"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID}/sessions/type/{type} [get]
func (c *SessionController) ListForConferenceByType(w http.ResponseWriter, r *http.Request) {
	conferenceID, ok := pathValue(w, r, "conferenceID")
	if !ok {
		return
	}
	sessionType, ok := pathValue(w, r, "type")
	if !ok {
		return
	}
	sessions, err := c.Service.ListForConferenceByType(r.Context(), conferenceID, sessionType)
	c.writeSessions(w, r, sessions, err)
}

// ListBySpeaker godoc
// @Summary List a speaker's sessions across conferences
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param email path string true "Speaker email"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /speakers/{email}/sessions [get]
func (c *SessionController) ListBySpeaker(w http.ResponseWriter, r *http.Request) {
	email, ok := pathValue(w, r, "email")
	if !ok {
		return
	}
	sessions, err := c.Service.ListBySpeaker(r.Context(), email)
	c.writeSessions(w, r, sessions, err)
}

// ListByHighlights godoc
// @Summary List sessions matching any highlight
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body HighlightsRequest true "Highlights"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Router /sessions/highlights [post]
func (c *SessionController) ListByHighlights(w http.ResponseWriter, r *http.Request) {
	var req HighlightsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sessions, err := c.Service.ListByHighlights(r.Context(), req.Highlights)
	c.writeSessions(w, r, sessions, err)
}

// ListBySpeakerFields godoc
// @Summary List sessions whose speaker works in any of the fields
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SpeakerFieldsRequest true "Speaker fields"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Router /sessions/speaker-fields [post]
func (c *SessionController) ListBySpeakerFields(w http.ResponseWriter, r *http.Request) {
	var req SpeakerFieldsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sessions, err := c.Service.ListBySpeakerFields(r.Context(), req.Fields)
	c.writeSessions(w, r, sessions, err)
}

// ListNonWorkshopEvening godoc
// @Summary List non-workshop sessions starting before 19:00
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Router /sessions/non-workshop-evening [get]
func (c *SessionController) ListNonWorkshopEvening(w http.ResponseWriter, r *http.Request) {
	sessions, err := c.Service.ListNonWorkshopEvening(r.Context())
	c.writeSessions(w, r, sessions, err)
}

func (c *SessionController) writeSessions(w http.ResponseWriter, r *http.Request, sessions []*domain.Session, err error) {
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}
